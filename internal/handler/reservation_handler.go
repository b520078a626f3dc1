package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TavolaHQ/tavola_api/internal/models"
	"github.com/TavolaHQ/tavola_api/internal/service"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

// ReservationHandler handles reservation HTTP requests: public booking plus
// admin lifecycle management.
type ReservationHandler struct {
	svc *service.ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// Create handles POST /v1/reservations (public).
func (h *ReservationHandler) Create(c *gin.Context) {
	var req struct {
		Name        string    `json:"name" binding:"required"`
		Email       string    `json:"email" binding:"required,email"`
		Phone       string    `json:"phone"`
		PartySize   int       `json:"partySize" binding:"required,min=1"`
		ReservedFor time.Time `json:"reservedFor" binding:"required"`
		Notes       string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	rsv := &models.Reservation{
		Name:        req.Name,
		Email:       req.Email,
		PartySize:   req.PartySize,
		ReservedFor: req.ReservedFor,
	}
	if req.Phone != "" {
		rsv.Phone = sql.NullString{String: req.Phone, Valid: true}
	}
	if req.Notes != "" {
		rsv.Notes = sql.NullString{String: req.Notes, Valid: true}
	}

	if err := h.svc.Create(c.Request.Context(), rsv); err != nil {
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.Success(c, http.StatusCreated, "Reservation received", rsv)
}

// List handles GET /v1/admin/reservations?status=&date=YYYY-MM-DD
func (h *ReservationHandler) List(c *gin.Context) {
	status := c.Query("status")

	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = &parsed
	}

	reservations, err := h.svc.List(c.Request.Context(), status, day)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidStatus) {
			utils.Error(c, http.StatusBadRequest, "Unknown reservation status")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve reservations")
		return
	}
	utils.SuccessWithTotal(c, http.StatusOK, "Successfully retrieved reservations", reservations, len(reservations))
}

// UpdateStatus handles PATCH /v1/admin/reservations/:id/status
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid reservation id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	rsv, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidStatus):
			utils.Error(c, http.StatusBadRequest, "Unknown reservation status")
		case errors.Is(err, utils.ErrNotFound):
			utils.Error(c, http.StatusNotFound, "Reservation not found")
		default:
			utils.Error(c, http.StatusInternalServerError, "Failed to update reservation")
		}
		return
	}
	utils.Success(c, http.StatusOK, "Reservation updated", rsv)
}

// Delete handles DELETE /v1/admin/reservations/:id
func (h *ReservationHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid reservation id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, http.StatusNotFound, "Reservation not found")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Failed to delete reservation")
		return
	}
	utils.Success(c, http.StatusOK, "Reservation deleted", nil)
}
