package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TavolaHQ/tavola_api/internal/models"
	"github.com/TavolaHQ/tavola_api/internal/service"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

// MenuHandler handles menu-related HTTP requests.
type MenuHandler struct {
	svc *service.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(svc *service.MenuService) *MenuHandler {
	return &MenuHandler{svc: svc}
}

// menuItemRequest is the canonical write shape for a menu item.
type menuItemRequest struct {
	Category    string `json:"category" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PriceCents  int    `json:"priceCents" binding:"required,min=0"`
	ImageURL    string `json:"imageUrl"`
	Position    int    `json:"position"`
	IsAvailable *bool  `json:"isAvailable"`
}

func (r *menuItemRequest) toModel(id int) *models.MenuItem {
	item := &models.MenuItem{
		ID:          id,
		Category:    r.Category,
		Name:        r.Name,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Position:    r.Position,
		IsAvailable: true,
	}
	if r.IsAvailable != nil {
		item.IsAvailable = *r.IsAvailable
	}
	if r.ImageURL != "" {
		item.ImageURL = sql.NullString{String: r.ImageURL, Valid: true}
	}
	return item
}

// GetPublicMenu returns available items grouped by category.
// GET /v1/menu
func (h *MenuHandler) GetPublicMenu(c *gin.Context) {
	menu, err := h.svc.PublicMenu(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve menu")
		return
	}
	utils.Success(c, http.StatusOK, "Successfully retrieved menu", menu)
}

// ListAll returns every menu item for the admin panel.
// GET /v1/admin/menu
func (h *MenuHandler) ListAll(c *gin.Context) {
	items, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve menu items")
		return
	}
	utils.SuccessWithTotal(c, http.StatusOK, "Successfully retrieved menu items", items, len(items))
}

// Create handles POST /v1/admin/menu
func (h *MenuHandler) Create(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	item := req.toModel(0)
	if err := h.svc.Create(c.Request.Context(), item); err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to create menu item")
		return
	}
	utils.Success(c, http.StatusCreated, "Menu item created", item)
}

// Update handles PUT /v1/admin/menu/:id
func (h *MenuHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid menu item id")
		return
	}

	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	item := req.toModel(id)
	if err := h.svc.Update(c.Request.Context(), item); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, http.StatusNotFound, "Menu item not found")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Failed to update menu item")
		return
	}
	utils.Success(c, http.StatusOK, "Menu item updated", item)
}

// Delete handles DELETE /v1/admin/menu/:id
func (h *MenuHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid menu item id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, http.StatusNotFound, "Menu item not found")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Failed to delete menu item")
		return
	}
	utils.Success(c, http.StatusOK, "Menu item deleted", nil)
}
