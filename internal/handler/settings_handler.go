package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TavolaHQ/tavola_api/internal/repository"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

// SettingsHandler exposes admin-tunable runtime settings.
type SettingsHandler struct {
	repo *repository.SettingsRepository
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(repo *repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{repo: repo}
}

// GetAll handles GET /v1/admin/settings
func (h *SettingsHandler) GetAll(c *gin.Context) {
	settings, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve settings")
		return
	}
	utils.SuccessWithTotal(c, http.StatusOK, "Successfully retrieved settings", settings, len(settings))
}

// Get handles GET /v1/admin/settings/:key
func (h *SettingsHandler) Get(c *gin.Context) {
	setting, err := h.repo.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve setting")
		return
	}
	if setting == nil {
		utils.Error(c, http.StatusNotFound, "Setting not found")
		return
	}
	utils.Success(c, http.StatusOK, "Successfully retrieved setting", setting)
}

// Set handles PUT /v1/admin/settings/:key
func (h *SettingsHandler) Set(c *gin.Context) {
	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	setting, err := h.repo.Set(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to store setting")
		return
	}
	utils.Success(c, http.StatusOK, "Setting stored", setting)
}
