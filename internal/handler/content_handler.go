package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TavolaHQ/tavola_api/internal/cache"
	"github.com/TavolaHQ/tavola_api/internal/repository"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

// ContentHandler serves keyed page content. Public reads go through the
// read-through cache; admin writes invalidate the affected keys.
type ContentHandler struct {
	repo  *repository.ContentRepository
	cache *cache.ContentCache
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(repo *repository.ContentRepository, cache *cache.ContentCache) *ContentHandler {
	return &ContentHandler{repo: repo, cache: cache}
}

// GetAll handles GET /v1/content (public).
func (h *ContentHandler) GetAll(c *gin.Context) {
	entries, err := h.cache.GetContentAll(c.Request.Context(), h.repo.GetAll)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve content")
		return
	}
	utils.SuccessWithTotal(c, http.StatusOK, "Successfully retrieved content", entries, len(entries))
}

// GetByKey handles GET /v1/content/:key (public).
func (h *ContentHandler) GetByKey(c *gin.Context) {
	key := c.Param("key")

	entry, err := h.cache.GetContentByKey(c.Request.Context(), key, h.repo.GetByKey)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve content")
		return
	}
	if entry == nil {
		utils.Error(c, http.StatusNotFound, "Content not found")
		return
	}
	utils.Success(c, http.StatusOK, "Successfully retrieved content", entry)
}

// Upsert handles PUT /v1/admin/content/:key
func (h *ContentHandler) Upsert(c *gin.Context) {
	key := c.Param("key")

	var req struct {
		Value json.RawMessage `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.repo.Upsert(c.Request.Context(), key, req.Value)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to store content")
		return
	}
	h.cache.InvalidateContent(c.Request.Context(), key)
	utils.Success(c, http.StatusOK, "Content stored", entry)
}

// Delete handles DELETE /v1/admin/content/:key
func (h *ContentHandler) Delete(c *gin.Context) {
	key := c.Param("key")

	found, err := h.repo.Delete(c.Request.Context(), key)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to delete content")
		return
	}
	if !found {
		utils.Error(c, http.StatusNotFound, "Content not found")
		return
	}
	h.cache.InvalidateContent(c.Request.Context(), key)
	utils.Success(c, http.StatusOK, "Content deleted", nil)
}
