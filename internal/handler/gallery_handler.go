package handler

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TavolaHQ/tavola_api/internal/service"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

// 8 MB decoded; the CDN handles resizing, we only cap the upload.
const maxImageBytes = 8 << 20

// GalleryHandler handles gallery HTTP requests.
type GalleryHandler struct {
	svc *service.GalleryService
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(svc *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{svc: svc}
}

// List handles GET /v1/gallery (public).
func (h *GalleryHandler) List(c *gin.Context) {
	images, err := h.svc.List(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve gallery")
		return
	}
	utils.SuccessWithTotal(c, http.StatusOK, "Successfully retrieved gallery", images, len(images))
}

// Upload handles POST /v1/admin/gallery. The image arrives base64-encoded in
// the JSON body, matching how the admin frontend reads files.
func (h *GalleryHandler) Upload(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		ContentType string `json:"contentType"`
		Data        string `json:"data" binding:"required"`
		Position    int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Image data is not valid base64")
		return
	}
	if len(data) == 0 || len(data) > maxImageBytes {
		utils.Error(c, http.StatusBadRequest, "Image must be between 1 byte and 8 MB")
		return
	}

	contentType := req.ContentType
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = "image/jpeg"
	}

	img, err := h.svc.Upload(c.Request.Context(), req.Title, data, contentType, req.Position)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to store image")
		return
	}
	utils.Success(c, http.StatusCreated, "Image uploaded", img)
}

// Delete handles DELETE /v1/admin/gallery/:id
func (h *GalleryHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid image id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, http.StatusNotFound, "Image not found")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Failed to delete image")
		return
	}
	utils.Success(c, http.StatusOK, "Image deleted", nil)
}
