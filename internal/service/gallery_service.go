package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/TavolaHQ/tavola_api/internal/models"
	"github.com/TavolaHQ/tavola_api/internal/repository"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

// ImageStore is the object store consumed by GalleryService.
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// GalleryService manages gallery images: bytes go to the object store, the
// row store keeps title, key, and public URL.
type GalleryService struct {
	repo   *repository.GalleryRepository
	images ImageStore
}

// NewGalleryService constructs a GalleryService.
func NewGalleryService(repo *repository.GalleryRepository, images ImageStore) *GalleryService {
	return &GalleryService{repo: repo, images: images}
}

// List returns gallery images in display order.
func (s *GalleryService) List(ctx context.Context) ([]models.GalleryImage, error) {
	return s.repo.GetAll(ctx)
}

// Upload stores the image bytes and records the gallery row.
func (s *GalleryService) Upload(ctx context.Context, title string, data []byte, contentType string, position int) (*models.GalleryImage, error) {
	key := fmt.Sprintf("gallery/%s%s", uuid.New().String(), extensionFor(contentType))

	url, err := s.images.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}

	img := &models.GalleryImage{
		Title:     title,
		ObjectKey: key,
		URL:       url,
		Position:  position,
	}
	if err := s.repo.Create(ctx, img); err != nil {
		return nil, fmt.Errorf("create gallery row: %w", err)
	}
	return img, nil
}

// Delete removes the gallery row and, best-effort, the stored object. A
// failed object delete leaves an orphan in the bucket, which is harmless.
func (s *GalleryService) Delete(ctx context.Context, id int) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get gallery image: %w", err)
	}
	if img == nil {
		return utils.ErrNotFound
	}

	if err := s.images.Delete(ctx, img.ObjectKey); err != nil {
		log.Warn().Err(err).Str("key", img.ObjectKey).Msg("Failed to delete gallery object")
	}

	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete gallery row: %w", err)
	}
	return nil
}

// extensionFor maps upload content types to file extensions.
func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
