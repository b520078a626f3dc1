package service

import (
	"context"
	"fmt"

	"github.com/TavolaHQ/tavola_api/internal/cache"
	"github.com/TavolaHQ/tavola_api/internal/models"
	"github.com/TavolaHQ/tavola_api/internal/repository"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

// MenuService serves the public menu through the read-through cache and
// handles admin mutations, invalidating the cache on every write.
type MenuService struct {
	repo  *repository.MenuRepository
	cache *cache.ContentCache
}

// NewMenuService constructs a MenuService.
func NewMenuService(repo *repository.MenuRepository, cache *cache.ContentCache) *MenuService {
	return &MenuService{repo: repo, cache: cache}
}

// PublicMenu returns available items grouped by category, cached.
func (s *MenuService) PublicMenu(ctx context.Context) (map[string][]models.MenuItem, error) {
	items, err := s.cache.GetMenu(ctx, s.repo.GetAvailable)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}

	grouped := make(map[string][]models.MenuItem)
	for _, item := range items {
		grouped[item.Category] = append(grouped[item.Category], item)
	}
	return grouped, nil
}

// ListAll returns every item, including unavailable ones, for the admin panel.
func (s *MenuService) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	return s.repo.GetAll(ctx)
}

// Create inserts a menu item.
func (s *MenuService) Create(ctx context.Context, item *models.MenuItem) error {
	if err := s.repo.Create(ctx, item); err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	s.cache.InvalidateMenu(ctx)
	return nil
}

// Update rewrites a menu item.
func (s *MenuService) Update(ctx context.Context, item *models.MenuItem) error {
	found, err := s.repo.Update(ctx, item)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if !found {
		return utils.ErrNotFound
	}
	s.cache.InvalidateMenu(ctx)
	return nil
}

// Delete removes a menu item.
func (s *MenuService) Delete(ctx context.Context, id int) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if !found {
		return utils.ErrNotFound
	}
	s.cache.InvalidateMenu(ctx)
	return nil
}
