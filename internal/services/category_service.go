package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/community-events/internal/database"
	"github.com/ahmetcoskunkizilkaya/community-events/internal/models"
)

// CategoryService reads the fixed category taxonomy. Categories come from the
// seed data only, so there is nothing to write.
type CategoryService struct {
	store *database.Store
}

func NewCategoryService(store *database.Store) *CategoryService {
	return &CategoryService{store: store}
}

// ListAll returns every category sorted by name.
func (s *CategoryService) ListAll(ctx context.Context) ([]models.Category, error) {
	categories, err := database.QueryAll[models.Category](ctx, s.store,
		`SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) GetByName(ctx context.Context, name string) (models.Category, bool, error) {
	category, ok, err := database.QueryOne[models.Category](ctx, s.store,
		`SELECT id, name FROM categories WHERE name = ?`, name)
	if err != nil {
		return models.Category{}, false, fmt.Errorf("failed to get category: %w", err)
	}
	return category, ok, nil
}
