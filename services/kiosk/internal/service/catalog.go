package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kiosk/pkg/logging"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/repo"
)

type ProductSearcher interface {
	Search(ctx context.Context, q, category string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Repo *repo.GormRepo
	// Searcher is optional; without it search runs against the database.
	Searcher ProductSearcher
}

func (s *CatalogService) ListProducts(ctx context.Context, q, category string) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, q, category)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.Repo.Categories(ctx)
}

// Search prefers the search engine and falls back to the database filter
// when the engine is not configured or fails.
func (s *CatalogService) Search(ctx context.Context, q, category string, offset, limit int) (int64, []models.Product, error) {
	if s.Searcher != nil {
		total, items, err := s.Searcher.Search(ctx, q, category, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_engine_failed", "reason", "falling back to database", "error", err)
	}
	return s.Repo.SearchProducts(ctx, q, category, offset, limit)
}
