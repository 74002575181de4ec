package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/repo"
)

type FavoritesService struct {
	Repo    *repo.GormRepo
	Catalog *CatalogService
}

func (s *FavoritesService) List(ctx context.Context, userID string) ([]models.Product, error) {
	return s.Repo.ListFavorites(ctx, userID)
}

func (s *FavoritesService) Add(ctx context.Context, userID, productID string) error {
	if productID == "" {
		return fmt.Errorf("product_id is required: %w", ErrValidation)
	}
	if _, err := s.Catalog.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.Repo.AddFavorite(ctx, userID, productID)
}

func (s *FavoritesService) Remove(ctx context.Context, userID, productID string) error {
	if productID == "" {
		return fmt.Errorf("product_id is required: %w", ErrValidation)
	}
	return s.Repo.RemoveFavorite(ctx, userID, productID)
}
