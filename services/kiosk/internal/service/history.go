package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/repo"
)

type HistoryEntry struct {
	models.Order
	Summary string `json:"summary"`
}

type UserStats struct {
	Points         int64           `json:"points"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	OrdersCount    int64           `json:"orders_count"`
	FavoritesCount int64           `json:"favorites_count"`
}

type HistoryService struct {
	Repo *repo.GormRepo
}

// Summarize renders order lines as "2x Agua 500ml, 1x Galletitas Oreo".
func Summarize(items []models.OrderItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%dx %s", it.Quantity, it.Name)
	}
	return strings.Join(parts, ", ")
}

func (s *HistoryService) History(ctx context.Context, userID string, offset, limit int) (int64, []HistoryEntry, error) {
	total, orders, err := s.Repo.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		return 0, nil, err
	}

	out := make([]HistoryEntry, len(orders))
	for i, o := range orders {
		out[i] = HistoryEntry{Order: o, Summary: Summarize(o.Items)}
	}
	return total, out, nil
}

func (s *HistoryService) Stats(ctx context.Context, userID string) (*UserStats, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	spent, err := s.Repo.TotalSpent(ctx, userID)
	if err != nil {
		return nil, err
	}
	orders, err := s.Repo.CountOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	favs, err := s.Repo.CountFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		Points:         user.Points,
		TotalSpent:     spent,
		OrdersCount:    orders,
		FavoritesCount: favs,
	}, nil
}
