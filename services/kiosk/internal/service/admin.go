package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kiosk/pkg/logging"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/mykafka"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/repo"
)

type AdminStats struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalOrders   int64           `json:"total_orders"`
	TotalUsers    int64           `json:"total_users"`
	TotalProducts int64           `json:"total_products"`
}

type AdminService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	var st AdminStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.Repo.Revenue(gctx)
		st.TotalRevenue = v.Round(2)
		return err
	})
	g.Go(func() error {
		v, err := s.Repo.CountOrders(gctx, "")
		st.TotalOrders = v
		return err
	})
	g.Go(func() error {
		v, err := s.Repo.CountUsersByRole(gctx, models.RoleCustomer)
		st.TotalUsers = v
		return err
	})
	g.Go(func() error {
		v, err := s.Repo.CountProducts(gctx)
		st.TotalProducts = v
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

// DeleteUser removes a customer account. Admins cannot remove themselves or
// other admins.
func (s *AdminService) DeleteUser(ctx context.Context, caller *Identity, targetID string) error {
	l := logging.FromContext(ctx).With("svc", "admin.delete_user", "target", targetID)

	if targetID == "" {
		return fmt.Errorf("user_id is required: %w", ErrValidation)
	}
	if caller != nil && caller.UserID == targetID {
		return fmt.Errorf("cannot delete own account: %w", ErrValidation)
	}

	target, err := s.Repo.GetUser(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("user %s: %w", targetID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return fmt.Errorf("user %s is not a customer: %w", targetID, ErrNotFound)
	}

	if err := s.Repo.DeleteUser(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s: %w", targetID, ErrNotFound)
		}
		return err
	}

	l.Info("user_deleted")
	publish(ctx, s.Events, mykafka.TopicUsers, targetID, mykafka.UserEvent{
		Type: mykafka.EventUserDeleted, UserID: targetID, Role: target.Role, OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *AdminService) Sales(ctx context.Context, offset, limit int) (int64, []repo.SaleRow, error) {
	return s.Repo.ListSales(ctx, offset, limit)
}
