package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/kiosk/services/kiosk/internal/lock"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/mykafka"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/repo"
)

type CartService struct {
	Repo        *repo.GormRepo
	Catalog     *CatalogService
	Locks       lock.Locker
	LockTimeout time.Duration
	Events      mykafka.Publisher
}

func (s *CartService) GetCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	return s.Repo.CartLines(ctx, userID)
}

// AddToCart applies delta to the user's line for productID and returns the
// resulting quantity (0 when the line is gone).
func (s *CartService) AddToCart(ctx context.Context, userID, productID string, delta int) (int, error) {
	if productID == "" {
		return 0, fmt.Errorf("product_id is required: %w", ErrValidation)
	}
	if delta == 0 {
		return 0, fmt.Errorf("quantity must not be zero: %w", ErrValidation)
	}
	if _, err := s.Catalog.GetProduct(ctx, productID); err != nil {
		return 0, err
	}

	var qty int
	err := withUserLock(ctx, s.Locks, s.LockTimeout, userID, func() error {
		item, err := s.Repo.ApplyCartDelta(ctx, userID, productID, delta)
		if err != nil {
			return err
		}
		if item != nil {
			qty = item.Quantity
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	publish(ctx, s.Events, mykafka.TopicCart, userID, mykafka.CartChanged{
		Type: mykafka.EventCartChanged, UserID: userID, ProductID: productID,
		Delta: delta, Quantity: qty, OccurredAt: time.Now().UTC(),
	})
	return qty, nil
}

// RemoveFromCart deletes one line, or the whole cart when productID is empty.
// Removing something that is not there succeeds.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID string) error {
	err := withUserLock(ctx, s.Locks, s.LockTimeout, userID, func() error {
		if productID == "" {
			return s.Repo.ClearCart(ctx, userID)
		}
		return s.Repo.RemoveCartItem(ctx, userID, productID)
	})
	if err != nil {
		return err
	}

	ev := mykafka.CartChanged{Type: mykafka.EventCartChanged, UserID: userID, ProductID: productID, OccurredAt: time.Now().UTC()}
	if productID == "" {
		ev.Type = mykafka.EventCartCleared
	}
	publish(ctx, s.Events, mykafka.TopicCart, userID, ev)
	return nil
}
