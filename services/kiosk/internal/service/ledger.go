package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kiosk/pkg/logging"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/lock"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/mykafka"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/repo"
)

// LedgerTx is the set of writes checkout performs inside one transaction.
type LedgerTx interface {
	LockUser(ctx context.Context, id string) (*models.User, error)
	CartLines(ctx context.Context, userID string) ([]models.CartLine, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	AddPoints(ctx context.Context, id string, points int64) error
	ClearCart(ctx context.Context, userID string) error
}

type LedgerStore interface {
	InTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

type GormLedgerStore struct {
	Repo *repo.GormRepo
}

func (s GormLedgerStore) InTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	return s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return fn(tx)
	})
}

var pointsDivisor = decimal.NewFromInt(100)

// PointsFor returns the loyalty points earned for a purchase: one point per
// 100 currency units, rounded down.
func PointsFor(total decimal.Decimal) int64 {
	if total.Sign() <= 0 {
		return 0
	}
	return total.Div(pointsDivisor).Floor().IntPart()
}

// NormalizePaymentMethod defaults an empty method to cash and rejects
// anything the kiosk does not accept.
func NormalizePaymentMethod(m string) (string, error) {
	m = strings.TrimSpace(m)
	if m == "" {
		return models.PaymentCash, nil
	}
	for _, pm := range models.PaymentMethods {
		if strings.EqualFold(m, pm) {
			return pm, nil
		}
	}
	return "", fmt.Errorf("unsupported payment method %q: %w", m, ErrValidation)
}

type LedgerService struct {
	Store       LedgerStore
	Locks       lock.Locker
	LockTimeout time.Duration
	Events      mykafka.Publisher
	Now         func() time.Time
	NewID       func() string
}

func (s *LedgerService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *LedgerService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Checkout turns the user's cart into an order. Order, lines, points and the
// cart clear commit together or not at all.
func (s *LedgerService) Checkout(ctx context.Context, userID, paymentMethod string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "ledger.checkout", "user_id", userID)

	method, err := NormalizePaymentMethod(paymentMethod)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = withUserLock(ctx, s.Locks, s.LockTimeout, userID, func() error {
		return s.Store.InTx(ctx, func(tx LedgerTx) error {
			o, err := s.settle(ctx, tx, userID, method)
			if err != nil {
				return err
			}
			order = o
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		l.Error("checkout_rolled_back", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	l.Info("checkout_committed", "order_id", order.ID, "total", order.Total.String(), "points_earned", order.PointsEarned)
	publish(ctx, s.Events, mykafka.TopicOrders, userID, orderCreatedEvent(order))
	return order, nil
}

func (s *LedgerService) settle(ctx context.Context, tx LedgerTx, userID, method string) (*models.Order, error) {
	if _, err := tx.LockUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s no longer exists: %w", userID, ErrUnauthorized)
		}
		return nil, fmt.Errorf("lock user: %w", err)
	}

	lines, err := tx.CartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return nil, fmt.Errorf("cart line %s has quantity %d", ln.ProductID, ln.Quantity)
		}
		total = total.Add(ln.Subtotal())
		items = append(items, models.OrderItem{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Quantity:  ln.Quantity,
			UnitPrice: ln.Price,
		})
	}

	order := &models.Order{
		ID:            s.newID(),
		UserID:        userID,
		CreatedAt:     s.now(),
		Total:         total,
		PaymentMethod: method,
		PointsEarned:  PointsFor(total),
	}
	if err := tx.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := tx.CreateOrderItems(ctx, items); err != nil {
		return nil, fmt.Errorf("insert order items: %w", err)
	}

	if err := tx.AddPoints(ctx, userID, order.PointsEarned); err != nil {
		return nil, fmt.Errorf("add points: %w", err)
	}
	if err := tx.ClearCart(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	order.Items = items
	return order, nil
}

func orderCreatedEvent(o *models.Order) mykafka.OrderCreated {
	lines := make([]mykafka.OrderLine, len(o.Items))
	for i, it := range o.Items {
		lines[i] = mykafka.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice.String()}
	}
	return mykafka.OrderCreated{
		Type:          mykafka.EventOrderCreated,
		OrderID:       o.ID,
		UserID:        o.UserID,
		Total:         o.Total.String(),
		PointsEarned:  o.PointsEarned,
		PaymentMethod: o.PaymentMethod,
		Lines:         lines,
		OccurredAt:    o.CreatedAt,
	}
}
