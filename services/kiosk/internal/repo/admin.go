package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type SaleRow struct {
	OrderID       string          `json:"order_id"`
	UserID        string          `json:"user_id"`
	UserName      string          `json:"user_name"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	PointsEarned  int64           `json:"points_earned"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ListSales returns every order with the buyer's name, newest first.
// Orders of deleted users keep an empty name.
func (r *GormRepo) ListSales(ctx context.Context, offset, limit int) (int64, []SaleRow, error) {
	total, err := r.CountOrders(ctx, "")
	if err != nil {
		return 0, nil, err
	}

	rows := make([]SaleRow, 0, limit)
	err = r.DB.WithContext(ctx).
		Table("orders AS o").
		Select("o.id AS order_id, o.user_id, COALESCE(u.name, '') AS user_name, o.total, o.payment_method, o.points_earned, o.created_at").
		Joins("LEFT JOIN users AS u ON u.id = o.user_id").
		Order("o.created_at DESC, o.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return 0, nil, err
	}
	return total, rows, nil
}
