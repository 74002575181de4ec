package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
)

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type CartRequest struct {
	ProductID string `json:"product_id"`
	// Quantity defaults to 1 when omitted; negative values decrement.
	Quantity *int `json:"quantity"`
}

type ProductRef struct {
	ProductID string `json:"product_id"`
}

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

type UserView struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Role     string     `json:"role"`
	Points   int64      `json:"points"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

func NewUserView(u *models.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Role: u.Role, Points: u.Points, LastSeen: u.LastSeen}
}

type ReceiptLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CheckoutResponse struct {
	OrderID       string          `json:"order_id"`
	Total         decimal.Decimal `json:"total"`
	PointsEarned  int64           `json:"points_earned"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []ReceiptLine   `json:"items"`
}

func NewCheckoutResponse(o *models.Order) CheckoutResponse {
	items := make([]ReceiptLine, len(o.Items))
	for i, it := range o.Items {
		items[i] = ReceiptLine{ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return CheckoutResponse{
		OrderID:       o.ID,
		Total:         o.Total,
		PointsEarned:  o.PointsEarned,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
		Items:         items,
	}
}

type CartView struct {
	Items []models.CartLine `json:"items"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

func NewCartView(lines []models.CartLine) CartView {
	total := decimal.Zero
	count := 0
	for _, l := range lines {
		total = total.Add(l.Subtotal())
		count += l.Quantity
	}
	return CartView{Items: lines, Total: total, Count: count}
}
