package mykafka

import "time"

const (
	EventOrderCreated = "order_created"
	EventCartChanged  = "cart_changed"
	EventCartCleared  = "cart_cleared"
	EventUserCreated  = "user_created"
	EventUserLoggedIn = "user_logged_in"
	EventUserDeleted  = "user_deleted"
)

type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type OrderCreated struct {
	Type          string      `json:"type"`
	OrderID       string      `json:"order_id"`
	UserID        string      `json:"user_id"`
	Total         string      `json:"total"`
	PointsEarned  int64       `json:"points_earned"`
	PaymentMethod string      `json:"payment_method"`
	Lines         []OrderLine `json:"lines"`
	OccurredAt    time.Time   `json:"occurred_at"`
}

type CartChanged struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	ProductID  string    `json:"product_id,omitempty"`
	Delta      int       `json:"delta,omitempty"`
	Quantity   int       `json:"quantity"`
	OccurredAt time.Time `json:"occurred_at"`
}

type UserEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Role       string    `json:"role,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
