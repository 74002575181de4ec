package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	// Balance a customer starts with on first login.
	WelcomePoints int64 = 100
)

const (
	PaymentCash        = "Efectivo"
	PaymentCard        = "Tarjeta"
	PaymentMercadoPago = "Mercado Pago"
)

var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentMercadoPago}

type User struct {
	ID           string     `gorm:"primaryKey;size:64"              json:"id"`
	Name         string     `gorm:"size:120;not null"               json:"name"`
	PasswordHash string     `gorm:"not null"                        json:"-"`
	Role         string     `gorm:"size:16;not null;index"          json:"role"`
	Points       int64      `gorm:"not null;default:0;check:points >= 0" json:"points"`
	LastSeen     *time.Time `                                       json:"last_seen,omitempty"`
	CreatedAt    time.Time  `                                       json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Product struct {
	ID       string          `gorm:"primaryKey;size:32"             json:"id"`
	Name     string          `gorm:"size:120;not null"              json:"name"`
	Category string          `gorm:"size:60;not null;index"         json:"category"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null"    json:"price"`
	Icon     string          `gorm:"size:16"                        json:"icon"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey"                                   json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID string    `gorm:"size:32;not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity > 0"                  json:"quantity"`
	CreatedAt time.Time `                                                    json:"created_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartLine is a cart row joined with its product.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Icon      string          `json:"icon"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID            string          `gorm:"primaryKey;size:36"           json:"order_id"`
	UserID        string          `gorm:"size:64;not null;index"       json:"user_id"`
	CreatedAt     time.Time       `gorm:"not null;index"               json:"created_at"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"total"`
	PaymentMethod string          `gorm:"size:32;not null"             json:"payment_method"`
	PointsEarned  int64           `gorm:"not null;default:0"           json:"points_earned"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID"           json:"items,omitempty"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                   json:"-"`
	OrderID   string          `gorm:"size:36;not null;index"       json:"-"`
	ProductID string          `gorm:"size:32;not null"             json:"product_id"`
	Name      string          `gorm:"size:120;not null"            json:"name"`
	Quantity  int             `gorm:"not null;check:quantity > 0"  json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"unit_price"`
}

type Favorite struct {
	UserID    string    `gorm:"primaryKey;size:64"  json:"user_id"`
	ProductID string    `gorm:"primaryKey;size:32"  json:"product_id"`
	CreatedAt time.Time `                           json:"created_at"`
}

type Session struct {
	JTI       string     `gorm:"primaryKey;size:36"`
	UserID    string     `gorm:"size:64;not null;index"`
	CreatedAt time.Time
	ExpiresAt *time.Time
	Revoked   bool `gorm:"not null;default:false"`
}

func (s *Session) Active(now time.Time) bool {
	if s.Revoked {
		return false
	}
	return s.ExpiresAt == nil || now.Before(*s.ExpiresAt)
}

func All() []any {
	return []any{&User{}, &Product{}, &CartItem{}, &Order{}, &OrderItem{}, &Favorite{}, &Session{}}
}
