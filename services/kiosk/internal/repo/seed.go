package repo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
)

func product(id, name, category string, price int64, icon string) models.Product {
	return models.Product{ID: id, Name: name, Category: category, Price: decimal.NewFromInt(price), Icon: icon}
}

// DefaultProducts is the kiosk's stock catalog.
func DefaultProducts() []models.Product {
	return []models.Product{
		product("p01", "Agua 500ml", "Bebidas", 1200, "💧"),
		product("p02", "Gaseosa cola 500ml", "Bebidas", 1700, "🥤"),
		product("p03", "Jugo naranja 500ml", "Bebidas", 1600, "🧃"),
		product("p04", "Energética 473ml", "Bebidas", 2200, "⚡"),
		product("p05", "Galletitas Oreo", "Snacks", 1500, "🍪"),
		product("p06", "Galletitas de agua", "Snacks", 1100, "🥠"),
		product("p07", "Alfajor triple", "Snacks", 1400, "🍫"),
		product("p08", "Barrita de cereal", "Snacks", 1300, "🥜"),
		product("p09", "Papas fritas", "Snacks", 1800, "🍟"),
		product("p10", "Mix frutos secos", "Snacks", 2100, "🥨"),
		product("p11", "Sándwich JyQ", "Snacks", 2500, "🥪"),
		product("p12", "Yerba mate 500g", "Infusiones", 4200, "🧉"),
		product("p13", "Saquitos mate cocido x25", "Infusiones", 2400, "🍵"),
		product("p14", "Café instantáneo 50g", "Infusiones", 2600, "☕"),
		product("p15", "Cuaderno A5 rayado", "Útiles", 3100, "📒"),
	}
}

func (r *GormRepo) SeedProducts(ctx context.Context) (int64, error) {
	return r.InsertMissingProducts(ctx, DefaultProducts())
}

// EnsureAdmin creates the admin account if it does not exist yet.
// An existing account is left untouched.
func (r *GormRepo) EnsureAdmin(ctx context.Context, id, name, passwordHash string) (bool, error) {
	_, err := r.GetUser(ctx, id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	admin := models.User{
		ID:           id,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}
	if err := r.CreateUser(ctx, &admin); err != nil {
		return false, err
	}
	return true, nil
}
