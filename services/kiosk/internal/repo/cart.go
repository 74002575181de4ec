package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
)

// CartLines returns the user's cart joined with current catalog data, in insertion order.
func (r *GormRepo) CartLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	err := r.DB.WithContext(ctx).
		Table("cart_items AS c").
		Select("c.product_id, c.quantity, p.name, p.category, p.price, p.icon").
		Joins("JOIN products AS p ON p.id = c.product_id").
		Where("c.user_id = ?", userID).
		Order("c.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// ApplyCartDelta adds delta to the user's line for productID. A line whose
// quantity drops to zero or below is deleted; a missing line is only created
// for a positive delta. The returned item is nil when no line remains.
func (r *GormRepo) ApplyCartDelta(ctx context.Context, userID, productID string, delta int) (*models.CartItem, error) {
	var out *models.CartItem
	err := r.Transaction(ctx, func(tx *GormRepo) error {
		db := tx.DB.WithContext(ctx)

		var item models.CartItem
		err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if delta <= 0 {
				return nil
			}
			item = models.CartItem{UserID: userID, ProductID: productID, Quantity: delta}
			if err := db.Create(&item).Error; err != nil {
				return err
			}
			out = &item
			return nil
		}
		if err != nil {
			return err
		}

		if item.Quantity+delta <= 0 {
			return db.Delete(&item).Error
		}
		if err := db.Model(&item).Update("quantity", gorm.Expr("quantity + ?", delta)).Error; err != nil {
			return err
		}
		item.Quantity += delta
		out = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) RemoveCartItem(ctx context.Context, userID, productID string) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
