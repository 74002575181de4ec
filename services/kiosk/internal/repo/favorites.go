package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
)

func (r *GormRepo) ListFavorites(ctx context.Context, userID string) ([]models.Product, error) {
	items := make([]models.Product, 0)
	err := r.DB.WithContext(ctx).
		Table("favorites AS f").
		Select("p.id, p.name, p.category, p.price, p.icon").
		Joins("JOIN products AS p ON p.id = f.product_id").
		Where("f.user_id = ?", userID).
		Order("f.created_at ASC, p.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) AddFavorite(ctx context.Context, userID, productID string) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Favorite{UserID: userID, ProductID: productID}).Error
}

func (r *GormRepo) RemoveFavorite(ctx context.Context, userID, productID string) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{}).Error
}

func (r *GormRepo) CountFavorites(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
