package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/stock_dashboard/internal/catalog"
	"github.com/Skotchmaster/stock_dashboard/internal/models"
)

func (r *GormRepo) List(ctx context.Context) ([]models.Product, error) {
	items := []models.Product{}
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) Get(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) Insert(ctx context.Context, in catalog.ProductInput) (uint, error) {
	prod := models.Product{Name: in.Name, UnitPrice: in.UnitPrice, Quantity: in.Quantity}
	if err := r.DB.WithContext(ctx).Create(&prod).Error; err != nil {
		return 0, err
	}
	return prod.ID, nil
}

// Update writes all editable fields, zero values included.
func (r *GormRepo) Update(ctx context.Context, id uint, in catalog.ProductInput) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).
		Select("name", "unit_price", "quantity").
		Updates(models.Product{Name: in.Name, UnitPrice: in.UnitPrice, Quantity: in.Quantity})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
