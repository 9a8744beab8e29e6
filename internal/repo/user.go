package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/stock_dashboard/internal/models"
)

// FindByCredentials matches username and password exactly. At most two rows
// are read so callers can tell a unique match from an ambiguous one.
func (r *GormRepo) FindByCredentials(ctx context.Context, username, password string) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).
		Where("username = ? AND password = ?", username, password).
		Order("id ASC").
		Limit(2).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByUsername is used when stored passwords are bcrypt hashes.
func (r *GormRepo) FindByUsername(ctx context.Context, username string) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).
		Where("username = ?", username).
		Order("id ASC").
		Limit(2).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

var ErrUsersPresent = errors.New("users table is not empty")

// SeedUsers inserts users only into an empty table.
func (r *GormRepo) SeedUsers(ctx context.Context, users []models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
			return err
		}
		if total > 0 {
			return ErrUsersPresent
		}
		return tx.Create(&users).Error
	})
}
