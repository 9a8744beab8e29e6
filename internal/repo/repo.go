// Package repo implements the user lookup and product store on gorm.
package repo

import "gorm.io/gorm"

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
