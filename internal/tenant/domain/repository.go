package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByDomain(ctx context.Context, db *gorm.DB, shopDomain string) (*Shop, error)
	Save(ctx context.Context, db *gorm.DB, shop *Shop) error
}
