package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/smallbiznis/backinstock/internal/tenant/domain"
	"gorm.io/gorm"
)

type gormRepository struct {
	node *snowflake.Node
}

// Provide constructs the gorm-backed shop repository.
func Provide(node *snowflake.Node) tenantdomain.Repository {
	return gormRepository{node: node}
}

func (gormRepository) FindByDomain(ctx context.Context, db *gorm.DB, shopDomain string) (*tenantdomain.Shop, error) {
	shopDomain = strings.ToLower(strings.TrimSpace(shopDomain))
	if shopDomain == "" {
		return nil, tenantdomain.ErrInvalidShop
	}

	var shop tenantdomain.Shop
	err := db.WithContext(ctx).
		Where("shop_domain = ?", shopDomain).
		First(&shop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenantdomain.ErrShopNotFound
		}
		return nil, err
	}
	if !shop.Active {
		return nil, tenantdomain.ErrShopInactive
	}
	return &shop, nil
}

func (r gormRepository) Save(ctx context.Context, db *gorm.DB, shop *tenantdomain.Shop) error {
	if shop == nil {
		return tenantdomain.ErrInvalidShop
	}
	shop.ShopDomain = strings.ToLower(strings.TrimSpace(shop.ShopDomain))
	if shop.ShopDomain == "" || shop.AccessToken == "" || shop.WebhookSecret == "" {
		return tenantdomain.ErrInvalidShop
	}
	if shop.StorefrontDomain == "" {
		shop.StorefrontDomain = shop.ShopDomain
	}

	// Saving an already-registered domain updates the existing row.
	var existing tenantdomain.Shop
	err := db.WithContext(ctx).
		Where("shop_domain = ?", shop.ShopDomain).
		First(&existing).Error
	switch {
	case err == nil:
		shop.ID = existing.ID
		shop.CreatedAt = existing.CreatedAt
	case errors.Is(err, gorm.ErrRecordNotFound):
		if shop.ID == 0 {
			shop.ID = r.node.Generate()
		}
	default:
		return err
	}

	now := time.Now().UTC()
	if shop.CreatedAt.IsZero() {
		shop.CreatedAt = now
	}
	shop.UpdatedAt = now
	return db.WithContext(ctx).Save(shop).Error
}
