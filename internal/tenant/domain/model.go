// Package domain contains the shop registry models.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrShopNotFound = errors.New("shop_not_found")
	ErrShopInactive = errors.New("shop_inactive")
	ErrInvalidShop  = errors.New("invalid_shop")
)

// Shop holds the per-tenant credentials needed to talk to the catalog
// platform and to verify inbound webhooks.
type Shop struct {
	ID snowflake.ID `gorm:"primaryKey" json:"id"`

	// ShopDomain is the platform identity delivered with every webhook
	// (X-Shopify-Shop-Domain).
	ShopDomain string `gorm:"type:text;not null;uniqueIndex" json:"shop_domain"`

	// StorefrontDomain is the customer-facing domain used to build
	// product URLs in marketing events.
	StorefrontDomain string `gorm:"type:text;not null" json:"storefront_domain"`

	AccessToken   string `gorm:"type:text;not null" json:"-"`
	WebhookSecret string `gorm:"type:text;not null" json:"-"`

	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Shop) TableName() string { return "shops" }

// ProductURL builds the storefront URL for a product handle.
func (s Shop) ProductURL(handle string) string {
	return "https://" + s.StorefrontDomain + "/products/" + handle
}
