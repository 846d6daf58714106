// Package domain defines the marketing-event delivery surface.
package domain

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured  = errors.New("marketing_not_configured")
	ErrDeliveryFailed = errors.New("marketing_delivery_failed")
)

// Config carries one shop's marketing-API credentials, read from the
// shop's metadata storage. Any absent field means "not configured".
type Config struct {
	AccountID string
	Passcode  string
	Region    string
}

// Complete reports whether every credential field is present.
func (c Config) Complete() bool {
	return c.AccountID != "" && c.Passcode != "" && c.Region != ""
}

// EventData is the product context attached to a restock event.
type EventData struct {
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id"`
	ProductTitle string `json:"product_title"`
	ProductURL   string `json:"product_url"`
	ProductImage string `json:"product_image,omitempty"`
}

// Event is one customer-facing marketing event.
type Event struct {
	Email string
	Name  string
	Data  EventData
}

// Dispatcher delivers marketing events to the engagement platform.
type Dispatcher interface {
	Dispatch(ctx context.Context, cfg Config, event Event) error
}
