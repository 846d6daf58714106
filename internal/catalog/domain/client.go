// Package domain defines the catalog-platform surface the pipeline consumes.
package domain

import (
	"context"
	"errors"

	tenantdomain "github.com/smallbiznis/backinstock/internal/tenant/domain"
)

var (
	ErrCatalogUnavailable = errors.New("catalog_unavailable")
	ErrMalformedResponse  = errors.New("malformed_response")
	ErrRecordNotFound     = errors.New("record_not_found")
	ErrUserError          = errors.New("catalog_user_error")
)

// Variant is a product variant resolved from an inventory item, with the
// parent product metadata the marketing event needs.
type Variant struct {
	VariantID     string
	ProductID     string
	ProductTitle  string
	ProductHandle string

	// ImageURL prefers the variant's own image, falls back to the
	// product's featured image, and stays empty when neither exists.
	ImageURL string
}

// RecordField is one key/value pair of a type-scoped record.
type RecordField struct {
	Key   string
	Value string
}

// Record is a persisted type-scoped record: an id plus an ordered field list.
type Record struct {
	ID     string
	Fields []RecordField
}

// RecordPage is one page of records plus the cursor to fetch the next.
type RecordPage struct {
	Records     []Record
	EndCursor   string
	HasNextPage bool
}

// NewRecord describes a record to create.
type NewRecord struct {
	Type   string
	Fields []RecordField
}

// Client talks to the catalog platform on behalf of one shop.
type Client interface {
	// VariantByInventoryItem resolves an inventory item to its owning
	// variant. A (nil, nil) return means the item does not exist.
	VariantByInventoryItem(ctx context.Context, inventoryItemID string) (*Variant, error)

	// ShopMetafields reads shop-scoped metadata values under one
	// namespace. Missing keys are absent from the returned map.
	ShopMetafields(ctx context.Context, namespace string, keys []string) (map[string]string, error)

	// ListRecords fetches one page of records of the given type.
	ListRecords(ctx context.Context, recordType string, pageSize int, cursor string) (*RecordPage, error)

	// CreateRecord persists a new record and returns its id.
	CreateRecord(ctx context.Context, record NewRecord) (string, error)

	// UpdateRecordField sets one field if its current value still equals
	// expect. Returns false without error when the value moved on.
	UpdateRecordField(ctx context.Context, recordID, key, expect, value string) (bool, error)
}

// ClientFactory builds a Client bound to one shop's credentials.
type ClientFactory interface {
	ForShop(shop *tenantdomain.Shop) Client
}
