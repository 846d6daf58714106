// Package domain contains the restock notification models.
package domain

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	catalogdomain "github.com/smallbiznis/backinstock/internal/catalog/domain"
)

const (
	StatusPending  = "pending"
	StatusNotified = "notified"

	// RecordType tags notification requests in the catalog platform's
	// record storage.
	RecordType = "backinstock_request"

	// EventBackInStock is the marketing event name customers are
	// segmented on.
	EventBackInStock = "Back In Stock"
)

var (
	ErrMalformedRecord   = errors.New("malformed_record")
	ErrInvalidSubmission = errors.New("invalid_submission")
)

// InventoryEvent is the inbound inventory-level change signal. The
// platform delivers inventory_item_id as a number and available may be
// absent, so both decode leniently.
type InventoryEvent struct {
	InventoryItemID string
	Available       int64
}

func (e *InventoryEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		InventoryItemID json.Number `json:"inventory_item_id"`
		Available       *int64      `json:"available"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.InventoryItemID = strings.TrimSpace(raw.InventoryItemID.String())
	e.Available = 0
	if raw.Available != nil {
		e.Available = *raw.Available
	}
	return nil
}

// NotificationRequest is one customer's registered interest in a variant
// coming back in stock, decoded from its persisted record.
type NotificationRequest struct {
	ID        string
	Email     string
	ProductID string
	VariantID string
	Status    string
	CreatedAt string
}

// DecodeRequestRecord reconstructs a typed request from a record's
// key/value field list. Every required key must be present; malformed
// records fail fast instead of matching as undefined.
func DecodeRequestRecord(record catalogdomain.Record) (NotificationRequest, error) {
	fields := make(map[string]string, len(record.Fields))
	for _, field := range record.Fields {
		fields[field.Key] = field.Value
	}

	request := NotificationRequest{
		ID:        record.ID,
		Email:     strings.TrimSpace(fields["email"]),
		ProductID: strings.TrimSpace(fields["product_id"]),
		VariantID: strings.TrimSpace(fields["variant_id"]),
		Status:    strings.TrimSpace(fields["status"]),
		CreatedAt: strings.TrimSpace(fields["created_at"]),
	}
	if request.ID == "" || request.Email == "" || request.ProductID == "" || request.VariantID == "" || request.Status == "" {
		return NotificationRequest{}, ErrMalformedRecord
	}
	return request, nil
}

// MatchesVariant compares the stored variant id against a resolved one
// under string-normalized equality: "42", " 42 " and numeric 42 all match.
func (r NotificationRequest) MatchesVariant(variantID string) bool {
	return NormalizeID(r.VariantID) == NormalizeID(variantID)
}

// Pending reports whether the request still awaits notification.
func (r NotificationRequest) Pending() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), StatusPending)
}

// NormalizeID trims whitespace, strips any global-id prefix, and drops
// leading zeros from numeric ids.
func NormalizeID(id string) string {
	id = catalogdomain.LegacyID(strings.TrimSpace(id))
	if parsed, err := strconv.ParseInt(id, 10, 64); err == nil {
		return strconv.FormatInt(parsed, 10)
	}
	return id
}

// BatchReport aggregates per-item results of one webhook invocation.
type BatchReport struct {
	VariantID string
	Matched   int

	// Notified lists request ids that were dispatched and transitioned.
	Notified []string
	// Skipped lists request ids whose status swap was lost to a
	// concurrent invocation.
	Skipped []string
	// FailedID names the request whose dispatch failed, aborting the
	// remainder of the batch.
	FailedID string
}
