package domain

import (
	"context"

	tenantdomain "github.com/smallbiznis/backinstock/internal/tenant/domain"
)

// Disposition names the terminal state of one webhook invocation. Every
// disposition is acknowledged as success to the event source; only an
// error return is surfaced as a failure.
type Disposition string

const (
	DispositionStillOutOfStock Disposition = "still_out_of_stock"
	DispositionNoVariant       Disposition = "no_variant"
	DispositionNotConfigured   Disposition = "not_configured"
	DispositionNoMatches       Disposition = "no_matches"
	DispositionCompleted       Disposition = "completed"
)

// Result is the outcome of one inventory event.
type Result struct {
	Disposition Disposition
	Report      *BatchReport
}

// Submission is a customer's back-in-stock interest registration.
type Submission struct {
	Email     string
	ProductID string
	VariantID string
}

type Service interface {
	// HandleInventoryEvent runs the restock pipeline for one inventory
	// change. A partial batch failure returns the report alongside the
	// error so already-notified requests stay observable.
	HandleInventoryEvent(ctx context.Context, shop *tenantdomain.Shop, event InventoryEvent) (*Result, error)

	// SubmitRequest creates a pending notification request and returns
	// its record id.
	SubmitRequest(ctx context.Context, shop *tenantdomain.Shop, submission Submission) (string, error)
}
