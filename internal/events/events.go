package events

// Restock pipeline event types recorded in the outbox.
const (
	EventRequestCreated   = "restock.request_created"
	EventNotified         = "restock.notified"
	EventDispatchFailed   = "restock.dispatch_failed"
	EventDispatchSkipped  = "restock.dispatch_skipped"
	EventWebhookProcessed = "restock.webhook_processed"
)

// NotifiedPayload captures one successful dispatch for audit.
type NotifiedPayload struct {
	RequestID string `json:"request_id"`
	Email     string `json:"email"`
	VariantID string `json:"variant_id"`
	ProductID string `json:"product_id"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p NotifiedPayload) ToMap() map[string]any {
	return map[string]any{
		"request_id": p.RequestID,
		"email":      p.Email,
		"variant_id": p.VariantID,
		"product_id": p.ProductID,
	}
}

// DispatchFailedPayload captures the request whose delivery failed.
type DispatchFailedPayload struct {
	RequestID string `json:"request_id"`
	VariantID string `json:"variant_id"`
	Reason    string `json:"reason"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p DispatchFailedPayload) ToMap() map[string]any {
	return map[string]any{
		"request_id": p.RequestID,
		"variant_id": p.VariantID,
		"reason":     p.Reason,
	}
}
