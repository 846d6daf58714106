package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event describes a pipeline event to store in the outbox.
type Event struct {
	ShopDomain string
	Type       string
	Payload    map[string]any
	DedupeKey  string
}

// Outbox inserts pipeline events into the restock_events table. Writes
// are deduplicated per shop on DedupeKey, which keeps redelivered
// webhooks from producing duplicate audit rows.
type Outbox struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewOutbox(db *gorm.DB, genID *snowflake.Node) *Outbox {
	return &Outbox{db: db, genID: genID}
}

// Publish stores an event using the default database connection.
func (o *Outbox) Publish(ctx context.Context, event Event) error {
	if o == nil || o.db == nil || o.genID == nil {
		return errors.New("outbox_unavailable")
	}
	shop := strings.TrimSpace(event.ShopDomain)
	if shop == "" {
		return errors.New("invalid_shop_domain")
	}
	name := strings.TrimSpace(event.Type)
	if name == "" {
		return errors.New("missing_event_type")
	}

	payload := datatypes.JSONMap{}
	for key, value := range event.Payload {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}

	dedupe := strings.TrimSpace(event.DedupeKey)
	var dedupeValue any
	if dedupe != "" {
		dedupeValue = dedupe
	}

	now := time.Now().UTC()
	return o.db.WithContext(ctx).Exec(
		`INSERT INTO restock_events (id, shop_domain, event_type, payload, dedupe_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (shop_domain, dedupe_key) DO NOTHING`,
		o.genID.Generate(),
		shop,
		name,
		payload,
		dedupeValue,
		now,
	).Error
}
