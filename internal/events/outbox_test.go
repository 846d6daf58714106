package events

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE restock_events (
			id BIGINT PRIMARY KEY,
			shop_domain TEXT NOT NULL,
			event_type TEXT NOT NULL,
			payload TEXT,
			dedupe_key TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := db.Exec(
		`CREATE UNIQUE INDEX idx_restock_events_dedupe ON restock_events (shop_domain, dedupe_key)`,
	).Error; err != nil {
		t.Fatalf("create index: %v", err)
	}
	return db
}

func newTestOutbox(t *testing.T, db *gorm.DB) *Outbox {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	return NewOutbox(db, node)
}

func TestPublishStoresEvent(t *testing.T) {
	db := setupOutboxTestDB(t)
	outbox := newTestOutbox(t, db)

	err := outbox.Publish(context.Background(), Event{
		ShopDomain: "demo.myshopify.com",
		Type:       EventNotified,
		Payload:    NotifiedPayload{RequestID: "1", Email: "a@x.com", VariantID: "42", ProductID: "99"}.ToMap(),
		DedupeKey:  "notified:1",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	var count int64
	if err := db.Table("restock_events").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 event, got %d", count)
	}
}

func TestPublishDeduplicates(t *testing.T) {
	db := setupOutboxTestDB(t)
	outbox := newTestOutbox(t, db)

	event := Event{
		ShopDomain: "demo.myshopify.com",
		Type:       EventNotified,
		DedupeKey:  "notified:1",
	}
	if err := outbox.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := outbox.Publish(context.Background(), event); err != nil {
		t.Fatalf("republish: %v", err)
	}

	var count int64
	if err := db.Table("restock_events").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected deduplicated event, got %d rows", count)
	}
}

func TestPublishRejectsMissingType(t *testing.T) {
	db := setupOutboxTestDB(t)
	outbox := newTestOutbox(t, db)

	err := outbox.Publish(context.Background(), Event{ShopDomain: "demo.myshopify.com"})
	if err == nil {
		t.Fatal("expected error for missing event type")
	}
}
