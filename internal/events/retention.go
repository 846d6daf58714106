package events

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RetentionConfig controls the outbox retention sweep loop.
type RetentionConfig struct {
	MaxAge       time.Duration
	BatchSize    int
	PollInterval time.Duration
}

func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		MaxAge:       30 * 24 * time.Hour,
		BatchSize:    500,
		PollInterval: time.Hour,
	}
}

func (c RetentionConfig) withDefaults() RetentionConfig {
	defaults := DefaultRetentionConfig()
	if c.MaxAge <= 0 {
		c.MaxAge = defaults.MaxAge
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	return c
}

type RetentionParams struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Config RetentionConfig `optional:"true"`
}

// RetentionWorker prunes aged restock_events rows so the audit trail
// does not grow without bound.
type RetentionWorker struct {
	db  *gorm.DB
	log *zap.Logger
	cfg RetentionConfig
}

func NewRetentionWorker(p RetentionParams) *RetentionWorker {
	return &RetentionWorker{
		db:  p.DB,
		log: p.Log.Named("events.retention"),
		cfg: p.Config.withDefaults(),
	}
}

func (w *RetentionWorker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Warn("outbox retention sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce deletes one batch of expired rows and reports how many went.
func (w *RetentionWorker) RunOnce(ctx context.Context) (int64, error) {
	if w.db == nil {
		return 0, errors.New("retention_worker_unavailable")
	}

	cutoff := time.Now().UTC().Add(-w.cfg.MaxAge)
	result := w.db.WithContext(ctx).Exec(
		`DELETE FROM restock_events
		 WHERE id IN (
		   SELECT id FROM restock_events WHERE created_at < ? LIMIT ?
		 )`,
		cutoff,
		w.cfg.BatchSize,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		w.log.Info("pruned outbox events", zap.Int64("deleted", result.RowsAffected))
	}
	return result.RowsAffected, nil
}
