package logger

import (
	"context"
	"strings"

	"github.com/smallbiznis/backinstock/internal/config"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability.logger",
	fx.Provide(New),
	fx.Invoke(func(log *zap.Logger) {
		zap.ReplaceGlobals(log)
	}),
)

// New builds the process logger. Production gets JSON output, everything
// else gets the development console encoder.
func New(cfg config.Config) (*zap.Logger, error) {
	var log *zap.Logger
	var err error
	if cfg.IsProduction() {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return log.With(
		zap.String("service", strings.TrimSpace(cfg.ServiceName)),
		zap.String("version", strings.TrimSpace(cfg.ServiceVersion)),
	), nil
}

// FromContext returns the global logger enriched with the active span's
// trace_id and span_id when a sampled span is present.
func FromContext(ctx context.Context) *zap.Logger {
	log := zap.L()
	if ctx == nil {
		return log
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return log
	}
	return log.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
