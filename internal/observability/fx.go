package observability

import (
	"github.com/smallbiznis/backinstock/internal/observability/logger"
	"github.com/smallbiznis/backinstock/internal/observability/tracing"
	"go.uber.org/fx"
)

var Module = fx.Options(
	logger.Module,
	tracing.Module,
)
