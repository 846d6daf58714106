package restock

import (
	"github.com/smallbiznis/backinstock/internal/cache"
	"github.com/smallbiznis/backinstock/internal/restock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("restock",
	fx.Provide(cache.NewMarketingConfigCache),
	fx.Provide(service.NewService),
)
