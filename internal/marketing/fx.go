package marketing

import (
	"net/http"

	"github.com/smallbiznis/backinstock/internal/config"
	"github.com/smallbiznis/backinstock/internal/marketing/clevertap"
	marketingdomain "github.com/smallbiznis/backinstock/internal/marketing/domain"
	"github.com/smallbiznis/backinstock/internal/observability/tracing"
	"go.uber.org/fx"
)

var Module = fx.Module("marketing",
	fx.Provide(func(cfg config.Config) marketingdomain.Dispatcher {
		httpClient := tracing.WrapHTTPClient(&http.Client{Timeout: cfg.MarketingTimeout})
		return clevertap.NewDispatcher(httpClient)
	}),
)
