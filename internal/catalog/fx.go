package catalog

import (
	"net/http"

	catalogdomain "github.com/smallbiznis/backinstock/internal/catalog/domain"
	"github.com/smallbiznis/backinstock/internal/catalog/graphql"
	"github.com/smallbiznis/backinstock/internal/config"
	"github.com/smallbiznis/backinstock/internal/observability/tracing"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog",
	fx.Provide(func(cfg config.Config) catalogdomain.ClientFactory {
		httpClient := tracing.WrapHTTPClient(&http.Client{Timeout: cfg.CatalogTimeout})
		return graphql.NewFactory(httpClient, cfg.CatalogAPIVersion)
	}),
)
