package cache

import (
	marketingdomain "github.com/smallbiznis/backinstock/internal/marketing/domain"
)

// NewMarketingConfigCache caches per-shop marketing credentials keyed by
// shop domain.
func NewMarketingConfigCache() Cache[string, marketingdomain.Config] {
	return NewTTLCache[string, marketingdomain.Config]()
}
