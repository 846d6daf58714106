package context

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func RequestIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if ctx := c.Request.Context(); ctx != nil {
		if value := RequestIDFromContext(ctx); value != "" {
			return value
		}
	}
	if value := strings.TrimSpace(c.GetString("request_id")); value != "" {
		return value
	}
	return ""
}

func ShopDomainFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if ctx := c.Request.Context(); ctx != nil {
		if value := ShopDomainFromContext(ctx); value != "" {
			return value
		}
	}
	return strings.TrimSpace(c.GetHeader("X-Shopify-Shop-Domain"))
}
