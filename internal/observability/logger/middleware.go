package logger

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/backinstock/internal/observability/context"
	"go.uber.org/zap"
)

// MiddlewareConfig tunes the request logging middleware.
type MiddlewareConfig struct {
	// SkipPaths lists exact request paths that should not be logged.
	SkipPaths []string
}

// GinMiddleware assigns a request id, stores request metadata on the
// context, and writes one access log line per request.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", requestID)
		c.Set("request_id", requestID)

		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		if shop := strings.TrimSpace(c.GetHeader("X-Shopify-Shop-Domain")); shop != "" {
			ctx = obscontext.WithShopDomain(ctx, shop)
		}
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		if _, ok := skip[c.Request.URL.Path]; ok {
			return
		}

		FromContext(ctx).Info("http request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.Any("headers", MaskHeaders(c.Request.Header)),
		)
	}
}
