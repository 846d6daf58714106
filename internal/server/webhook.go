package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	restockdomain "github.com/smallbiznis/backinstock/internal/restock/domain"
	"go.uber.org/zap"
)

const (
	headerShopDomain = "X-Shopify-Shop-Domain"
	headerHmac       = "X-Shopify-Hmac-Sha256"

	maxWebhookBody = 1 << 20
)

// InventoryLevelWebhook godoc
// @Summary Ingest an inventory-level update
// @Description Early pipeline exits acknowledge 200 so the platform does
// @Description not redeliver; only genuine processing failures return 500.
// @Router /webhooks/inventory-levels [post]
func (s *Server) InventoryLevelWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	shopDomain := strings.TrimSpace(c.GetHeader(headerShopDomain))
	if shopDomain == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	shop, err := s.tenants.FindByDomain(ctx, s.db, shopDomain)
	if err != nil {
		// An unknown or disabled shop cannot be authenticated.
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if !verifyWebhookSignature(shop.WebhookSecret, body, c.GetHeader(headerHmac)) {
		s.log.Warn("webhook signature mismatch", zap.String("shop", shopDomain))
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var event restockdomain.InventoryEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// Redelivering a malformed payload cannot succeed, so ack it.
		c.JSON(http.StatusOK, gin.H{"ack": "ok", "disposition": "invalid_payload"})
		return
	}

	result, err := s.restock.HandleInventoryEvent(ctx, shop, event)
	if err != nil {
		s.log.Error("inventory event processing failed",
			zap.String("shop", shopDomain),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "webhook_failed"})
		return
	}

	resp := gin.H{"ack": "ok", "disposition": result.Disposition}
	if result.Report != nil {
		resp["notified"] = len(result.Report.Notified)
		resp["skipped"] = len(result.Report.Skipped)
	}
	c.JSON(http.StatusOK, resp)
}

// verifyWebhookSignature checks the payload digest the platform signs
// with the shop's shared secret.
func verifyWebhookSignature(secret string, body []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(header)))
}
