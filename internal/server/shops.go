package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tenantdomain "github.com/smallbiznis/backinstock/internal/tenant/domain"
)

type registerShopRequest struct {
	ShopDomain       string `json:"shop_domain"`
	StorefrontDomain string `json:"storefront_domain"`
	AccessToken      string `json:"access_token"`
	WebhookSecret    string `json:"webhook_secret"`
}

type shopResponse struct {
	ID               string `json:"id"`
	ShopDomain       string `json:"shop_domain"`
	StorefrontDomain string `json:"storefront_domain"`
	Active           bool   `json:"active"`
}

// RegisterShop godoc
// @Summary Register or update a shop's credentials
// @Router /admin/shops [post]
func (s *Server) RegisterShop(c *gin.Context) {
	var req registerShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if strings.TrimSpace(req.AccessToken) == "" {
		AbortWithError(c, newValidationError("access_token", "required", "access_token is required"))
		return
	}
	if strings.TrimSpace(req.WebhookSecret) == "" {
		AbortWithError(c, newValidationError("webhook_secret", "required", "webhook_secret is required"))
		return
	}

	ctx := c.Request.Context()
	shop := &tenantdomain.Shop{
		ShopDomain:       req.ShopDomain,
		StorefrontDomain: req.StorefrontDomain,
		AccessToken:      req.AccessToken,
		WebhookSecret:    req.WebhookSecret,
		Active:           true,
	}
	if err := s.tenants.Save(ctx, s.db, shop); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toShopResponse(shop)})
}

// GetShop godoc
// @Summary Fetch a registered shop by domain
// @Router /admin/shops/{domain} [get]
func (s *Server) GetShop(c *gin.Context) {
	domain := strings.TrimSpace(c.Param("domain"))
	if domain == "" {
		AbortWithError(c, newValidationError("domain", "required", "shop domain is required"))
		return
	}

	shop, err := s.tenants.FindByDomain(c.Request.Context(), s.db, domain)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toShopResponse(shop)})
}

func toShopResponse(shop *tenantdomain.Shop) shopResponse {
	return shopResponse{
		ID:               shop.ID.String(),
		ShopDomain:       shop.ShopDomain,
		StorefrontDomain: shop.StorefrontDomain,
		Active:           shop.Active,
	}
}
