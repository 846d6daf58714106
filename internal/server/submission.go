package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	restockdomain "github.com/smallbiznis/backinstock/internal/restock/domain"
)

type createSubmissionRequest struct {
	Shop      string `json:"shop"`
	Email     string `json:"email"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
}

// CreateNotificationRequest godoc
// @Summary Register back-in-stock interest for a variant
// @Router /apps/backinstock/requests [post]
func (s *Server) CreateNotificationRequest(c *gin.Context) {
	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	shopDomain := strings.TrimSpace(req.Shop)
	if shopDomain == "" {
		shopDomain = strings.TrimSpace(c.Query("shop"))
	}
	if shopDomain == "" {
		AbortWithError(c, newValidationError("shop", "required", "shop domain is required"))
		return
	}
	if email := strings.TrimSpace(req.Email); email == "" || !strings.Contains(email, "@") {
		AbortWithError(c, newValidationError("email", "invalid_email", "a valid email is required"))
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		AbortWithError(c, newValidationError("product_id", "required", "product_id is required"))
		return
	}
	if strings.TrimSpace(req.VariantID) == "" {
		AbortWithError(c, newValidationError("variant_id", "required", "variant_id is required"))
		return
	}

	if !s.submissionLimiter.Allow(strings.ToLower(shopDomain)) {
		AbortWithError(c, ErrRateLimited)
		return
	}

	ctx := c.Request.Context()
	shop, err := s.tenants.FindByDomain(ctx, s.db, shopDomain)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	requestID, err := s.restock.SubmitRequest(ctx, shop, restockdomain.Submission{
		Email:     req.Email,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"request_id": requestID,
		"status":     restockdomain.StatusPending,
	}})
}
