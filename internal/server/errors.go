package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/backinstock/internal/catalog/domain"
	restockdomain "github.com/smallbiznis/backinstock/internal/restock/domain"
	tenantdomain "github.com/smallbiznis/backinstock/internal/tenant/domain"
)

// APIError carries the HTTP status and machine-readable code returned to
// clients.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return e.Code }

var (
	ErrUnauthorized = &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "request could not be authenticated"}
	ErrNotFound     = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrRateLimited  = &APIError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests"}
)

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "request body could not be parsed"}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Field: field, Message: message}
}

// AbortWithError translates domain errors into JSON error responses.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case errors.Is(err, tenantdomain.ErrShopNotFound):
		status, code = http.StatusNotFound, "shop_not_found"
	case errors.Is(err, tenantdomain.ErrShopInactive):
		status, code = http.StatusForbidden, "shop_inactive"
	case errors.Is(err, tenantdomain.ErrInvalidShop):
		status, code = http.StatusBadRequest, "invalid_shop"
	case errors.Is(err, restockdomain.ErrInvalidSubmission):
		status, code = http.StatusBadRequest, "invalid_submission"
	case errors.Is(err, catalogdomain.ErrCatalogUnavailable):
		status, code = http.StatusBadGateway, "catalog_unavailable"
	case errors.Is(err, catalogdomain.ErrUserError):
		status, code = http.StatusUnprocessableEntity, "catalog_rejected"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": err.Error()}})
}
