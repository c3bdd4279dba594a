package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/ehr-api/internal/model"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
)

// ContextClaims is the gin context key holding the authenticated caller's
// token claims, set by the auth middleware.
const ContextClaims = "claims"

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// ClaimsFromContext returns the authenticated caller's claims. Handlers
// behind the auth middleware can rely on the second return being true.
func ClaimsFromContext(c *gin.Context) (*model.TokenClaims, bool) {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*model.TokenClaims)
	return claims, ok
}

// Error writes the HTTP response for a service error, mapping error
// codes to statuses, and records it for the logging middleware.
func Error(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(statusOf(err), NewErrorResponse(err.Error()))
}

func statusOf(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrValidation, apperrors.ErrUnsupported:
		return http.StatusBadRequest
	case apperrors.ErrAuthorization:
		return http.StatusForbidden
	case apperrors.ErrUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
