// Package httpapi provides shared helpers for gin-based JSON APIs.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
)

// ErrorBody is the JSON error envelope returned by all services.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error writes a domain error as a JSON envelope with its mapped HTTP status.
// Non-domain errors become a generic 500 so internal details never leak.
func Error(c *gin.Context, err error) {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		c.JSON(apperrors.HTTPStatus(domainErr.Code), gin.H{"error": ErrorBody{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
		}})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorBody{
		Code:    string(apperrors.CodeUnknown),
		Message: "internal error",
	}})
}

// BadRequest writes a plain 400 envelope for malformed request bodies.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBody{
		Code:    "BAD_REQUEST",
		Message: message,
	}})
}
