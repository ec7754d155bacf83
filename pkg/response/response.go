package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeValidationFailed       = "validation_failed"
	CodeExternalServiceFailure = "external_service_failure"
	CodeNotFound               = "not_found"
	CodeUnauthorized           = "unauthorized"
	CodeConflict               = "conflict"
	CodeInternal               = "internal_error"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes the error envelope and aborts the chain.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
