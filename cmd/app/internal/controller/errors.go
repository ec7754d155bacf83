package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell-report-backend/internal/repository"
	"inkwell-report-backend/internal/service"
	"inkwell-report-backend/pkg/response"
	"inkwell-report-backend/utilities"
)

var errInternal = errors.New("internal server error")

// writeServiceError maps service errors onto the error envelope.
func writeServiceError(c *gin.Context, log *utilities.Logger, err error) {
	var (
		verr *service.ValidationError
		ext  *service.ExternalServiceError
	)
	switch {
	case errors.As(err, &verr):
		response.RespondError(c, http.StatusBadRequest, response.CodeValidationFailed, err)
	case errors.As(err, &ext):
		log.Error("external service failure", "path", c.FullPath(), "error", err)
		response.RespondError(c, http.StatusBadGateway, response.CodeExternalServiceFailure, err)
	case errors.Is(err, service.ErrReportNotFound), errors.Is(err, repository.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, response.CodeNotFound, err)
	case errors.Is(err, service.ErrEmailInUse):
		response.RespondError(c, http.StatusConflict, response.CodeConflict, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.RespondError(c, http.StatusUnauthorized, response.CodeUnauthorized, err)
	default:
		log.Error("request failed", "path", c.FullPath(), "error", err)
		response.RespondError(c, http.StatusInternalServerError, response.CodeInternal, errInternal)
	}
}

func badRequest(c *gin.Context, err error) {
	response.RespondError(c, http.StatusBadRequest, response.CodeValidationFailed, err)
}
