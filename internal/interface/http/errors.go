package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/pkg/response"
	"github.com/oksasatya/go-ddd-diary/pkg/validation"
)

// statusOf maps an error kind to its HTTP status. Forbidden is reported as
// 404 so a caller cannot tell someone else's resource from a missing one.
func statusOf(k apperror.Kind) int {
	switch k {
	case apperror.KindUnauthenticated, apperror.KindInvalidCredentials:
		return http.StatusUnauthorized
	case apperror.KindForbidden, apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

// writeError renders err as the API error envelope.
func writeError(c *gin.Context, err error) {
	writeErrorStatus(c, err, 0)
}

// writeErrorStatus is writeError with an optional status override.
func writeErrorStatus(c *gin.Context, err error, status int) {
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		ae = apperror.Unavailable(err)
	}
	if status == 0 {
		status = statusOf(ae.Kind)
	}
	body := response.ErrorBody{Code: ae.Kind.String(), Details: ae.Details}
	msg := ae.Message
	switch ae.Kind {
	case apperror.KindForbidden, apperror.KindNotFound:
		body.Code, msg = apperror.KindNotFound.String(), "not found"
	case apperror.KindUnavailable:
		msg = "service unavailable"
	}
	response.Error(c, status, msg, body)
}

func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", response.ErrorBody{
		Code:    apperror.KindInvalidInput.String(),
		Details: validation.ToDetails(err),
	})
}
