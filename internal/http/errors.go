package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"account-api/internal/mail"
	"account-api/internal/service"
	"account-api/internal/token"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, token.ErrTokenExpired),
		errors.Is(err, token.ErrTokenMalformed),
		errors.Is(err, service.ErrWrongTokenType):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyActivated):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, mail.ErrDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		h.logger.WithError(err).Error("request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	case http.StatusBadGateway:
		h.logger.WithError(err).Warn("confirmation delivery failed")
		c.JSON(status, gin.H{"error": mail.ErrDelivery.Error()})
		return
	case http.StatusUnauthorized:
		h.logger.WithError(err).Debug("request unauthorized")
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(status, gin.H{"error": unauthorizedMessage(err)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// unauthorizedMessage drops decoder detail and keeps only the sentinel text.
func unauthorizedMessage(err error) string {
	for _, sentinel := range []error{
		token.ErrTokenExpired,
		token.ErrTokenMalformed,
		service.ErrWrongTokenType,
		service.ErrInvalidCredentials,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return http.StatusText(http.StatusUnauthorized)
}
