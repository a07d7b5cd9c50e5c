package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trebuchet-org/dao-cli/internal/domain"
)

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	var ambiguous domain.AmbiguousDAOErr
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrInvalidChainID),
		errors.Is(err, domain.ErrNoNetwork):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState), errors.As(err, &ambiguous):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
