package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"Tasks/internal/dto"
	"Tasks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps service errors to statuses. Unknown errors are logged and
// reported without details.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		abort(c, http.StatusUnauthorized, "authorization required")
	case errors.Is(err, service.ErrQuotaExceeded):
		abort(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrForbidden):
		abort(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		abort(c, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrValidation):
		abort(c, http.StatusBadRequest, err.Error())
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "internal server error")
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: msg})
}

// parsePage reads the page query parameter. Missing means 1; values below 1
// are clamped by the services.
func parsePage(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("page"))
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		abort(c, http.StatusBadRequest, "invalid page")
		return 0, false
	}
	return page, true
}
