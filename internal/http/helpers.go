// README: JSON helpers and error-to-status mapping.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxibordeaux/internal/geocache"
	"taxibordeaux/internal/tariff"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func writeGeoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, geocache.ErrInvalidArgument):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, geocache.ErrNotFound):
		writeError(c, http.StatusNotFound, "address not found")
	case errors.Is(err, geocache.ErrQuotaExceeded):
		writeError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, geocache.ErrProviderUnavailable):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeTariffError(c *gin.Context, err error) {
	if errors.Is(err, tariff.ErrInvalidArgument) {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	writeError(c, http.StatusInternalServerError, "internal error")
}
