// README: Request handlers for tariff, geo and queue endpoints.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taxibordeaux/internal/geocache"
	"taxibordeaux/internal/tariff"
	"taxibordeaux/internal/types"
)

type estimateRequest struct {
	DistanceKm    float64                `json:"distance_km"`
	DurationMin   float64                `json:"duration_min"`
	Passengers    int                    `json:"passengers"`
	Luggage       int                    `json:"luggage"`
	DepartureTime string                 `json:"departure_time"`
	From          *types.Point           `json:"from,omitempty"`
	To            *types.Point           `json:"to,omitempty"`
	WaitTimeMin   float64                `json:"wait_time_min"`
	Special       tariff.SpecialRequests `json:"special"`
}

func (s *Server) handleEstimate(c *gin.Context) {
	var body estimateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	departure := time.Now()
	if body.DepartureTime != "" {
		t, err := time.Parse(time.RFC3339, body.DepartureTime)
		if err != nil {
			writeError(c, http.StatusBadRequest, "departure_time must be RFC 3339")
			return
		}
		departure = t
	}
	passengers := body.Passengers
	if passengers == 0 {
		passengers = 1
	}

	res, err := s.tariff.Calculate(c.Request.Context(), tariff.Request{
		DistanceKm:    body.DistanceKm,
		DurationMin:   body.DurationMin,
		Passengers:    passengers,
		Luggage:       body.Luggage,
		DepartureTime: departure,
		FromCoords:    body.From,
		ToCoords:      body.To,
		WaitTimeMin:   body.WaitTimeMin,
		Special:       body.Special,
	})
	if err != nil {
		writeTariffError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleGeocode(c *gin.Context) {
	res, err := s.geo.Geocode(c.Request.Context(), c.Query("address"))
	if err != nil {
		writeGeoError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleReverseGeocode(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "lat and lng must be decimal degrees")
		return
	}
	res, err := s.geo.ReverseGeocode(c.Request.Context(), types.Point{Lat: lat, Lng: lng})
	if err != nil {
		writeGeoError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleSuggest(c *gin.Context) {
	var bias *types.Point
	if latStr, lngStr := c.Query("lat"), c.Query("lng"); latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			writeError(c, http.StatusBadRequest, "lat and lng must be decimal degrees")
			return
		}
		bias = &types.Point{Lat: lat, Lng: lng}
	}
	res, err := s.geo.Suggest(c.Request.Context(), c.Query("input"), bias)
	if err != nil {
		writeGeoError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type routeRequest struct {
	From         types.Point `json:"from"`
	To           types.Point `json:"to"`
	Alternatives bool        `json:"alternatives"`
}

// degradedEstimate is the answer when the route provider is down: a fare
// priced on a flat default trip so the booking can still proceed.
type degradedEstimate struct {
	Degraded bool           `json:"degraded"`
	Reason   string         `json:"reason"`
	Estimate *tariff.Result `json:"estimate"`
}

func (s *Server) handleRoute(c *gin.Context) {
	var body routeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.geo.ResolveRoute(c.Request.Context(), body.From, body.To, geocache.RouteOptions{
		Alternatives: body.Alternatives,
		DepartureNow: true,
	})
	if err == nil {
		c.JSON(http.StatusOK, res)
		return
	}
	if !errors.Is(err, geocache.ErrProviderUnavailable) {
		writeGeoError(c, err)
		return
	}

	s.logger.Warn("route provider down, serving degraded estimate", "err", err)
	est, estErr := s.tariff.Calculate(c.Request.Context(), tariff.Request{
		DistanceKm:    s.geoCfg.FallbackTripKm,
		DurationMin:   s.geoCfg.FallbackTripMin,
		Passengers:    1,
		DepartureTime: time.Now(),
		FromCoords:    &body.From,
		ToCoords:      &body.To,
	})
	if estErr != nil {
		writeGeoError(c, err)
		return
	}
	c.JSON(http.StatusOK, degradedEstimate{
		Degraded: true,
		Reason:   "route provider unavailable, estimate based on an average trip",
		Estimate: est,
	})
}

type matrixRequest struct {
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
}

func (s *Server) handleMatrix(c *gin.Context) {
	var body matrixRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := s.geo.DistanceMatrix(c.Request.Context(), body.Origins, body.Destinations)
	if err != nil {
		writeGeoError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleQueueStats(c *gin.Context) {
	used, limit := s.geo.QuotaUsage()
	c.JSON(http.StatusOK, gin.H{
		"mail":  s.mail.Stats(),
		"quota": gin.H{"used": used, "limit": limit},
	})
}

var invalidateCategories = map[string]geocache.Category{
	"route":   geocache.CategoryRoute,
	"geocode": geocache.CategoryGeocode,
	"suggest": geocache.CategorySuggest,
	"nearby":  geocache.CategoryNearby,
}

// Fare entries live under the tariff engine's own key prefix, so the "fare"
// category invalidates through the engine rather than the geo cache.
func (s *Server) handleInvalidate(c *gin.Context) {
	category := c.Query("category")
	if category == "fare" {
		if err := s.tariff.InvalidateFares(c.Request.Context()); err != nil {
			writeError(c, http.StatusInternalServerError, "cache invalidation failed")
			return
		}
		c.Status(http.StatusNoContent)
		return
	}
	cat, ok := invalidateCategories[category]
	if !ok {
		writeError(c, http.StatusBadRequest, "unknown cache category")
		return
	}
	if err := s.geo.Invalidate(c.Request.Context(), cat); err != nil {
		writeError(c, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	c.Status(http.StatusNoContent)
}
