// README: HTTP gateway; registers routes and delegates to the service layer.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taxibordeaux/internal/config"
	"taxibordeaux/internal/geocache"
	"taxibordeaux/internal/http/middleware"
	"taxibordeaux/internal/maildispatch"
	"taxibordeaux/internal/tariff"
)

type ServerDeps struct {
	Tariff *tariff.Service
	Geo    *geocache.Service
	Mail   *maildispatch.Service
	GeoCfg config.GeoConfig
	Logger *slog.Logger
}

type Server struct {
	tariff *tariff.Service
	geo    *geocache.Service
	mail   *maildispatch.Service
	geoCfg config.GeoConfig
	logger *slog.Logger
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		tariff: deps.Tariff,
		geo:    deps.Geo,
		mail:   deps.Mail,
		geoCfg: deps.GeoCfg,
		logger: logger,
	}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(s.logger), middleware.Logging(s.logger))

	api := r.Group("/api")
	api.POST("/tariff/estimate", s.handleEstimate)

	geo := api.Group("/geo")
	geo.GET("/geocode", s.handleGeocode)
	geo.GET("/reverse", s.handleReverseGeocode)
	geo.GET("/suggest", s.handleSuggest)
	geo.POST("/route", s.handleRoute)
	geo.POST("/matrix", s.handleMatrix)

	api.GET("/queue/stats", s.handleQueueStats)
	api.POST("/admin/cache/invalidate", s.handleInvalidate)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
