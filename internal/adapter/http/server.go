package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/couchcryptid/ufo-sightings/internal/observability"
	"github.com/gin-gonic/gin"
	geojson "github.com/paulmach/go.geojson"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GeometrySource provides the country boundaries the choropleth joins onto.
type GeometrySource interface {
	Countries(ctx context.Context) (*geojson.FeatureCollection, error)
}

// Server exposes the dashboard API alongside health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates the dashboard server: /healthz, /readyz, /metrics and the
// /api/v1 routes backed by querier and geometry.
func NewServer(
	addr string,
	querier domain.SightingQuerier,
	geometry GeometrySource,
	ready sharedobs.ReadinessChecker,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Server {
	router := newRouter(ready, logger, metrics)
	api := &handlers{querier: querier, geometry: geometry, logger: logger}
	api.register(router.Group("/api/v1"))
	return newServer(addr, router, logger)
}

// NewOpsServer creates a server with only the /healthz, /readyz and /metrics
// routes, for processes that have no API of their own.
func NewOpsServer(addr string, ready sharedobs.ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *Server {
	return newServer(addr, newRouter(ready, logger, metrics), logger)
}

func newServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

func newRouter(ready sharedobs.ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(requestID(), accessLog(logger), instrument(metrics), gin.Recovery())

	router.GET("/healthz", gin.WrapF(sharedobs.LivenessHandler()))
	router.GET("/readyz", gin.WrapF(sharedobs.ReadinessHandler(ready)))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
