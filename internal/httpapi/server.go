package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tonhe/iotmon/internal/engine"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StateSource is the read-only slice of *engine.Manager the server needs.
type StateSource interface {
	GetState(name string) (*engine.State, error)
	ListSessions() []engine.SessionInfo
}

// Server exposes the latest session states over HTTP. It never mutates a
// session.
type Server struct {
	states StateSource
	log    logrus.FieldLogger
	router *gin.Engine
}

// New constructs a server with routes and middleware. A nil gatherer hides
// /metrics.
func New(states StateSource, gatherer prometheus.Gatherer, log logrus.FieldLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	s := &Server{states: states, log: log, router: router}
	s.registerRoutes(gatherer)
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.log.WithField("addr", addr).Info("http view listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := s.router.Group("/api")
	{
		api.GET("/dashboards", s.handleListDashboards)
		api.GET("/views/:name", s.handleView)
	}
}

func (s *Server) handleListDashboards(c *gin.Context) {
	sessions := s.states.ListSessions()
	s.writeJSON(c, http.StatusOK, gin.H{
		"data": sessions,
		"meta": gin.H{"count": len(sessions)},
	})
}

// handleView returns the latest published state of one dashboard.
// GET /api/views/:name
func (s *Server) handleView(c *gin.Context) {
	state, err := s.states.GetState(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.writeJSON(c, http.StatusOK, gin.H{
		"data": state,
		"meta": gin.H{
			"status": state.Status(),
			"stats":  engine.SortedStats(state.EndpointStats),
		},
	})
}

func (s *Server) writeJSON(c *gin.Context, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("http request")
	}
}
