// Package server exposes a ledger over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradebook/config"
	"github.com/rustyeddy/tradebook/journal"
)

// Server owns one ledger session. The ledger is not safe for concurrent use,
// so every handler that touches it holds mu for the whole request.
type Server struct {
	mu      sync.Mutex
	ledger  *journal.Ledger
	cfg     *config.Config
	log     *zap.Logger
	session string
	now     func() time.Time
}

// New wraps ledger. A nil logger discards output.
func New(cfg *config.Config, ledger *journal.Ledger, log *zap.Logger, session string) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		ledger:  ledger,
		cfg:     cfg,
		log:     log,
		session: session,
		now:     time.Now,
	}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	switch strings.ToLower(s.cfg.Server.Mode) {
	case gin.DebugMode:
		gin.SetMode(gin.DebugMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())
	s.Register(engine)
	return engine
}

// Register mounts the health check and the trade API on r.
func (s *Server) Register(r *gin.Engine) {
	r.GET("/healthz", s.health)

	g := r.Group("/api")
	g.GET("/trades", s.listTrades)
	g.POST("/trades", s.addTrade)
	g.PUT("/trades", s.editTrades)
	g.DELETE("/trades", s.clearTrades)
	g.POST("/flip", s.flip)
	g.GET("/summary", s.summary)
	g.GET("/export.csv", s.exportCSV)
	g.GET("/export.org", s.exportOrg)
	g.GET("/chart.png", s.chartPNG)
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("session", s.session))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
