package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/canectl/internal/auth"
	"github.com/danmuck/canectl/internal/cane"
	"github.com/danmuck/canectl/internal/input"
	"github.com/danmuck/canectl/internal/observability"
	"github.com/danmuck/canectl/internal/sim"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const Version = "0.1.0"

var ErrEmptyAddr = errors.New("admin: empty listen address")

// Runtime is what the admin surface needs from the simulator.
type Runtime interface {
	Press(b sim.Button) error
	Status() cane.Status
	Ready() bool
}

// Config configures the admin listener. An empty Token leaves button routes open.
type Config struct {
	Name        string
	Addr        string
	CorsOrigins []string
	Token       string
}

type Server struct {
	name     string
	addr     string
	rt       Runtime
	guard    auth.Validator
	router   *gin.Engine
	appeared time.Time
	log      zerolog.Logger
}

func New(cfg Config, rt Runtime) *Server {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	logger := observability.Component("admin")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		name:     cfg.Name,
		addr:     cfg.Addr,
		rt:       rt,
		guard:    auth.ForToken(cfg.Token),
		router:   r,
		appeared: time.Now(),
		log:      logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": s.name,
			"version": Version,
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		ready := s.rt.Ready()
		code := http.StatusOK
		if !ready {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"ready":   ready,
			"uptime":  time.Since(s.appeared).String(),
			"service": s.name,
			"version": Version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.rt.Status())
	})

	s.router.POST("/buttons/:id", s.requireToken(), func(c *gin.Context) {
		raw := c.Param("id")
		b, err := input.ParseButton(raw)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err := s.rt.Press(b); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, cane.ErrInputBacklog) {
				status = http.StatusTooManyRequests
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		s.log.Info().Uint8("button", uint8(b)).Str("client_ip", c.ClientIP()).Msg("button queued")
		c.JSON(http.StatusAccepted, gin.H{"status": "queued", "button": uint8(b)})
	})
}

func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.guard == nil {
			c.Next()
			return
		}
		token, err := auth.Bearer(c.GetHeader("Authorization"))
		if err == nil {
			err = s.guard.Validate(token)
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s.addr == "" {
		return ErrEmptyAddr
	}
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("admin listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.log.Info().Msg("admin stopped")
		return nil
	}
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
