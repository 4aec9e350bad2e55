package api

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tfkr-ae/ramjet"
	"github.com/tfkr-ae/ramjet/listener"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Server is the control API of a controller.
type Server struct {
	controller   *ramjet.Controller
	router       *gin.Engine
	metrics      *Metrics
	logger       *zap.Logger
	bundleDir    string
	allowOrigins []string
	limiter      *rate.Limiter
}

// NewServer builds the router for controller, then applies options.
func NewServer(controller *ramjet.Controller, options ...func(*Server) error) (*Server, error) {
	if controller == nil {
		return nil, fmt.Errorf("controller cannot be nil")
	}

	server := &Server{
		controller:   controller,
		logger:       zap.NewNop(),
		allowOrigins: []string{"*"},
		limiter:      rate.NewLimiter(rate.Inf, 0),
	}
	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("applying option on server : %w", err)
		}
	}
	if server.metrics == nil {
		server.metrics = NewMetrics()
	}

	router, err := server.routes()
	if err != nil {
		return nil, err
	}
	server.router = router
	return server, nil
}

// WithLogger sets the server logger. A nil logger disables logging.
func WithLogger(logger *zap.Logger) func(*Server) error {
	return func(s *Server) error {
		if logger == nil {
			logger = zap.NewNop()
		}
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the collectors the server records to.
func WithMetrics(metrics *Metrics) func(*Server) error {
	return func(s *Server) error {
		if metrics == nil {
			return fmt.Errorf("metrics cannot be nil")
		}
		s.metrics = metrics
		return nil
	}
}

// WithBundleDir serves the configured files from dir, each under its configured path.
// Routes are built from the files in force when NewServer runs; later configuration
// changes do not add or remove them. A path already served by the API or by another
// bundle makes NewServer fail.
func WithBundleDir(dir string) func(*Server) error {
	return func(s *Server) error {
		s.bundleDir = dir
		return nil
	}
}

// WithAllowOrigins sets the origins allowed by CORS.
func WithAllowOrigins(origins ...string) func(*Server) error {
	return func(s *Server) error {
		if len(origins) == 0 {
			return fmt.Errorf("at least one origin is required")
		}
		s.allowOrigins = origins
		return nil
	}
}

// WithRateLimit caps the API at rps requests per second with the given burst.
// A non-positive rps removes the cap.
func WithRateLimit(rps float64, burst int) func(*Server) error {
	return func(s *Server) error {
		if rps <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 0)
			return nil
		}
		if burst < 1 {
			return fmt.Errorf("burst must be at least 1")
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

func (s *Server) routes() (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.metrics.Middleware())
	router.Use(requestLogger(s.logger))
	router.Use(rateLimit(s.limiter))
	router.Use(cors.New(cors.Config{
		AllowOrigins: s.allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Accept", "Origin"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/healthz", s.health)
	router.GET("/config", s.getConfig)
	router.PATCH("/config", s.patchConfig)
	router.GET("/encode", s.encode)
	router.GET("/decode", s.decode)
	router.POST("/frames", s.createFrame)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	if s.bundleDir == "" {
		return router, nil
	}

	taken := make(map[string]string)
	for _, route := range router.Routes() {
		taken[route.Path] = "control api"
	}

	files := s.controller.Config().Files
	roles := slices.Sorted(maps.Keys(files))
	for _, role := range roles {
		path := files[role]
		if !strings.HasPrefix(path, "/") || strings.ContainsAny(path, ":*") {
			return nil, fmt.Errorf("bundle %s path %q must be an absolute path without wildcards", role, path)
		}
		if owner, ok := taken[path]; ok {
			return nil, fmt.Errorf("bundle %s path %s is already served by %s", role, path, owner)
		}
		taken[path] = "bundle " + role

		file := filepath.Join(s.bundleDir, filepath.Base(path))
		router.StaticFile(path, file)
		s.logger.Debug("serving bundle", zap.String("role", role), zap.String("path", path), zap.String("file", file))
	}
	return router, nil
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on l until ctx is done, then shuts down gracefully.
// Accept errors other than a closed listener are recovered from.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	resilient := listener.NewResilientListener(l, s.logger)
	resilient.OnReject = func(err error) {
		s.metrics.ListenerRejects.Inc()
	}

	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- httpServer.Serve(resilient)
	}()
	s.logger.Info("control api listening", zap.String("addr", l.Addr().String()))

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving control api : %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down control api : %w", err)
		}
		return nil
	}
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s : %w", addr, err)
	}
	return s.Serve(ctx, l)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
