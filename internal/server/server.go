// Package server hosts the vertex tool behind an HTTP API. A browser canvas
// posts pointer events in screen pixels and renders the returned previews.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vertexdrag/internal/geometry"
	"vertexdrag/internal/layer"
	"vertexdrag/internal/metrics"
	"vertexdrag/internal/tool"
)

// PreviewStyle is how clients should draw the overlay
type PreviewStyle struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Config configures a Server
type Config struct {
	Tool           tool.Config
	Style          PreviewStyle
	AllowedOrigins []string
	// AutosavePath, when set, receives the layer as GeoJSON after each commit
	AutosavePath string
}

// Server owns one VertexTool and the host state it edits against
type Server struct {
	// mu serializes pointer events so the tool sees them in arrival order
	mu             sync.Mutex
	layer          *layer.MemoryLayer
	viewport       tool.Viewport
	preview        geometry.Geometry
	previewVisible bool
	tool           *tool.VertexTool

	cfg      Config
	gatherer prometheus.Gatherer
	validate *validator.Validate
	logger   *zap.Logger
}

// New creates a server for l, which may be nil when no layer is loaded.
// Metrics are registered with reg and served from it.
func New(l *layer.MemoryLayer, cfg Config, reg *prometheus.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		layer:    l,
		viewport: tool.Viewport{UnitsPerPixel: 1},
		cfg:      cfg,
		gatherer: reg,
		validate: validator.New(),
		logger:   logger,
	}
	s.tool = tool.New(layerHost{s}, canvas{s}, overlay{s}, cfg.Tool, tool.Options{
		Metrics: metrics.New(reg),
		Logger:  logger.Named("tool"),
	})
	return s
}

// Routes builds the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/tool", func(r chi.Router) {
		r.Post("/activate", s.handleActivate)
		r.Post("/deactivate", s.handleDeactivate)
	})
	r.Put("/viewport", s.handleViewport)
	r.Route("/pointer", func(r chi.Router) {
		r.Post("/press", s.handlePress)
		r.Post("/move", s.handleMove)
		r.Post("/release", s.handleRelease)
	})
	r.Get("/preview", s.handlePreview)
	r.Get("/features", s.handleFeatures)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return r
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. Any open drag is cancelled on the way out.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("address", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	<-errCh

	s.mu.Lock()
	s.tool.Deactivate()
	s.mu.Unlock()

	return err
}

// ListenAndServe listens on addr and calls Serve
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// autosave persists the layer after a successful commit
func (s *Server) autosave() bool {
	if s.cfg.AutosavePath == "" || s.layer == nil {
		return false
	}
	if err := s.layer.SaveGeoJSON(s.cfg.AutosavePath); err != nil {
		s.logger.Error("autosave failed", zap.String("path", s.cfg.AutosavePath), zap.Error(err))
		return false
	}
	s.logger.Debug("layer saved", zap.String("path", s.cfg.AutosavePath))
	return true
}
