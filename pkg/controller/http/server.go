package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/m-mizutani/doclingo/pkg/domain/interfaces"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultMaxUploadSize is the request body limit applied when none is configured
const DefaultMaxUploadSize = 100 << 20

// config holds internal HTTP server configuration
type config struct {
	addr           string
	device         model.DeviceInfo
	allowedOrigins []string
	maxUploadSize  int64
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithDevice sets the compute device reported by /health
func WithDevice(device model.DeviceInfo) Option {
	return func(c *config) {
		c.device = device
	}
}

// WithAllowedOrigins sets the origins allowed by CORS
func WithAllowedOrigins(origins []string) Option {
	return func(c *config) {
		c.allowedOrigins = origins
	}
}

// WithMaxUploadSize limits the size of a request body in bytes
func WithMaxUploadSize(size int64) Option {
	return func(c *config) {
		c.maxUploadSize = size
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	convertUC interfaces.ConvertUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:           "localhost:8001",
		device:         model.CPUDevice(),
		allowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
		maxUploadSize:  DefaultMaxUploadSize,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	if convertUC == nil {
		return nil, goerr.New("convert use case is required")
	}
	if cfg.maxUploadSize <= 0 {
		return nil, goerr.New("max upload size must be positive", goerr.V("size", cfg.maxUploadSize))
	}

	apiDoc, err := newOpenAPIDocument(ctx)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	router.Get("/", handleRoot)
	router.Get("/health", healthHandler(cfg.device))
	router.Get("/openapi.json", openAPIHandler(apiDoc))

	convertHandler := NewConvertHandler(convertUC, cfg.maxUploadSize)
	router.Post("/convert", convertHandler.ConvertFile)
	router.Post("/convert-url", convertHandler.ConvertURL)
	router.Post("/convert-batch", convertHandler.ConvertBatch)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
