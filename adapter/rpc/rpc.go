// Package rpc serves the adapters over Connect with a JSON codec.
package rpc

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/otelconnect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var Logger zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	Logger = zerolog.New(out).With().Timestamp().Str("component", "rpc").Logger()
}

func SetLogger(l zerolog.Logger) {
	Logger = l.With().Str("component", "rpc").Logger()
}

// ServerConfig configures the adapter server. Nil limits disable the
// matching middleware.
type ServerConfig struct {
	Address               string
	AllowedOrigins        []string
	EnableMetrics         bool
	RatePerMinute         *int
	MaxConcurrentRequests *int
	OTelConfig            *OTelConfig
}

func DefaultServerConfig() *ServerConfig {
	maxConcurrent := 200
	return &ServerConfig{
		Address:               "localhost:8080",
		AllowedOrigins:        []string{"http://localhost:3000", "http://localhost:8080"},
		EnableMetrics:         true,
		MaxConcurrentRequests: &maxConcurrent,
		OTelConfig:            DefaultOTelConfig(),
	}
}

func (c *ServerConfig) metricsEnabled() bool {
	return c.EnableMetrics || (c.OTelConfig != nil && c.OTelConfig.UsePrometheus)
}

func (c *ServerConfig) tracingEnabled() bool {
	return c.OTelConfig != nil && c.OTelConfig.EnableTracing
}

type Server struct {
	config       *ServerConfig
	httpServer   *http.Server
	procedures   []string
	otelShutdown func(context.Context) error
}

// NewServer mounts the adapter procedures next to the health, readiness and
// metrics endpoints. Dex and staking adapters are mandatory; the tendermint
// adapter may be nil.
func NewServer(ctx context.Context, config *ServerConfig, adapter *AdapterServer) (*Server, error) {
	if config == nil {
		config = DefaultServerConfig()
	}
	if adapter == nil || adapter.dex == nil || adapter.staking == nil {
		return nil, fmt.Errorf("dex and staking adapters are required")
	}

	s := &Server{config: config}
	if config.OTelConfig.enabled() {
		shutdown, err := NewOTelSDK(ctx, config.OTelConfig)
		if err != nil {
			// serving continues without telemetry
			Logger.Error().Err(err).Msg("Failed to initialize OpenTelemetry")
		} else {
			s.otelShutdown = shutdown
		}
	}

	mux := s.newRouter()
	for path, handler := range adapter.handlers(s.handlerOptions()...) {
		mux.Handle(path, handler)
		s.procedures = append(s.procedures, path)
	}
	sort.Strings(s.procedures)

	s.httpServer = &http.Server{
		Addr:              config.Address,
		Handler:           h2c.NewHandler(newCORSHandler(config.AllowedOrigins, mux), &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) newRouter() *chi.Mux {
	mux := chi.NewMux()
	mux.Use(
		middleware.RequestID,
		zerologMiddleware,
		zerologRecoverer,
		middleware.RealIP,
		middleware.Compress(5),
		middleware.Timeout(60*time.Second),
		realIPMiddleware,
	)
	if n := s.config.RatePerMinute; n != nil && *n > 0 {
		mux.Use(httprate.LimitByIP(*n, time.Minute))
	}
	if n := s.config.MaxConcurrentRequests; n != nil && *n > 0 {
		mux.Use(middleware.Throttle(*n))
	}

	if s.config.metricsEnabled() {
		mux.Handle("/server/metrics", promhttp.Handler())
	}
	mux.HandleFunc("/server/health", statusHandler(`{"status":"healthy","service":"spectra-adapter"}`))
	mux.HandleFunc("/server/ready", statusHandler(`{"status":"ready"}`))
	return mux
}

func (s *Server) handlerOptions() []connect.HandlerOption {
	interceptors := []connect.Interceptor{
		loggingInterceptor(),
		metricsInterceptor(),
		errorInterceptor(),
		noCacheInterceptor(),
	}
	if s.config.tracingEnabled() {
		tracing, err := otelconnect.NewInterceptor()
		if err != nil {
			Logger.Warn().Err(err).Msg("Tracing interceptor unavailable")
		} else {
			// outermost, so spans cover the other interceptors
			interceptors = append([]connect.Interceptor{tracing}, interceptors...)
		}
	}
	return []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithRecover(recoverHandler),
		connect.WithInterceptors(interceptors...),
	}
}

func statusHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

// Handler is the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.announce("http")
	return s.httpServer.ListenAndServe()
}

func (s *Server) StartTLS(certFile, keyFile string) error {
	s.announce("https")
	return s.httpServer.ListenAndServeTLS(certFile, keyFile)
}

func (s *Server) announce(scheme string) {
	endpoints := append([]string{}, s.procedures...)
	endpoints = append(endpoints, "/server/health", "/server/ready")
	if s.config.metricsEnabled() {
		endpoints = append(endpoints, "/server/metrics")
	}
	Logger.Info().
		Str("address", s.config.Address).
		Str("scheme", scheme).
		Strs("endpoints", endpoints).
		Msg("Adapter server listening")
}

// Shutdown drains in-flight requests, then flushes telemetry.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if s.otelShutdown != nil {
		if err := s.otelShutdown(ctx); err != nil {
			Logger.Error().Err(err).Msg("OpenTelemetry shutdown failed")
			return err
		}
	}
	Logger.Info().Msg("Adapter server stopped")
	return nil
}

func recoverHandler(_ context.Context, spec connect.Spec, _ http.Header, p any) error {
	Logger.Error().
		Interface("panic", p).
		Str("procedure", spec.Procedure).
		Msg("Panic in RPC handler")
	return connect.NewError(connect.CodeInternal, fmt.Errorf("internal server error"))
}
