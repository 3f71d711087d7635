package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/deskmate/internal/logging"
)

// DefaultMCPEndpoint is the path the streamable HTTP transport serves.
const DefaultMCPEndpoint = "/mcp"

// HTTPServerConfig configures HTTPServer.
type HTTPServerConfig struct {
	Addr string

	// IdentityHeader names the request header carrying the caller.
	IdentityHeader string

	// Logger defaults to the server context logger.
	Logger logging.Logger
}

// HTTPServer serves the MCP streamable HTTP transport next to the health
// endpoints.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	sc         *ServerContext
	health     *HealthChecker
	config     HTTPServerConfig
	logger     logging.Logger
	httpServer *http.Server
}

// NewHTTPServer creates an HTTP server for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, config HTTPServerConfig) *HTTPServer {
	if config.IdentityHeader == "" {
		config.IdentityHeader = DefaultIdentityHeader
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.NewSlogAdapter(sc.Logger())
	}
	return &HTTPServer{
		mcpServer: mcpServer,
		sc:        sc,
		health:    NewHealthChecker(sc),
		config:    config,
		logger:    logger,
	}
}

// Health returns the health checker backing /healthz and /readyz.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Handler builds the root handler: MCP endpoint, health endpoints and the
// request metrics middleware around them.
func (s *HTTPServer) Handler() http.Handler {
	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(DefaultMCPEndpoint),
		mcpserver.WithHTTPContextFunc(IdentityContextFunc(s.config.IdentityHeader)),
	)

	mux := http.NewServeMux()
	mux.Handle(DefaultMCPEndpoint, streamable)
	s.health.RegisterHealthEndpoints(mux)

	return MetricsMiddleware(s.sc, mux)
}

// Start listens on the configured address and blocks until the server
// stops. http.ErrServerClosed is returned after Shutdown.
func (s *HTTPServer) Start() error {
	if s.config.Addr == "" {
		return fmt.Errorf("listen address is required")
	}

	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("starting MCP HTTP server",
		"addr", s.config.Addr,
		"endpoint", DefaultMCPEndpoint,
		"identity_header", s.config.IdentityHeader)
	return s.httpServer.ListenAndServe()
}

// Shutdown marks the server not ready and drains open requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("shutting down MCP HTTP server")
	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// MetricsMiddleware records http_requests_total and
// http_request_duration_seconds for every request.
func MetricsMiddleware(sc *ServerContext, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics := sc.Metrics()
		if metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(r.Context(), r.Method, routeLabel(r.URL.Path), rec.status, time.Since(start))
	})
}

// routeLabel folds unknown paths into one label value.
func routeLabel(path string) string {
	switch path {
	case DefaultMCPEndpoint, "/healthz", "/readyz", "/healthz/detailed":
		return path
	}
	return "other"
}
