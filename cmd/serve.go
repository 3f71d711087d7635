package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/deskmate/internal/config"
	"github.com/teemow/deskmate/internal/instrumentation"
	"github.com/teemow/deskmate/internal/logging"
	"github.com/teemow/deskmate/internal/resources"
	"github.com/teemow/deskmate/internal/server"
	"github.com/teemow/deskmate/internal/tools/calendar_tools"
	"github.com/teemow/deskmate/internal/tools/datetime_tools"
	"github.com/teemow/deskmate/internal/tools/desk_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// serveFlags holds the raw flag values of the serve command.
type serveFlags struct {
	transport      string
	httpAddr       string
	identityHeader string
	defaultUser    string
	logFormat      string
	metricsAddr    string
	debug          bool
	readOnly       bool
	metricsEnabled bool
}

func newServeCmd() *cobra.Command {
	return newServeCmdWithRunner(runServe)
}

// newServeCmdWithRunner builds the serve command around run, which receives
// the merged configuration.
func newServeCmdWithRunner(run func(*config.Config) error) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the calendar,
desk reservation and date tools to AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport at /mcp

Caller identity:
  Tools act for the user named in the request. On the HTTP transport the
  identity header (default X-User) set by an authenticating proxy wins over
  the tool's user argument. --default-user is used when neither is present.

Read-only mode:
  --read-only hides the tools that change calendar or reservation files.

Every flag can also be set with the environment variable named in its help
text or in the YAML file given with --config. Flags win over environment
variables, which win over the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveServeConfig(cmd, flags)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&flags.transport, "transport", config.DefaultTransport, "Transport type: stdio or streamable-http. Can also use DESKMATE_TRANSPORT env var.")
	cmd.Flags().StringVar(&flags.httpAddr, "http-addr", config.DefaultHTTPAddr, "HTTP server address (for streamable-http transport). Can also use DESKMATE_HTTP_ADDR env var.")
	cmd.Flags().StringVar(&flags.identityHeader, "identity-header", server.DefaultIdentityHeader, "Request header carrying the calling user on the HTTP transport. Can also use DESKMATE_IDENTITY_HEADER env var.")
	cmd.Flags().StringVar(&flags.defaultUser, "default-user", "", "User assumed when a call names nobody. Can also use DESKMATE_DEFAULT_USER env var.")
	cmd.Flags().BoolVar(&flags.readOnly, "read-only", false, "Only register tools that do not modify data. Can also use DESKMATE_READ_ONLY env var.")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug logging. Can also use DESKMATE_DEBUG env var.")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "text", "Log format: text or json. Can also use DESKMATE_LOG_FORMAT env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&flags.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// resolveServeConfig merges the config file, environment and flags.
func resolveServeConfig(cmd *cobra.Command, flags serveFlags) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	overrideString(cmd, "transport", "DESKMATE_TRANSPORT", flags.transport, &cfg.Transport)
	overrideString(cmd, "http-addr", "DESKMATE_HTTP_ADDR", flags.httpAddr, &cfg.HTTP.Addr)
	overrideString(cmd, "identity-header", "DESKMATE_IDENTITY_HEADER", flags.identityHeader, &cfg.HTTP.IdentityHeader)
	overrideString(cmd, "default-user", "DESKMATE_DEFAULT_USER", flags.defaultUser, &cfg.DefaultUser)
	overrideString(cmd, "log-format", "DESKMATE_LOG_FORMAT", flags.logFormat, &cfg.Log.Format)
	overrideString(cmd, "metrics-addr", "METRICS_ADDR", flags.metricsAddr, &cfg.Metrics.Addr)

	if err := overrideBool(cmd, "read-only", "DESKMATE_READ_ONLY", flags.readOnly, &cfg.ReadOnly); err != nil {
		return nil, err
	}
	if err := overrideBool(cmd, "debug", "DESKMATE_DEBUG", flags.debug, &cfg.Log.Debug); err != nil {
		return nil, err
	}
	metricsEnabled := cfg.MetricsEnabled()
	if err := overrideBool(cmd, "metrics-enabled", "METRICS_ENABLED", flags.metricsEnabled, &metricsEnabled); err != nil {
		return nil, err
	}
	cfg.Metrics.Enabled = &metricsEnabled

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cfg *config.Config) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout carries the protocol on stdio; logs always go to stderr.
	logger := logging.NewLogger(os.Stderr, cfg.Log.Format, cfg.Log.Debug)
	slog.SetDefault(logger)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	instrConfig.DataDir = cfg.Data.Dir
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation config: %w", err)
	}
	if cfg.Transport == transportStdio &&
		(instrConfig.MetricsExporter == instrumentation.ExporterStdout || instrConfig.TracingExporter == instrumentation.ExporterStdout) {
		return fmt.Errorf("stdout exporters cannot be used with the stdio transport")
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if cfg.Transport != transportStdio && cfg.MetricsEnabled() && provider.PrometheusHandler() != nil {
		metricsServer, err = startMetricsServer(cfg.Metrics.Addr, provider, logger)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	serverContext, err := server.NewServerContext(shutdownCtx, server.Options{
		CalendarPath:         cfg.CalendarPath(),
		DeskInfoPath:         cfg.DeskInfoPath(),
		DeskReservationsPath: cfg.DeskReservationsPath(),
		DefaultUser:          cfg.DefaultUser,
		ReadOnly:             cfg.ReadOnly,
		Logger:               logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}

	mcpSrv := mcpserver.NewMCPServer("deskmate", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
		mcpserver.WithHooks(serverContext.Sessions().Hooks()),
	)

	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	logger.Info("starting deskmate",
		"version", version,
		"transport", cfg.Transport,
		"read_only", cfg.ReadOnly,
		logging.Path(cfg.Data.Dir))

	switch cfg.Transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	case transportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
	}
}

func startMetricsServer(addr string, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		logger.Info("metrics server started", "addr", metricsServer.Addr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, sc)
			},
		},
		{
			name: "Desk",
			register: func() error {
				return desk_tools.RegisterDeskTools(mcpSrv, sc)
			},
		},
		{
			name: "DateTime",
			register: func() error {
				return datetime_tools.RegisterDateTimeTools(mcpSrv, sc)
			},
		},
		{
			name: "Resources",
			register: func() error {
				return resources.RegisterResources(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, cfg *config.Config, logger *slog.Logger) error {
	httpServer := server.NewHTTPServer(mcpSrv, sc, server.HTTPServerConfig{
		Addr:           cfg.HTTP.Addr,
		IdentityHeader: cfg.HTTP.IdentityHeader,
		Logger:         logging.NewSlogAdapter(logger),
	})

	if cfg.DefaultUser == "" {
		logger.Warn("no default user configured; requests without an identity header must pass the user argument")
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
