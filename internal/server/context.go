package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/deskmate/internal/calendar"
	"github.com/teemow/deskmate/internal/datetime"
	"github.com/teemow/deskmate/internal/desk"
	"github.com/teemow/deskmate/internal/instrumentation"
)

// Options configures a ServerContext.
type Options struct {
	CalendarPath         string
	DeskInfoPath         string
	DeskReservationsPath string

	// DefaultUser acts on behalf of callers that name nobody.
	DefaultUser string

	// ReadOnly hides every mutating tool.
	ReadOnly bool

	// Clock defaults to the system clock.
	Clock datetime.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// ServerContext holds the stores and instrumentation shared by all tool
// handlers of one MCP server.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	calendar *calendar.Store
	desks    *desk.Store
	dates    *datetime.Service

	defaultUser string
	readOnly    bool
	logger      *slog.Logger

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	sessions    *SessionTracker

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a server context from opts.
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	if opts.CalendarPath == "" {
		return nil, fmt.Errorf("calendar path is required")
	}
	if opts.DeskInfoPath == "" || opts.DeskReservationsPath == "" {
		return nil, fmt.Errorf("desk info and reservation paths are required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		calendar:    calendar.NewStore(opts.CalendarPath),
		desks:       desk.NewStore(opts.DeskInfoPath, opts.DeskReservationsPath),
		dates:       datetime.New(opts.Clock),
		defaultUser: opts.DefaultUser,
		readOnly:    opts.ReadOnly,
		logger:      logger,
	}
	sc.sessions = NewSessionTracker(sc)
	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

func (sc *ServerContext) Calendar() *calendar.Store { return sc.calendar }

func (sc *ServerContext) Desks() *desk.Store { return sc.desks }

func (sc *ServerContext) Dates() *datetime.Service { return sc.dates }

// DefaultUser returns the user assumed when a call carries no identity.
func (sc *ServerContext) DefaultUser() string { return sc.defaultUser }

func (sc *ServerContext) ReadOnly() bool { return sc.readOnly }

func (sc *ServerContext) Logger() *slog.Logger { return sc.logger }

// Sessions returns the tracker for MCP sessions on the HTTP transport.
func (sc *ServerContext) Sessions() *SessionTracker { return sc.sessions }

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder used by tool handlers.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when auditing is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger used by tool handlers.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
