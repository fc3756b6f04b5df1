// Package mtalspdaemon implements the mta-lsp-daemon session lifecycle.
package mtalspdaemon

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/mta-lsp/src/mtalsp/controller/diagnostics"
	mtavalidation "github.com/uber/mta-lsp/src/mtalsp/controller/mta-validation"
	"github.com/uber/mta-lsp/src/mtalsp/controller/workspace"
	ideclient "github.com/uber/mta-lsp/src/mtalsp/gateway/ide-client"
	"github.com/uber/mta-lsp/src/mtalsp/internal/disposable"
	"github.com/uber/mta-lsp/src/mtalsp/repository/session"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey = "mta-lsp-daemon"

	_idleTimeoutMinutesKey = "idleTimeoutMinutes"
	_serverName            = "MTA Language Server"
)

// Module provides the daemon controller.
var Module = fx.Provide(New)

// Controller orchestrates the business logic for each request.
type Controller interface {
	// LSP Methods defined per protocol.
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) error
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error

	// Workspace related methods.
	DidChangeWorkspaceFolders(ctx context.Context, params *protocol.DidChangeWorkspaceFoldersParams) error
	ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error)

	// Custom methods for use within this service.
	RequestFullShutdown(ctx context.Context) error
	InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error)
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Lifecycle   fx.Lifecycle `optional:"true"`
	Shutdowner  fx.Shutdowner
	Config      config.Provider
	Sessions    session.Repository
	IdeGateway  ideclient.Gateway
	Workspace   workspace.Controller
	Validation  mtavalidation.Controller
	Diagnostics diagnostics.Store
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
}

type controller struct {
	sessions    session.Repository
	ideGateway  ideclient.Gateway
	workspace   workspace.Controller
	validation  mtavalidation.Controller
	diagnostics diagnostics.Store
	shutdowner  fx.Shutdowner
	logger      *zap.SugaredLogger
	stats       tally.Scope

	fullShutdown atomic.Bool

	idleTimer   *time.Timer
	idleTimerMu sync.Mutex
	idleTimeout time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup

	// registry holds the manifest watch while at least one session is initialized.
	registryMu  sync.Mutex
	registry    *disposable.Registry
	watchFailed bool
}

// New constructs a new top-level controller for the service.
func New(p Params) (Controller, error) {
	var timeoutMinutes int64
	if v := p.Config.Get(_idleTimeoutMinutesKey); v.HasValue() {
		if err := v.Populate(&timeoutMinutes); err != nil {
			return nil, fmt.Errorf("unable to get idle timeout from config: %w", err)
		}
	}
	if timeoutMinutes < 0 {
		return nil, fmt.Errorf("idle timeout must not be negative, got %d", timeoutMinutes)
	}

	c := &controller{
		sessions:    p.Sessions,
		ideGateway:  p.IdeGateway,
		workspace:   p.Workspace,
		validation:  p.Validation,
		diagnostics: p.Diagnostics,
		shutdowner:  p.Shutdowner,
		logger:      p.Logger.With("plugin", _nameKey),
		stats:       p.Stats.SubScope(_nameKey),
		idleTimeout: time.Duration(timeoutMinutes) * time.Minute,
		stop:        make(chan struct{}),
	}

	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				c.stopIdleTimer()
				return c.releaseWatch(ctx)
			},
		})
	}

	c.refreshIdleTimer(context.Background())
	return c, nil
}

// refreshIdleTimer ensures that the service shuts down after a defined inactivity period with no connections.
// A zero timeout keeps the daemon running until it is asked to exit.
func (c *controller) refreshIdleTimer(ctx context.Context) error {
	if c.idleTimeout <= 0 {
		return nil
	}

	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	// First call initializes new timer and leaves it running prior to first connection.
	if c.idleTimer == nil {
		c.idleTimer = time.NewTimer(c.idleTimeout)
		c.wg.Add(1)
		go c.awaitIdle(c.idleTimer)
		return nil
	}

	// Subsequent calls stop the timer and reset it only if no connections are active.
	currentSessions, err := c.sessions.SessionCount(ctx)
	if err != nil {
		return fmt.Errorf("error resetting timeout: %w", err)
	}

	c.idleTimer.Stop()
	if currentSessions == 0 {
		c.idleTimer.Reset(c.idleTimeout)
	}
	return nil
}

func (c *controller) awaitIdle(t *time.Timer) {
	defer c.wg.Done()

	select {
	case <-t.C:
		c.logger.Info("idle timeout reached, shutting down")
		if err := c.shutdowner.Shutdown(); err != nil {
			c.logger.Errorf("shutting down: %v", err)
		}
	case <-c.stop:
	}
}

func (c *controller) stopIdleTimer() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	c.idleTimerMu.Lock()
	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
	c.idleTimerMu.Unlock()
	c.wg.Wait()
}

// acquireWatch returns the registry of the manifest watch, starting the watch on first use.
// A failed watch is not retried; diagnostics are then only refreshed by workspace scans.
func (c *controller) acquireWatch(ctx context.Context) *disposable.Registry {
	c.registryMu.Lock()
	defer c.registryMu.Unlock()

	if c.registry != nil {
		return c.registry
	}

	c.registry = disposable.NewRegistry()
	if c.watchFailed {
		return c.registry
	}

	if err := c.validation.WatchManifestAndDevExtensionFiles(context.WithoutCancel(ctx), c.registry); err != nil {
		c.watchFailed = true
		c.stats.Counter("watch_failures").Inc(1)
		c.logger.Errorf("watching manifest files, live updates disabled: %v", err)
	}
	return c.registry
}

// releaseWatch disposes the watch registry and clears every published diagnostic.
func (c *controller) releaseWatch(ctx context.Context) error {
	c.registryMu.Lock()
	registry := c.registry
	c.registry = nil
	c.registryMu.Unlock()

	if registry == nil {
		return nil
	}

	err := registry.Dispose()
	c.diagnostics.ClearAllCollections(ctx)
	if err != nil {
		return fmt.Errorf("disposing manifest watch: %w", err)
	}
	return nil
}
