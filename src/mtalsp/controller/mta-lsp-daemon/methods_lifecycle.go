package mtalspdaemon

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"github.com/uber/mta-lsp/src/mtalsp/internal/errors"
	"github.com/uber/mta-lsp/src/mtalsp/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// Initialize stores the session's workspace folders and advertises the server capabilities.
func (c *controller) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting session from context: %w", err)
	}

	s.InitializeParams = params
	s.WorkspaceFolders = mapper.InitializeParamsToWorkspaceFolders(params)
	if err := c.sessions.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("setting updated session state: %w", err)
	}

	if err := c.workspace.AddFolders(ctx, s.WorkspaceFolders); err != nil {
		return nil, fmt.Errorf("adding workspace folders: %w", err)
	}

	return &protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{
			Name: _serverName,
		},
		Capabilities: protocol.ServerCapabilities{
			Workspace: &protocol.ServerCapabilitiesWorkspace{
				WorkspaceFolders: &protocol.ServerCapabilitiesWorkspaceFolders{
					Supported:           true,
					ChangeNotifications: true,
				},
			},
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{entity.CommandValidateWorkspace},
			},
		},
	}, nil
}

// Initialized starts the manifest watch, validates the workspace and sends the current diagnostics to the new session.
func (c *controller) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	s.Initialized = true
	if err := c.sessions.Set(ctx, s); err != nil {
		return fmt.Errorf("setting updated session state: %w", err)
	}

	registry := c.acquireWatch(ctx)
	if err := c.validation.UpdateDiagnosticsForWorkspace(ctx, registry, true); err != nil {
		c.logger.Warnf("validating workspace: %v", err)
	}

	if err := c.diagnostics.Replay(ctx); err != nil {
		return fmt.Errorf("replaying diagnostics: %w", err)
	}
	return nil
}

// Shutdown releases the session's workspace folders ahead of Exit.
func (c *controller) Shutdown(ctx context.Context) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}
	return c.releaseFolders(ctx, s)
}

// Exit will be used to either clean up from an individual connection, or shutdown the whole server.
func (c *controller) Exit(ctx context.Context) error {
	if c.fullShutdown.Load() {
		c.logger.Info("full shutdown requested")
		return c.shutdowner.Shutdown()
	}

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("error during session exit: %w", err)
	}

	return c.EndSession(ctx, s.UUID)
}

// RequestFullShutdown will set the controller to treat subsequent Exit requests as requests to exit the entire process.
func (c *controller) RequestFullShutdown(ctx context.Context) error {
	c.fullShutdown.Store(true)
	return nil
}

// InitSession creates a new empty session and returns its UUID.
func (c *controller) InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error) {
	defer c.refreshIdleTimer(ctx)

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	s := mapper.UUIDToSession(id, conn)
	if err := c.ideGateway.RegisterClient(ctx, id, conn); err != nil {
		return uuid.Nil, err
	}

	if err := c.sessions.Set(ctx, s); err != nil {
		return uuid.Nil, err
	}

	c.stats.Counter("sessions_started").Inc(1)
	return id, nil
}

// EndSession includes any cleanup at the end of the session, during or after the last JSON-RPC request.
// Ending the last session stops the manifest watch and clears every diagnostic.
func (c *controller) EndSession(ctx context.Context, id uuid.UUID) error {
	defer c.refreshIdleTimer(ctx)

	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		if _, ok := errors.NotFoundUUID(err); ok {
			// Already ended by Exit before the connection closed.
			return nil
		}
		return fmt.Errorf("getting session %s: %w", id, err)
	}

	if err := c.releaseFolders(ctx, s); err != nil {
		c.logger.Errorf("releasing workspace folders: %v", err)
	}

	if err := c.ideGateway.DeregisterClient(ctx, id); err != nil {
		c.logger.Error(err)
	}

	if err := c.sessions.Delete(ctx, id); err != nil {
		return err
	}
	c.stats.Counter("sessions_ended").Inc(1)

	remaining, err := c.sessions.SessionCount(ctx)
	if err != nil {
		return fmt.Errorf("counting sessions: %w", err)
	}
	if remaining == 0 {
		return c.releaseWatch(ctx)
	}
	return nil
}

func (c *controller) releaseFolders(ctx context.Context, s *entity.Session) error {
	if len(s.WorkspaceFolders) == 0 {
		return nil
	}

	folders := s.WorkspaceFolders
	s.WorkspaceFolders = nil
	if err := c.sessions.Set(ctx, s); err != nil {
		return fmt.Errorf("setting updated session state: %w", err)
	}
	return c.workspace.RemoveFolders(ctx, folders)
}
