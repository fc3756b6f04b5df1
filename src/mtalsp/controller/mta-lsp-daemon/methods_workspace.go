package mtalspdaemon

import (
	"context"
	"fmt"

	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// DidChangeWorkspaceFolders applies the client's folder changes to the session and the shared workspace.
func (c *controller) DidChangeWorkspaceFolders(ctx context.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	removed := make(map[string]struct{}, len(params.Event.Removed))
	for _, f := range params.Event.Removed {
		removed[f.URI] = struct{}{}
	}

	folders := make([]protocol.WorkspaceFolder, 0, len(s.WorkspaceFolders)+len(params.Event.Added))
	for _, f := range s.WorkspaceFolders {
		if _, ok := removed[f.URI]; !ok {
			folders = append(folders, f)
		}
	}
	folders = append(folders, params.Event.Added...)
	s.WorkspaceFolders = folders
	if err := c.sessions.Set(ctx, s); err != nil {
		return fmt.Errorf("setting updated session state: %w", err)
	}

	if err := c.workspace.AddFolders(ctx, params.Event.Added); err != nil {
		return fmt.Errorf("adding workspace folders: %w", err)
	}
	if err := c.workspace.RemoveFolders(ctx, params.Event.Removed); err != nil {
		return fmt.Errorf("removing workspace folders: %w", err)
	}
	return nil
}

// ExecuteCommand runs a server command. mta.validateWorkspace re-validates every manifest in the workspace.
func (c *controller) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
	switch params.Command {
	case entity.CommandValidateWorkspace:
		c.stats.Counter("workspace_commands").Inc(1)
		registry := c.acquireWatch(ctx)
		if err := c.validation.UpdateDiagnosticsForWorkspace(ctx, registry, true); err != nil {
			return nil, fmt.Errorf("validating workspace: %w", err)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown command %q", jsonrpc2.ErrInvalidParams, params.Command)
	}
}
