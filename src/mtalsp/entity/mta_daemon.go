// Package entity contains the domain logic for the mta-lsp daemon.
package entity

import (
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

type keyType string

// SessionContextKey indicates the key to be used to identify the session UUID in the context.
const SessionContextKey keyType = "SessionUUID"

// Session entity representing a single IDE session.
type Session struct {
	UUID             uuid.UUID                  `json:"uuid" zap:"uuid"`
	InitializeParams *protocol.InitializeParams `json:"-" zap:"-"`
	Conn             *jsonrpc2.Conn             `json:"-" zap:"-"`
	WorkspaceFolders []protocol.WorkspaceFolder `json:"workspaceFolders" zap:"workspaceFolders"`
	Initialized      bool                       `json:"initialized" zap:"initialized"`
}

// FolderURIs returns the URIs of the session's workspace folders.
func (s *Session) FolderURIs() []string {
	result := make([]string, 0, len(s.WorkspaceFolders))
	for _, f := range s.WorkspaceFolders {
		result = append(result, f.URI)
	}
	return result
}

// CommandValidateWorkspace is the workspace/executeCommand name that re-validates every manifest in the workspace.
const CommandValidateWorkspace = "mta.validateWorkspace"
