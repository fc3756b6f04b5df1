package mapper

import (
	"encoding/json"
	"fmt"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// RequestToInitializeParams maps the parameters from a jsconrpc2.Request into protocol.InitializeParams.
func RequestToInitializeParams(req jsonrpc2.Request) (*protocol.InitializeParams, error) {
	params := protocol.InitializeParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToInitializedParams maps the parameters from a jsconrpc2.Request into protocol.InitializedParams.
func RequestToInitializedParams(req jsonrpc2.Request) (*protocol.InitializedParams, error) {
	params := protocol.InitializedParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidChangeWorkspaceFoldersParams maps the parameters from a jsconrpc2.Request into protocol.DidChangeWorkspaceFoldersParams.
func RequestToDidChangeWorkspaceFoldersParams(req jsonrpc2.Request) (*protocol.DidChangeWorkspaceFoldersParams, error) {
	params := protocol.DidChangeWorkspaceFoldersParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToExecuteCommandParams maps the parameters from a jsconrpc2.Request into protocol.ExecuteCommandParams.
func RequestToExecuteCommandParams(req jsonrpc2.Request) (*protocol.ExecuteCommandParams, error) {
	params := protocol.ExecuteCommandParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// InitializeParamsToWorkspaceFolders returns the workspace folders of an initialize request.
// Clients that predate workspace folders only send a root uri, which becomes a single folder.
func InitializeParamsToWorkspaceFolders(params *protocol.InitializeParams) []protocol.WorkspaceFolder {
	if params == nil {
		return nil
	}
	if len(params.WorkspaceFolders) > 0 {
		return params.WorkspaceFolders
	}
	if params.RootURI != "" {
		return []protocol.WorkspaceFolder{{URI: string(params.RootURI), Name: string(params.RootURI)}}
	}
	return nil
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err)
}
