package mtalspdaemon

import (
	"context"

	"github.com/uber/mta-lsp/src/mtalsp/mapper"
	"go.lsp.dev/jsonrpc2"
)

// DidChangeWorkspaceFolders is sent when folders are added to or removed from the client's workspace.
func (r *jsonRPCRouter) DidChangeWorkspaceFolders(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidChangeWorkspaceFoldersParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.mtalspdaemon.DidChangeWorkspaceFolders(ctx, params)
	return reply(ctx, nil, err)
}

// ExecuteCommand runs one of the commands advertised in the initialize result.
func (r *jsonRPCRouter) ExecuteCommand(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToExecuteCommandParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.mtalspdaemon.ExecuteCommand(ctx, params)
	return reply(ctx, result, err)
}
