package app

import (
	"context"
	"time"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/mta-lsp/src/mtalsp/gateway"
	"github.com/uber/mta-lsp/src/mtalsp/handler"
	"github.com/uber/mta-lsp/src/mtalsp/internal/core"
	"github.com/uber/mta-lsp/src/mtalsp/internal/fs"
	"github.com/uber/mta-lsp/src/mtalsp/internal/jsonrpcfx"
	"github.com/uber/mta-lsp/src/mtalsp/internal/serverinfofile"
	"go.uber.org/fx"
)

// Module defines the mta-lsp-daemon application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	fs.Module,
	serverinfofile.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "mta-lsp-daemon",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        EnvLocal,
			RuntimeEnvironment: EnvLocal,
		}
	}),
)
