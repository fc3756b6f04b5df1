package handler

import (
	controller "github.com/uber/mta-lsp/src/mtalsp/controller"
	mtalspdaemon "github.com/uber/mta-lsp/src/mtalsp/controller/mta-lsp-daemon"
	handler "github.com/uber/mta-lsp/src/mtalsp/handler/mta-lsp-daemon"
	"github.com/uber/mta-lsp/src/mtalsp/repository/session"
	"go.uber.org/fx"
)

// Module provides the mta-lsp-daemon server into an Fx application.
var Module = fx.Options(
	controller.Module,
	session.Module,
	fx.Provide(handler.New),
	fx.Invoke(outputServiceInfo),
	fx.Invoke(func(h handler.Handler) {}),
	fx.Invoke(func(c mtalspdaemon.Controller) {}),
)
