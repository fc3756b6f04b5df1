package controller

import (
	"github.com/uber/mta-lsp/src/mtalsp/controller/diagnostics"
	mtalspdaemon "github.com/uber/mta-lsp/src/mtalsp/controller/mta-lsp-daemon"
	mtavalidation "github.com/uber/mta-lsp/src/mtalsp/controller/mta-validation"
	"github.com/uber/mta-lsp/src/mtalsp/controller/workspace"
	"go.uber.org/fx"
)

// Module provides the business logic controllers.
var Module = fx.Options(
	mtalspdaemon.Module,
	diagnostics.Module,
	workspace.Module,
	mtavalidation.Module,
)
