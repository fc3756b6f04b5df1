package gateway

import (
	ideclient "github.com/uber/mta-lsp/src/mtalsp/gateway/ide-client"
	mtavalidator "github.com/uber/mta-lsp/src/mtalsp/gateway/mta-validator"
	"go.uber.org/fx"
)

// Module provides the outbound gateways.
var Module = fx.Options(
	ideclient.Module,
	mtavalidator.Module,
)
