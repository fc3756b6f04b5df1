package diagnostics

import (
	"context"

	"github.com/uber/mta-lsp/src/mtalsp/entity"
	ideclient "github.com/uber/mta-lsp/src/mtalsp/gateway/ide-client"
	"github.com/uber/mta-lsp/src/mtalsp/mapper"
	"github.com/uber/mta-lsp/src/mtalsp/repository/session"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Publisher delivers the diagnostics of a file to connected IDE sessions.
type Publisher interface {
	// Publish sends entry to every initialized session.
	Publish(ctx context.Context, entry entity.CollectionEntry) error
	// PublishToSession sends entry to the session identified by ctx.
	PublishToSession(ctx context.Context, entry entity.CollectionEntry) error
}

// PublisherParams are inbound parameters to create a Publisher.
type PublisherParams struct {
	fx.In

	Sessions   session.Repository
	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
}

type publisher struct {
	sessions   session.Repository
	ideGateway ideclient.Gateway
	logger     *zap.SugaredLogger
}

// NewPublisher creates a Publisher that broadcasts through the IDE client gateway.
func NewPublisher(p PublisherParams) Publisher {
	return &publisher{
		sessions:   p.Sessions,
		ideGateway: p.IdeGateway,
		logger:     p.Logger.With("plugin", _nameKey),
	}
}

func (p *publisher) Publish(ctx context.Context, entry entity.CollectionEntry) error {
	sessions, err := p.sessions.GetAll(ctx)
	if err != nil {
		return err
	}

	params := mapper.CollectionEntryToPublishDiagnosticsParams(entry)
	var errs error
	for _, s := range sessions {
		if !s.Initialized {
			continue
		}

		sCtx := context.WithValue(ctx, entity.SessionContextKey, s.UUID)
		p.logger.Debugf("Publishing %d diagnostics for %s", len(params.Diagnostics), entry.URI)
		if pubErr := p.ideGateway.PublishDiagnostics(sCtx, params); pubErr != nil {
			p.logger.Errorf("Error publishing diagnostics: %s", entry.URI)
			errs = multierr.Append(errs, pubErr)
		}
	}
	return errs
}

func (p *publisher) PublishToSession(ctx context.Context, entry entity.CollectionEntry) error {
	return p.ideGateway.PublishDiagnostics(ctx, mapper.CollectionEntryToPublishDiagnosticsParams(entry))
}
