package diagnostics

import (
	"context"
	"sort"
	"sync"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"go.lsp.dev/uri"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey = "diagnostics"
)

// Module provides the diagnostic store and the publisher it reports changes through.
var Module = fx.Options(
	fx.Provide(NewPublisher),
	fx.Provide(New),
)

// Store owns the diagnostic collections of every validation domain.
type Store interface {
	// GetOrCreateCollection returns the collection for name, creating it on first use.
	GetOrCreateCollection(name string) Collection
	// ClearCollectionForFile clears a single file in the named collection. No collection is created.
	ClearCollectionForFile(ctx context.Context, name string, file uri.URI)
	// ClearAllCollections clears and disposes every collection.
	ClearAllCollections(ctx context.Context)
	// Replay publishes the current diagnostics of every file to the session in ctx.
	Replay(ctx context.Context) error
}

// Params are inbound parameters to create the diagnostic store.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle `optional:"true"`
	Publisher Publisher
	Factory   CollectionFactory `optional:"true"`
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

type store struct {
	publisher Publisher
	factory   CollectionFactory
	logger    *zap.SugaredLogger
	stats     tally.Scope

	mu          sync.Mutex
	collections map[string]Collection
	names       []string

	// publishMu keeps reading the merged state and sending it together so the last publish for a file is never stale.
	publishMu sync.Mutex
}

// New creates the diagnostic store.
func New(p Params) Store {
	factory := p.Factory
	if factory == nil {
		factory = NewCollection
	}

	s := &store{
		publisher:   p.Publisher,
		factory:     factory,
		logger:      p.Logger.With("plugin", _nameKey),
		stats:       p.Stats.SubScope(_nameKey),
		collections: make(map[string]Collection),
	}

	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				s.disposeAll(ctx)
				return nil
			},
		})
	}
	return s
}

func (s *store) GetOrCreateCollection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[name]; ok {
		return c
	}

	c := s.factory(name, s.publishFiles)
	s.collections[name] = c
	s.names = append(s.names, name)
	s.stats.Counter("collections_created").Inc(1)
	s.logger.Debugf("created diagnostic collection %q", name)
	return c
}

func (s *store) ClearCollectionForFile(ctx context.Context, name string, file uri.URI) {
	s.mu.Lock()
	c, ok := s.collections[name]
	s.mu.Unlock()
	if !ok {
		return
	}
	c.Delete(ctx, file)
}

func (s *store) ClearAllCollections(ctx context.Context) {
	for _, c := range s.detachAll() {
		c.Clear(ctx)
		c.Dispose(ctx)
	}
	s.updateGauge()
}

func (s *store) Replay(ctx context.Context) error {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	for _, file := range s.files() {
		entry := s.merged(file)
		if len(entry.Diagnostics) == 0 {
			continue
		}
		if err := s.publisher.PublishToSession(ctx, entry); err != nil {
			return err
		}
		s.stats.Counter("published").Inc(1)
	}
	return nil
}

// publishFiles is the change notification handed to every collection.
func (s *store) publishFiles(ctx context.Context, files []uri.URI) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	for _, file := range files {
		entry := s.merged(file)
		if err := s.publisher.Publish(ctx, entry); err != nil {
			s.logger.Warnf("publishing diagnostics for %q: %v", file, err)
			continue
		}
		s.stats.Counter("published").Inc(1)
	}
	s.updateGauge()
}

// merged returns the diagnostics of a file across every collection, in collection creation order.
func (s *store) merged(file uri.URI) entity.CollectionEntry {
	entry := entity.CollectionEntry{URI: file, Diagnostics: []entity.Diagnostic{}}
	for _, c := range s.snapshot() {
		if d, ok := c.Get(file); ok {
			entry.Diagnostics = append(entry.Diagnostics, d...)
		}
	}
	return entry
}

func (s *store) files() []uri.URI {
	seen := make(map[uri.URI]struct{})
	var files []uri.URI
	for _, c := range s.snapshot() {
		c.ForEach(func(e entity.CollectionEntry) bool {
			if _, ok := seen[e.URI]; !ok {
				seen[e.URI] = struct{}{}
				files = append(files, e.URI)
			}
			return true
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })
	return files
}

func (s *store) updateGauge() {
	count := 0
	for _, c := range s.snapshot() {
		c.ForEach(func(e entity.CollectionEntry) bool {
			if len(e.Diagnostics) > 0 {
				count++
			}
			return true
		})
	}
	s.stats.Gauge("files_with_diagnostics").Update(float64(count))
}

func (s *store) snapshot() []Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Collection, 0, len(s.names))
	for _, name := range s.names {
		result = append(result, s.collections[name])
	}
	return result
}

func (s *store) detachAll() []Collection {
	collections := s.snapshot()

	s.mu.Lock()
	s.collections = make(map[string]Collection)
	s.names = nil
	s.mu.Unlock()
	return collections
}

func (s *store) disposeAll(ctx context.Context) {
	for _, c := range s.detachAll() {
		c.Dispose(ctx)
	}
}
