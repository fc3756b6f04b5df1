package diagnostics

import (
	"context"
	"sync"

	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"go.lsp.dev/uri"
)

// NotifyFunc is called by a collection after its entries for files changed.
type NotifyFunc func(ctx context.Context, files []uri.URI)

// CollectionFactory creates the collection for a domain.
type CollectionFactory func(name string, notify NotifyFunc) Collection

// Collection holds the current diagnostics of one domain, keyed by file.
type Collection interface {
	// Name returns the domain name of the collection.
	Name() string
	// Set replaces the entire contents of the collection with entries, in order.
	// Files that are not part of entries are cleared.
	Set(ctx context.Context, entries []entity.CollectionEntry)
	// Delete clears the diagnostics of a single file.
	Delete(ctx context.Context, file uri.URI)
	// Get returns the diagnostics of a file and whether the collection has an entry for it.
	Get(file uri.URI) ([]entity.Diagnostic, bool)
	// ForEach calls fn for every entry in order until fn returns false.
	ForEach(fn func(entry entity.CollectionEntry) bool)
	// Entries returns an ordered snapshot of the collection.
	Entries() []entity.CollectionEntry
	// Clear removes every entry.
	Clear(ctx context.Context)
	// Dispose releases the collection. A disposed collection ignores further changes.
	Dispose(ctx context.Context)
}

type collection struct {
	name   string
	notify NotifyFunc

	mu       sync.RWMutex
	order    []uri.URI
	entries  map[uri.URI][]entity.Diagnostic
	disposed bool
}

// NewCollection creates an empty in-memory collection.
func NewCollection(name string, notify NotifyFunc) Collection {
	return &collection{
		name:    name,
		notify:  notify,
		entries: make(map[uri.URI][]entity.Diagnostic),
	}
}

func (c *collection) Name() string {
	return c.name
}

func (c *collection) Set(ctx context.Context, entries []entity.CollectionEntry) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}

	next := make(map[uri.URI][]entity.Diagnostic, len(entries))
	order := make([]uri.URI, 0, len(entries))
	for _, e := range entries {
		if _, seen := next[e.URI]; !seen {
			order = append(order, e.URI)
		}
		next[e.URI] = copyDiagnostics(e.Diagnostics)
	}

	changed := make([]uri.URI, 0, len(c.order)+len(order))
	for _, u := range c.order {
		if _, kept := next[u]; !kept {
			changed = append(changed, u)
		}
	}
	changed = append(changed, order...)

	c.order = order
	c.entries = next
	c.mu.Unlock()

	c.notifyChanged(ctx, changed)
}

func (c *collection) Delete(ctx context.Context, file uri.URI) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	if _, ok := c.entries[file]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.entries, file)
	for i, u := range c.order {
		if u == file {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.notifyChanged(ctx, []uri.URI{file})
}

func (c *collection) Get(file uri.URI) ([]entity.Diagnostic, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[file]
	if !ok {
		return nil, false
	}
	return copyDiagnostics(d), true
}

func (c *collection) ForEach(fn func(entry entity.CollectionEntry) bool) {
	for _, e := range c.Entries() {
		if !fn(e) {
			return
		}
	}
}

func (c *collection) Entries() []entity.CollectionEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]entity.CollectionEntry, 0, len(c.order))
	for _, u := range c.order {
		result = append(result, entity.CollectionEntry{URI: u, Diagnostics: copyDiagnostics(c.entries[u])})
	}
	return result
}

func (c *collection) Clear(ctx context.Context) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	cleared := c.order
	c.order = nil
	c.entries = make(map[uri.URI][]entity.Diagnostic)
	c.mu.Unlock()

	c.notifyChanged(ctx, cleared)
}

func (c *collection) Dispose(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
	c.order = nil
	c.entries = make(map[uri.URI][]entity.Diagnostic)
}

func (c *collection) notifyChanged(ctx context.Context, files []uri.URI) {
	if c.notify == nil || len(files) == 0 {
		return
	}
	c.notify(ctx, files)
}

func copyDiagnostics(d []entity.Diagnostic) []entity.Diagnostic {
	result := make([]entity.Diagnostic, len(d))
	copy(result, d)
	return result
}
