package diagnostics

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"github.com/uber/mta-lsp/src/mtalsp/factory"
	"go.lsp.dev/uri"
)

type notifications struct {
	mu    sync.Mutex
	calls [][]uri.URI
}

func (n *notifications) notify(_ context.Context, files []uri.URI) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, append([]uri.URI(nil), files...))
}

func TestCollectionSet(t *testing.T) {
	ctx := context.Background()
	n := &notifications{}
	c := NewCollection(entity.MtaCollectionName, n.notify)
	assert.Equal(t, entity.MtaCollectionName, c.Name())

	manifest := factory.CollectionEntry("/ws/mta.yaml", "a")
	ext := factory.CollectionEntry("/ws/dev.mtaext", "b", "c")

	c.Set(ctx, []entity.CollectionEntry{manifest, ext})
	assert.Equal(t, []entity.CollectionEntry{manifest, ext}, c.Entries())
	require.Len(t, n.calls, 1)
	assert.Equal(t, []uri.URI{manifest.URI, ext.URI}, n.calls[0])

	t.Run("replace all clears absent files", func(t *testing.T) {
		updated := factory.CollectionEntry("/ws/mta.yaml", "d")
		c.Set(ctx, []entity.CollectionEntry{updated})

		assert.Equal(t, []entity.CollectionEntry{updated}, c.Entries())
		_, ok := c.Get(ext.URI)
		assert.False(t, ok)
		require.Len(t, n.calls, 2)
		assert.Equal(t, []uri.URI{ext.URI, updated.URI}, n.calls[1])
	})

	t.Run("empty set clears everything", func(t *testing.T) {
		c.Set(ctx, nil)
		assert.Empty(t, c.Entries())
		require.Len(t, n.calls, 3)
		assert.Equal(t, []uri.URI{manifest.URI}, n.calls[2])
	})

	t.Run("duplicate files keep first position", func(t *testing.T) {
		first := factory.CollectionEntry("/ws/mta.yaml", "x")
		second := factory.CollectionEntry("/ws/dev.mtaext", "y")
		again := factory.CollectionEntry("/ws/mta.yaml", "z")
		c.Set(ctx, []entity.CollectionEntry{first, second, again})

		entries := c.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, first.URI, entries[0].URI)
		assert.Equal(t, "z", entries[0].Diagnostics[0].Message)
		assert.Equal(t, second.URI, entries[1].URI)
	})
}

func TestCollectionSetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(entity.MtaCollectionName, nil)
	entries := []entity.CollectionEntry{
		factory.CollectionEntry("/ws/mta.yaml", "a"),
		factory.CollectionEntry("/ws/dev.mtaext", "b"),
	}

	c.Set(ctx, entries)
	first := c.Entries()
	c.Set(ctx, entries)
	assert.Equal(t, first, c.Entries())
}

func TestCollectionDelete(t *testing.T) {
	ctx := context.Background()
	n := &notifications{}
	c := NewCollection(entity.MtaCollectionName, n.notify)

	a := factory.CollectionEntry("/ws/a/mta.yaml", "a")
	b := factory.CollectionEntry("/ws/b/mta.yaml", "b")
	c.Set(ctx, []entity.CollectionEntry{a, b})

	c.Delete(ctx, a.URI)
	assert.Equal(t, []entity.CollectionEntry{b}, c.Entries())
	require.Len(t, n.calls, 2)
	assert.Equal(t, []uri.URI{a.URI}, n.calls[1])

	c.Delete(ctx, a.URI)
	assert.Len(t, n.calls, 2)
}

func TestCollectionGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(entity.MtaCollectionName, nil)
	entry := factory.CollectionEntry("/ws/mta.yaml", "a")
	c.Set(ctx, []entity.CollectionEntry{entry})

	d, ok := c.Get(entry.URI)
	require.True(t, ok)
	d[0].Message = "changed"

	again, _ := c.Get(entry.URI)
	assert.Equal(t, "a", again[0].Message)
}

func TestCollectionForEach(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(entity.MtaCollectionName, nil)
	c.Set(ctx, []entity.CollectionEntry{
		factory.CollectionEntry("/ws/a/mta.yaml", "a"),
		factory.CollectionEntry("/ws/b/mta.yaml", "b"),
		factory.CollectionEntry("/ws/c/mta.yaml", "c"),
	})

	visited := []string{}
	c.ForEach(func(e entity.CollectionEntry) bool {
		visited = append(visited, e.Diagnostics[0].Message)
		return len(visited) < 2
	})
	assert.Equal(t, []string{"a", "b"}, visited)
}

func TestCollectionClearAndDispose(t *testing.T) {
	ctx := context.Background()
	n := &notifications{}
	c := NewCollection(entity.MtaCollectionName, n.notify)
	a := factory.CollectionEntry("/ws/a/mta.yaml", "a")
	b := factory.CollectionEntry("/ws/b/mta.yaml", "b")
	c.Set(ctx, []entity.CollectionEntry{a, b})

	c.Clear(ctx)
	assert.Empty(t, c.Entries())
	require.Len(t, n.calls, 2)
	assert.Equal(t, []uri.URI{a.URI, b.URI}, n.calls[1])

	c.Clear(ctx)
	assert.Len(t, n.calls, 2)

	c.Dispose(ctx)
	c.Set(ctx, []entity.CollectionEntry{a})
	c.Delete(ctx, a.URI)
	c.Clear(ctx)
	assert.Empty(t, c.Entries())
	assert.Len(t, n.calls, 2)
}
