package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/mta-lsp/src/mtalsp/internal/disposable"
	"github.com/uber/mta-lsp/src/mtalsp/internal/errors"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	_testPattern  = "**/{mta.yaml,dev.mtaext}"
	_testDebounce = 5 * time.Millisecond
	_waitFor      = 2 * time.Second
	_tick         = 5 * time.Millisecond
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) has(kind EventKind, path string) bool {
	for _, e := range r.snapshot() {
		if e.Kind == kind && e.Path == path {
			return true
		}
	}
	return false
}

func newTestWatcher(t *testing.T, roots ...string) *watcher {
	w, err := New(Params{
		Pattern:  _testPattern,
		Roots:    roots,
		Exclude:  []string{"**/node_modules/**", "**/.git/**"},
		Debounce: _testDebounce,
		Logger:   zap.NewNop().Sugar(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { w.Dispose() })
	return w.(*watcher)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "change", EventChange.String())
	assert.Equal(t, "create", EventCreate.String())
	assert.Equal(t, "delete", EventDelete.String())
	assert.Equal(t, "EventKind(7)", EventKind(7).String())
}

func TestNew(t *testing.T) {
	t.Run("invalid pattern", func(t *testing.T) {
		_, err := New(Params{Pattern: "**/{mta.yaml"})
		assert.Error(t, err)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := New(Params{Pattern: _testPattern, Roots: []string{filepath.Join(t.TempDir(), "missing")}})
		assert.Error(t, err)
	})

	t.Run("root is a file", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "mta.yaml")
		require.NoError(t, os.WriteFile(f, []byte("ID: a"), 0o644))
		_, err := New(Params{Pattern: _testPattern, Roots: []string{f}})
		assert.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "pkg"), 0o755))

		w := newTestWatcher(t, root)
		assert.Equal(t, _testPattern, w.Pattern())

		w.mu.Lock()
		defer w.mu.Unlock()
		assert.Contains(t, w.dirs, root)
		assert.Contains(t, w.dirs, filepath.Join(root, "a"))
		assert.Contains(t, w.dirs, filepath.Join(root, "a", "b"))
		assert.NotContains(t, w.dirs, filepath.Join(root, "node_modules"))
		assert.NotContains(t, w.dirs, filepath.Join(root, "node_modules", "pkg"))
	})
}

func TestFileEvents(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root)

	rec := &recorder{}
	registry := disposable.NewRegistry()
	w.OnDidCreate(rec.handle, registry)
	w.OnDidChange(rec.handle, registry)
	w.OnDidDelete(rec.handle, registry)
	assert.Equal(t, 3, registry.Len())

	manifest := filepath.Join(root, "mta.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("ID: a\n"), 0o644))
	require.Eventually(t, func() bool { return rec.has(EventCreate, manifest) || rec.has(EventChange, manifest) }, _waitFor, _tick)

	require.NoError(t, os.Remove(manifest))
	require.Eventually(t, func() bool { return rec.has(EventDelete, manifest) }, _waitFor, _tick)

	require.NoError(t, registry.Dispose())
	ignored := filepath.Join(root, "dev.mtaext")
	require.NoError(t, os.WriteFile(ignored, []byte("extends: a\n"), 0o644))
	time.Sleep(10 * _testDebounce)
	for _, e := range rec.snapshot() {
		assert.NotEqual(t, ignored, e.Path)
	}
}

func TestNewDirectory(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root)

	rec := &recorder{}
	w.OnDidCreate(rec.handle, nil)
	w.OnDidChange(rec.handle, nil)

	dir := filepath.Join(root, "project", "nested")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		_, ok := w.dirs[dir]
		return ok
	}, _waitFor, _tick)

	ext := filepath.Join(dir, "dev.mtaext")
	require.NoError(t, os.WriteFile(ext, []byte("extends: a\n"), 0o644))
	require.Eventually(t, func() bool { return rec.has(EventCreate, ext) || rec.has(EventChange, ext) }, _waitFor, _tick)
}

func TestConsumeWatcherEvent(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(root, "mta.yaml")

	tests := []struct {
		name     string
		event    fsnotify.Event
		wantKind EventKind
		want     bool
	}{
		{
			name:     "create",
			event:    fsnotify.Event{Name: manifest, Op: fsnotify.Create},
			wantKind: EventCreate,
			want:     true,
		},
		{
			name:     "write",
			event:    fsnotify.Event{Name: manifest, Op: fsnotify.Write},
			wantKind: EventChange,
			want:     true,
		},
		{
			name:     "remove",
			event:    fsnotify.Event{Name: manifest, Op: fsnotify.Remove},
			wantKind: EventDelete,
			want:     true,
		},
		{
			name:     "rename",
			event:    fsnotify.Event{Name: manifest, Op: fsnotify.Rename},
			wantKind: EventDelete,
			want:     true,
		},
		{
			name:  "chmod",
			event: fsnotify.Event{Name: manifest, Op: fsnotify.Chmod},
		},
		{
			name:  "unmatched file",
			event: fsnotify.Event{Name: filepath.Join(root, "package.json"), Op: fsnotify.Write},
		},
		{
			name:  "excluded directory",
			event: fsnotify.Event{Name: filepath.Join(root, "node_modules", "x", "mta.yaml"), Op: fsnotify.Write},
		},
		{
			name:  "outside of roots",
			event: fsnotify.Event{Name: filepath.Join(filepath.Dir(root), "mta.yaml"), Op: fsnotify.Write},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWatcher(t, root)
			rec := &recorder{}
			w.OnDidCreate(rec.handle, nil)
			w.OnDidChange(rec.handle, nil)
			w.OnDidDelete(rec.handle, nil)

			w.consumeWatcherEvent(tt.event)

			if tt.want {
				require.Eventually(t, func() bool { return rec.has(tt.wantKind, tt.event.Name) }, _waitFor, _tick)
				return
			}
			time.Sleep(10 * _testDebounce)
			assert.Empty(t, rec.snapshot())
		})
	}
}

func TestDebounce(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(root, "mta.yaml")

	w, err := New(Params{Pattern: _testPattern, Roots: []string{root}, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	defer w.Dispose()
	impl := w.(*watcher)

	rec := &recorder{}
	w.OnDidChange(rec.handle, nil)
	w.OnDidDelete(rec.handle, nil)

	for i := 0; i < 5; i++ {
		impl.consumeWatcherEvent(fsnotify.Event{Name: manifest, Op: fsnotify.Write})
	}
	impl.consumeWatcherEvent(fsnotify.Event{Name: manifest, Op: fsnotify.Remove})

	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, _waitFor, _tick)
	time.Sleep(100 * time.Millisecond)
	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, EventDelete, events[0].Kind)
	assert.Equal(t, manifest, events[0].Path)
}

func TestRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(rootB, "sub"), 0o755))

	w := newTestWatcher(t, rootA)
	rec := &recorder{}
	w.OnDidChange(rec.handle, nil)

	require.NoError(t, w.AddRoot(rootB))
	require.NoError(t, w.AddRoot(rootB))

	w.mu.Lock()
	assert.Contains(t, w.dirs, filepath.Join(rootB, "sub"))
	w.mu.Unlock()

	manifestB := filepath.Join(rootB, "sub", "mta.yaml")
	w.consumeWatcherEvent(fsnotify.Event{Name: manifestB, Op: fsnotify.Write})
	require.Eventually(t, func() bool { return rec.has(EventChange, manifestB) }, _waitFor, _tick)

	require.NoError(t, w.RemoveRoot(rootB))
	require.NoError(t, w.RemoveRoot(rootB))
	w.mu.Lock()
	assert.NotContains(t, w.dirs, filepath.Join(rootB, "sub"))
	assert.Contains(t, w.dirs, rootA)
	w.mu.Unlock()

	before := len(rec.snapshot())
	w.consumeWatcherEvent(fsnotify.Event{Name: manifestB, Op: fsnotify.Write})
	time.Sleep(10 * _testDebounce)
	assert.Len(t, rec.snapshot(), before)
}

func TestRemoveOverlappingRoot(t *testing.T) {
	t.Run("nested root keeps watching after its parent is removed", func(t *testing.T) {
		outer := t.TempDir()
		inner := filepath.Join(outer, "sub")
		require.NoError(t, os.MkdirAll(filepath.Join(inner, "app"), 0o755))

		w := newTestWatcher(t, outer, inner)
		rec := &recorder{}
		w.OnDidCreate(rec.handle, nil)
		w.OnDidChange(rec.handle, nil)

		require.NoError(t, w.RemoveRoot(outer))
		w.mu.Lock()
		assert.Equal(t, inner, w.dirs[inner])
		assert.Equal(t, inner, w.dirs[filepath.Join(inner, "app")])
		assert.NotContains(t, w.dirs, outer)
		w.mu.Unlock()

		manifest := filepath.Join(inner, "app", "mta.yaml")
		require.NoError(t, os.WriteFile(manifest, []byte("ID: a\n"), 0o644))
		require.Eventually(t, func() bool { return rec.has(EventCreate, manifest) || rec.has(EventChange, manifest) }, _waitFor, _tick)
	})

	t.Run("parent root keeps watching after a nested root is removed", func(t *testing.T) {
		outer := t.TempDir()
		inner := filepath.Join(outer, "sub")
		require.NoError(t, os.MkdirAll(inner, 0o755))

		w := newTestWatcher(t, inner)
		require.NoError(t, w.AddRoot(outer))
		require.NoError(t, w.RemoveRoot(inner))

		w.mu.Lock()
		assert.Equal(t, outer, w.dirs[inner])
		assert.Equal(t, outer, w.dirs[outer])
		w.mu.Unlock()
	})
}

func TestSubscribeToDisposedRegistry(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	w, err := New(Params{Pattern: _testPattern, Debounce: _testDebounce, Logger: zap.New(core).Sugar()})
	require.NoError(t, err)
	defer w.Dispose()

	registry := disposable.NewRegistry()
	require.NoError(t, registry.Dispose())

	w.OnDidChange(func(context.Context, Event) {}, registry)
	assert.Equal(t, 1, logs.FilterMessageSnippet("registering change subscription").Len())
	w.(*watcher).mu.Lock()
	assert.Empty(t, w.(*watcher).handlers[EventChange])
	w.(*watcher).mu.Unlock()
}

func TestDispose(t *testing.T) {
	root := t.TempDir()
	w, err := New(Params{Pattern: _testPattern, Roots: []string{root}, Debounce: time.Hour})
	require.NoError(t, err)
	impl := w.(*watcher)

	rec := &recorder{}
	w.OnDidChange(rec.handle, nil)
	impl.consumeWatcherEvent(fsnotify.Event{Name: filepath.Join(root, "mta.yaml"), Op: fsnotify.Write})

	require.NoError(t, w.Dispose())
	require.NoError(t, w.Dispose())
	assert.Empty(t, rec.snapshot())

	assert.True(t, errors.IsDisposed(w.AddRoot(root)))
	assert.True(t, errors.IsDisposed(w.RemoveRoot(root)))
}

func TestSubscriptionDispose(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root)

	first := &recorder{}
	second := &recorder{}
	sub := w.OnDidChange(first.handle, nil)
	w.OnDidChange(second.handle, nil)

	require.NoError(t, sub.Dispose())
	require.NoError(t, sub.Dispose())

	manifest := filepath.Join(root, "mta.yaml")
	w.consumeWatcherEvent(fsnotify.Event{Name: manifest, Op: fsnotify.Write})
	require.Eventually(t, func() bool { return second.has(EventChange, manifest) }, _waitFor, _tick)
	assert.Empty(t, first.snapshot())
}
