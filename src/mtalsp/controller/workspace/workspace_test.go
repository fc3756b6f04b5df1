package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/mta-lsp/src/mtalsp/factory"
	"github.com/uber/mta-lsp/src/mtalsp/internal/disposable"
	"github.com/uber/mta-lsp/src/mtalsp/internal/fs"
	"github.com/uber/mta-lsp/src/mtalsp/internal/watcher"
	"github.com/uber/mta-lsp/src/mtalsp/internal/watcher/watchermock"
	"github.com/uber/mta-lsp/src/mtalsp/mapper"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []protocol.WorkspaceFoldersChangeEvent
}

func (r *eventRecorder) handle(_ context.Context, event protocol.WorkspaceFoldersChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) get() []protocol.WorkspaceFoldersChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.WorkspaceFoldersChangeEvent(nil), r.events...)
}

func newTestController(t *testing.T, mtaConfig map[string]interface{}, factoryFn WatcherFactory) (Controller, tally.TestScope) {
	provider, err := config.NewStaticProvider(map[string]interface{}{"mta": mtaConfig})
	require.NoError(t, err)

	scope := tally.NewTestScope("testing", nil)
	c, err := New(Params{
		FS:             fs.New(),
		Config:         provider,
		Logger:         zap.NewNop().Sugar(),
		Stats:          scope,
		WatcherFactory: factoryFn,
	})
	require.NoError(t, err)
	return c, scope
}

func writeFile(t *testing.T, path string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("ID: demo\n"), 0o644))
}

func TestNew(t *testing.T) {
	t.Run("default exclude", func(t *testing.T) {
		c, _ := newTestController(t, map[string]interface{}{}, nil)
		assert.Equal(t, DefaultExclude, c.(*controller).exclude)
	})

	t.Run("configured exclude and debounce", func(t *testing.T) {
		c, _ := newTestController(t, map[string]interface{}{
			"exclude":              []string{"**/target/**"},
			"debounceMilliseconds": 20,
		}, nil)
		impl := c.(*controller)
		assert.Equal(t, []string{"**/target/**"}, impl.exclude)
		assert.Equal(t, int64(20), impl.debounce.Milliseconds())
	})

	t.Run("invalid exclude", func(t *testing.T) {
		provider, err := config.NewStaticProvider(map[string]interface{}{
			"mta": map[string]interface{}{"exclude": []string{"[a-"}},
		})
		require.NoError(t, err)
		_, err = New(Params{
			FS:     fs.New(),
			Config: provider,
			Logger: zap.NewNop().Sugar(),
			Stats:  tally.NoopScope,
		})
		assert.Error(t, err)
	})
}

func TestAddRemoveFolders(t *testing.T) {
	ctx := context.Background()
	c, scope := newTestController(t, map[string]interface{}{}, nil)
	recorder := &eventRecorder{}
	c.OnDidChangeWorkspaceFolders(recorder.handle, nil)

	a := factory.WorkspaceFolder("/ws/a")
	b := factory.WorkspaceFolder("/ws/b")

	require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{a, b}))
	require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{a}))
	assert.Equal(t, []protocol.WorkspaceFolder{a, b}, c.Folders())
	assert.Equal(t, float64(2), scope.Snapshot().Gauges()["testing.workspace.folders+"].Value())

	require.NoError(t, c.RemoveFolders(ctx, []protocol.WorkspaceFolder{a}))
	assert.Equal(t, []protocol.WorkspaceFolder{a, b}, c.Folders(), "a is still referenced")

	require.NoError(t, c.RemoveFolders(ctx, []protocol.WorkspaceFolder{a}))
	require.NoError(t, c.RemoveFolders(ctx, []protocol.WorkspaceFolder{a}), "removing an unknown folder is a no-op")
	assert.Equal(t, []protocol.WorkspaceFolder{b}, c.Folders())
	assert.Equal(t, float64(1), scope.Snapshot().Gauges()["testing.workspace.folders+"].Value())

	assert.Equal(t, []protocol.WorkspaceFoldersChangeEvent{
		{Added: []protocol.WorkspaceFolder{a, b}, Removed: []protocol.WorkspaceFolder{}},
		{Added: []protocol.WorkspaceFolder{}, Removed: []protocol.WorkspaceFolder{a}},
	}, recorder.get())
}

func TestAddFoldersInvalidURI(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(t, map[string]interface{}{}, nil)

	a := factory.WorkspaceFolder("/ws/a")
	bad := protocol.WorkspaceFolder{URI: "https://example.com/ws", Name: "remote"}

	err := c.AddFolders(ctx, []protocol.WorkspaceFolder{bad, a})
	assert.Error(t, err)
	assert.Equal(t, []protocol.WorkspaceFolder{a}, c.Folders())

	assert.Error(t, c.RemoveFolders(ctx, []protocol.WorkspaceFolder{bad}))
}

func TestOnDidChangeWorkspaceFoldersDispose(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(t, map[string]interface{}{}, nil)
	registry := disposable.NewRegistry()

	first := &eventRecorder{}
	second := &eventRecorder{}
	d := c.OnDidChangeWorkspaceFolders(first.handle, registry)
	c.OnDidChangeWorkspaceFolders(second.handle, registry)
	assert.Equal(t, 2, registry.Len())

	require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder("/ws/a")}))
	require.NoError(t, d.Dispose())
	require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder("/ws/b")}))
	assert.Len(t, first.get(), 1)
	assert.Len(t, second.get(), 2)

	require.NoError(t, registry.Dispose())
	require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder("/ws/c")}))
	assert.Len(t, second.get(), 2)
}

func TestOnDidChangeWorkspaceFoldersDisposedRegistry(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(t, map[string]interface{}{}, nil)
	core, logs := observer.New(zap.WarnLevel)
	c.(*controller).logger = zap.New(core).Sugar()

	registry := disposable.NewRegistry()
	require.NoError(t, registry.Dispose())

	rec := &eventRecorder{}
	c.OnDidChangeWorkspaceFolders(rec.handle, registry)
	assert.Equal(t, 1, logs.FilterMessageSnippet("registering workspace folder subscription").Len())

	require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder("/ws/a")}))
	assert.Empty(t, rec.get())
}

func TestFindFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	other := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "mta.yaml"))
	writeFile(t, filepath.Join(root, "a", "mta.yaml"))
	writeFile(t, filepath.Join(root, "a", "dev.mtaext"))
	writeFile(t, filepath.Join(root, "node_modules", "lib", "mta.yaml"))
	writeFile(t, filepath.Join(root, ".git", "mta.yaml"))
	writeFile(t, filepath.Join(other, "mta.yaml"))

	c, scope := newTestController(t, map[string]interface{}{}, nil)
	require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{
		factory.WorkspaceFolder(root),
		factory.WorkspaceFolder(filepath.Join(root, "a")),
		factory.WorkspaceFolder(other),
	}))

	t.Run("manifests", func(t *testing.T) {
		files, err := c.FindFiles(ctx, "**/mta.yaml")
		require.NoError(t, err)
		assert.Equal(t, []uri.URI{
			mapper.PathToURI(filepath.Join(root, "a", "mta.yaml")),
			mapper.PathToURI(filepath.Join(root, "b", "mta.yaml")),
			mapper.PathToURI(filepath.Join(other, "mta.yaml")),
		}, files)
	})

	t.Run("manifests and extensions", func(t *testing.T) {
		files, err := c.FindFiles(ctx, "**/{mta.yaml,dev.mtaext}")
		require.NoError(t, err)
		assert.Len(t, files, 4)
	})

	t.Run("no match", func(t *testing.T) {
		files, err := c.FindFiles(ctx, "**/*.json")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := c.FindFiles(ctx, "[a-")
		assert.Error(t, err)
	})

	t.Run("canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := c.FindFiles(canceled, "**/mta.yaml")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing folder is skipped", func(t *testing.T) {
		missing := factory.WorkspaceFolder(filepath.Join(other, "gone"))
		require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{missing}))
		defer c.RemoveFolders(ctx, []protocol.WorkspaceFolder{missing})

		files, err := c.FindFiles(ctx, "**/mta.yaml")
		require.NoError(t, err)
		assert.Len(t, files, 3)
	})

	assert.NotZero(t, scope.Snapshot().Counters()["testing.workspace.find_files+"].Value())
}

func TestCreateFileSystemWatcher(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mockWatcher := watchermock.NewMockWatcher(ctrl)

	var gotParams watcher.Params
	c, scope := newTestController(t, map[string]interface{}{"debounceMilliseconds": 10}, func(p watcher.Params) (watcher.Watcher, error) {
		gotParams = p
		return mockWatcher, nil
	})
	require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder("/ws/a")}))

	gomock.InOrder(
		mockWatcher.EXPECT().AddRoot("/ws/a").Return(nil),
		mockWatcher.EXPECT().AddRoot("/ws/b").Return(errors.New("missing")),
		mockWatcher.EXPECT().RemoveRoot("/ws/a").Return(nil),
		mockWatcher.EXPECT().Dispose().Return(nil),
	)

	w, err := c.CreateFileSystemWatcher("**/mta.yaml")
	require.NoError(t, err)
	assert.Equal(t, "**/mta.yaml", gotParams.Pattern)
	assert.Equal(t, DefaultExclude, gotParams.Exclude)
	assert.Equal(t, int64(10), gotParams.Debounce.Milliseconds())
	assert.Equal(t, float64(1), scope.Snapshot().Gauges()["testing.workspace.watchers+"].Value())

	require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder("/ws/b")}))
	require.NoError(t, c.RemoveFolders(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder("/ws/a")}))

	require.NoError(t, w.Dispose())
	assert.Equal(t, float64(0), scope.Snapshot().Gauges()["testing.workspace.watchers+"].Value())

	// No longer follows folder changes.
	require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder("/ws/c")}))
}

func TestCreateFileSystemWatcherError(t *testing.T) {
	c, _ := newTestController(t, map[string]interface{}{}, func(p watcher.Params) (watcher.Watcher, error) {
		return nil, errors.New("too many open files")
	})

	_, err := c.CreateFileSystemWatcher("**/mta.yaml")
	assert.EqualError(t, err, "too many open files")
}

func TestCreateFileSystemWatcherEndToEnd(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	c, _ := newTestController(t, map[string]interface{}{"debounceMilliseconds": 5}, nil)
	require.NoError(t, c.AddFolders(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder(root)}))

	w, err := c.CreateFileSystemWatcher("**/mta.yaml")
	require.NoError(t, err)
	assert.Equal(t, "**/mta.yaml", w.Pattern())
	require.NoError(t, w.Dispose())
}
