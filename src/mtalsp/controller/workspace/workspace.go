// Package workspace tracks the workspace folders of all IDE sessions and provides file discovery and watching over them.
package workspace

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"github.com/uber/mta-lsp/src/mtalsp/internal/disposable"
	"github.com/uber/mta-lsp/src/mtalsp/internal/fs"
	"github.com/uber/mta-lsp/src/mtalsp/internal/watcher"
	"github.com/uber/mta-lsp/src/mtalsp/mapper"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const _nameKey = "workspace"

// DefaultExclude lists the globs skipped by discovery and watching unless configured otherwise.
var DefaultExclude = []string{"**/node_modules/**", "**/.git/**"}

// Module provides the workspace controller.
var Module = fx.Provide(New)

// FoldersChangeHandler is invoked after workspace folders were added or removed.
type FoldersChangeHandler func(ctx context.Context, event protocol.WorkspaceFoldersChangeEvent)

// WatcherFactory creates file system watchers.
type WatcherFactory func(p watcher.Params) (watcher.Watcher, error)

// Controller owns the set of workspace folders shared by all sessions.
type Controller interface {
	// AddFolders adds folders to the workspace. Folders already present are reference counted.
	AddFolders(ctx context.Context, folders []protocol.WorkspaceFolder) error
	// RemoveFolders releases one reference to each folder and removes folders that are no longer referenced.
	RemoveFolders(ctx context.Context, folders []protocol.WorkspaceFolder) error
	// Folders returns the current folders in the order they were added.
	Folders() []protocol.WorkspaceFolder
	// FindFiles returns the files of all folders matching the glob pattern, skipping excluded paths.
	FindFiles(ctx context.Context, pattern string) ([]uri.URI, error)
	// CreateFileSystemWatcher creates a watcher over the current folders that follows later folder changes until disposed.
	CreateFileSystemWatcher(pattern string) (watcher.Watcher, error)
	// OnDidChangeWorkspaceFolders subscribes handler to folder changes.
	OnDidChangeWorkspaceFolders(handler FoldersChangeHandler, registry *disposable.Registry) disposable.Disposable
}

// Params are inbound parameters to create the workspace controller.
type Params struct {
	fx.In

	FS             fs.MtaFS
	Config         config.Provider
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
	WatcherFactory WatcherFactory `optional:"true"`
}

type folder struct {
	workspaceFolder protocol.WorkspaceFolder
	path            string
	refs            int
}

type subscription struct {
	handler FoldersChangeHandler
}

type controller struct {
	fs         fs.MtaFS
	logger     *zap.SugaredLogger
	stats      tally.Scope
	exclude    []string
	debounce   time.Duration
	newWatcher WatcherFactory

	mu       sync.Mutex
	folders  map[string]*folder
	order    []string
	watchers []*trackedWatcher
	handlers []*subscription
}

// New creates the workspace controller.
func New(p Params) (Controller, error) {
	cfg := entity.MtaConfig{}
	if err := p.Config.Get(entity.MtaConfigKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting %q configuration: %w", entity.MtaConfigKey, err)
	}

	exclude := cfg.Exclude
	if len(exclude) == 0 {
		exclude = DefaultExclude
	}
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	newWatcher := p.WatcherFactory
	if newWatcher == nil {
		newWatcher = watcher.New
	}

	return &controller{
		fs:         p.FS,
		logger:     p.Logger.With("plugin", _nameKey),
		stats:      p.Stats.SubScope(_nameKey),
		exclude:    exclude,
		debounce:   time.Duration(cfg.DebounceMilliseconds) * time.Millisecond,
		newWatcher: newWatcher,
		folders:    make(map[string]*folder),
	}, nil
}

func (c *controller) AddFolders(ctx context.Context, folders []protocol.WorkspaceFolder) error {
	var errs error
	added := []protocol.WorkspaceFolder{}

	c.mu.Lock()
	for _, wf := range folders {
		path, err := mapper.WorkspaceFolderToPath(wf.URI)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		if f, ok := c.folders[path]; ok {
			f.refs++
			continue
		}

		c.folders[path] = &folder{workspaceFolder: wf, path: path, refs: 1}
		c.order = append(c.order, path)
		added = append(added, wf)
		for _, w := range c.watchers {
			if err := w.AddRoot(path); err != nil {
				c.logger.Warnf("unable to watch folder %q: %v", path, err)
			}
		}
	}
	c.updateGaugeLocked()
	c.mu.Unlock()

	if len(added) > 0 {
		c.logger.Infof("added %d workspace folder(s)", len(added))
		c.dispatch(ctx, protocol.WorkspaceFoldersChangeEvent{Added: added, Removed: []protocol.WorkspaceFolder{}})
	}
	return errs
}

func (c *controller) RemoveFolders(ctx context.Context, folders []protocol.WorkspaceFolder) error {
	var errs error
	removed := []protocol.WorkspaceFolder{}

	c.mu.Lock()
	for _, wf := range folders {
		path, err := mapper.WorkspaceFolderToPath(wf.URI)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		f, ok := c.folders[path]
		if !ok {
			continue
		}
		f.refs--
		if f.refs > 0 {
			continue
		}

		delete(c.folders, path)
		for i, p := range c.order {
			if p == path {
				c.order = append(c.order[:i:i], c.order[i+1:]...)
				break
			}
		}
		removed = append(removed, f.workspaceFolder)
		for _, w := range c.watchers {
			if err := w.RemoveRoot(path); err != nil {
				c.logger.Warnf("unable to stop watching folder %q: %v", path, err)
			}
		}
	}
	c.updateGaugeLocked()
	c.mu.Unlock()

	if len(removed) > 0 {
		c.logger.Infof("removed %d workspace folder(s)", len(removed))
		c.dispatch(ctx, protocol.WorkspaceFoldersChangeEvent{Added: []protocol.WorkspaceFolder{}, Removed: removed})
	}
	return errs
}

func (c *controller) Folders() []protocol.WorkspaceFolder {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]protocol.WorkspaceFolder, 0, len(c.order))
	for _, p := range c.order {
		result = append(result, c.folders[p].workspaceFolder)
	}
	return result
}

func (c *controller) FindFiles(ctx context.Context, pattern string) ([]uri.URI, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	result := []uri.URI{}
	seen := map[string]struct{}{}
	for _, root := range c.folderPaths() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		paths, err := c.fs.Glob(root, pattern, c.exclude)
		if err != nil {
			c.logger.Warnf("unable to search folder %q: %v", root, err)
			continue
		}

		sort.Strings(paths)
		for _, p := range paths {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			result = append(result, mapper.PathToURI(p))
		}
	}

	c.stats.Counter("find_files").Inc(1)
	return result, nil
}

func (c *controller) CreateFileSystemWatcher(pattern string) (watcher.Watcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, err := c.newWatcher(watcher.Params{
		Pattern:  pattern,
		Exclude:  c.exclude,
		Debounce: c.debounce,
		Logger:   c.logger,
	})
	if err != nil {
		return nil, err
	}

	for _, p := range c.order {
		if err := w.AddRoot(p); err != nil {
			c.logger.Warnf("unable to watch folder %q: %v", p, err)
		}
	}

	tracked := &trackedWatcher{Watcher: w, owner: c}
	c.watchers = append(c.watchers, tracked)
	c.stats.Gauge("watchers").Update(float64(len(c.watchers)))
	return tracked, nil
}

func (c *controller) OnDidChangeWorkspaceFolders(handler FoldersChangeHandler, registry *disposable.Registry) disposable.Disposable {
	sub := &subscription{handler: handler}

	c.mu.Lock()
	c.handlers = append(c.handlers, sub)
	c.mu.Unlock()

	d := disposable.Once(disposable.Func(func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.handlers {
			if s == sub {
				c.handlers = append(c.handlers[:i:i], c.handlers[i+1:]...)
				break
			}
		}
		return nil
	}))

	if registry != nil {
		if err := registry.Add(d); err != nil {
			c.logger.Warnf("registering workspace folder subscription: %v", err)
		}
	}
	return d
}

func (c *controller) dispatch(ctx context.Context, event protocol.WorkspaceFoldersChangeEvent) {
	c.mu.Lock()
	subs := append([]*subscription(nil), c.handlers...)
	c.mu.Unlock()

	for _, s := range subs {
		s.handler(ctx, event)
	}
}

func (c *controller) folderPaths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}

func (c *controller) updateGaugeLocked() {
	c.stats.Gauge("folders").Update(float64(len(c.folders)))
}

func (c *controller) release(w *trackedWatcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, tw := range c.watchers {
		if tw == w {
			c.watchers = append(c.watchers[:i:i], c.watchers[i+1:]...)
			break
		}
	}
	c.stats.Gauge("watchers").Update(float64(len(c.watchers)))
}

// trackedWatcher stops following folder changes once disposed.
type trackedWatcher struct {
	watcher.Watcher
	owner *controller
}

func (t *trackedWatcher) Dispose() error {
	t.owner.release(t)
	return t.Watcher.Dispose()
}
