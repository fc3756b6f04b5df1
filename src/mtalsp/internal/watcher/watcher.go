// Package watcher provides glob filtered file system subscriptions on top of fsnotify.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/uber/mta-lsp/src/mtalsp/internal/disposable"
	"github.com/uber/mta-lsp/src/mtalsp/internal/errors"
	mtafs "github.com/uber/mta-lsp/src/mtalsp/internal/fs"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

const _defaultDebounce = 50 * time.Millisecond

// EventKind is the kind of a file system event delivered to subscribers.
type EventKind int

const (
	// EventChange is delivered when a matching file is written.
	EventChange EventKind = iota
	// EventCreate is delivered when a matching file is created.
	EventCreate
	// EventDelete is delivered when a matching file is removed or renamed away.
	EventDelete
)

func (k EventKind) String() string {
	switch k {
	case EventChange:
		return "change"
	case EventCreate:
		return "create"
	case EventDelete:
		return "delete"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event describes a change to a file matching the watcher's pattern.
type Event struct {
	Kind EventKind
	Path string
	URI  uri.URI
}

// Handler receives events for one subscription.
type Handler func(ctx context.Context, event Event)

// Watcher delivers change, create and delete events for files matching a glob pattern below a set of roots.
type Watcher interface {
	disposable.Disposable

	// Pattern returns the glob pattern this watcher filters on.
	Pattern() string
	// OnDidChange subscribes handler to change events. The subscription is added to registry when it is not nil.
	OnDidChange(handler Handler, registry *disposable.Registry) disposable.Disposable
	// OnDidCreate subscribes handler to create events. The subscription is added to registry when it is not nil.
	OnDidCreate(handler Handler, registry *disposable.Registry) disposable.Disposable
	// OnDidDelete subscribes handler to delete events. The subscription is added to registry when it is not nil.
	OnDidDelete(handler Handler, registry *disposable.Registry) disposable.Disposable

	// AddRoot starts watching root and all directories below it.
	AddRoot(root string) error
	// RemoveRoot stops watching root.
	RemoveRoot(root string) error
}

// Params are the parameters required to create a new Watcher.
type Params struct {
	Pattern  string
	Roots    []string
	Exclude  []string
	Debounce time.Duration
	Logger   *zap.SugaredLogger
}

type subscription struct {
	handler Handler
}

type pendingEvent struct {
	timer *time.Timer
	kind  EventKind
}

type watcher struct {
	pattern  string
	exclude  []string
	debounce time.Duration
	logger   *zap.SugaredLogger
	fsw      *fsnotify.Watcher

	mu       sync.Mutex
	roots    map[string]struct{}
	dirs     map[string]string
	handlers map[EventKind][]*subscription
	disposed bool

	debounceMu     sync.Mutex
	debounceTimers map[string]*pendingEvent
	timersWg       sync.WaitGroup

	closer chan struct{}
	done   chan struct{}
}

// New creates a Watcher and starts processing events.
func New(p Params) (Watcher, error) {
	if !doublestar.ValidatePattern(p.Pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q: %w", p.Pattern, doublestar.ErrBadPattern)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file system watcher: %w", err)
	}

	debounce := p.Debounce
	if debounce <= 0 {
		debounce = _defaultDebounce
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	w := &watcher{
		pattern:        p.Pattern,
		exclude:        p.Exclude,
		debounce:       debounce,
		logger:         logger.With("watchPattern", p.Pattern),
		fsw:            fsw,
		roots:          make(map[string]struct{}),
		dirs:           make(map[string]string),
		handlers:       make(map[EventKind][]*subscription),
		debounceTimers: make(map[string]*pendingEvent),
		closer:         make(chan struct{}),
		done:           make(chan struct{}),
	}

	go w.handleChanges()

	for _, root := range p.Roots {
		if err := w.AddRoot(root); err != nil {
			w.Dispose()
			return nil, err
		}
	}

	return w, nil
}

func (w *watcher) Pattern() string {
	return w.pattern
}

func (w *watcher) OnDidChange(handler Handler, registry *disposable.Registry) disposable.Disposable {
	return w.subscribe(EventChange, handler, registry)
}

func (w *watcher) OnDidCreate(handler Handler, registry *disposable.Registry) disposable.Disposable {
	return w.subscribe(EventCreate, handler, registry)
}

func (w *watcher) OnDidDelete(handler Handler, registry *disposable.Registry) disposable.Disposable {
	return w.subscribe(EventDelete, handler, registry)
}

func (w *watcher) subscribe(kind EventKind, handler Handler, registry *disposable.Registry) disposable.Disposable {
	sub := &subscription{handler: handler}

	w.mu.Lock()
	w.handlers[kind] = append(w.handlers[kind], sub)
	w.mu.Unlock()

	d := disposable.Once(disposable.Func(func() error {
		w.mu.Lock()
		defer w.mu.Unlock()
		subs := w.handlers[kind]
		for i, s := range subs {
			if s == sub {
				w.handlers[kind] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		return nil
	}))

	if registry != nil {
		if err := registry.Add(d); err != nil {
			w.logger.Warnf("registering %s subscription: %v", kind, err)
		}
	}
	return d
}

func (w *watcher) AddRoot(root string) error {
	root = filepath.Clean(root)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return errors.WatcherDisposedError
	}
	if _, ok := w.roots[root]; ok {
		return nil
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watching %q: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %q: not a directory", root)
	}

	w.roots[root] = struct{}{}
	w.addTreeLocked(root, root)
	w.logger.Debugf("watching root %q", root)
	return nil
}

func (w *watcher) RemoveRoot(root string) error {
	root = filepath.Clean(root)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return errors.WatcherDisposedError
	}
	if _, ok := w.roots[root]; !ok {
		return nil
	}
	delete(w.roots, root)

	for dir, owner := range w.dirs {
		if owner != root {
			continue
		}
		delete(w.dirs, dir)
		if err := w.fsw.Remove(dir); err != nil {
			w.logger.Debugf("failed to stop watching %q: %v", dir, err)
		}
	}

	// Directories are owned by the root that added them first, so overlapping roots take over what they still cover.
	for other := range w.roots {
		_, inside := relativeTo(root, other)
		_, contains := relativeTo(other, root)
		if inside || contains {
			w.addTreeLocked(other, other)
		}
	}
	return nil
}

// Dispose stops event processing, cancels pending events and closes the underlying watcher.
func (w *watcher) Dispose() error {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return nil
	}
	w.disposed = true
	w.handlers = make(map[EventKind][]*subscription)
	w.mu.Unlock()

	close(w.closer)
	<-w.done

	w.debounceMu.Lock()
	for path, pending := range w.debounceTimers {
		if pending.timer.Stop() {
			w.timersWg.Done()
		}
		delete(w.debounceTimers, path)
	}
	w.debounceMu.Unlock()
	w.timersWg.Wait()

	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("closing file system watcher: %w", err)
	}
	return nil
}

// addTreeLocked watches dir and every directory below it that is not excluded.
func (w *watcher) addTreeLocked(root, dir string) []string {
	matches := []string{}
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, ok := relativeTo(root, path)
		if !ok {
			return nil
		}

		if d.IsDir() {
			if rel != "." && mtafs.ExcludedDir(rel, w.exclude) {
				return filepath.SkipDir
			}
			if _, watched := w.dirs[path]; watched {
				return nil
			}
			if err := w.fsw.Add(path); err != nil {
				w.logger.Warnf("failed to watch for changes in %q: %v", path, err)
				return nil
			}
			w.dirs[path] = root
			return nil
		}

		if w.matches(rel) {
			matches = append(matches, path)
		}
		return nil
	})
	return matches
}

func (w *watcher) handleChanges() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.consumeWatcherEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("failure in file system watcher: %v", err)
		case <-w.closer:
			return
		}
	}
}

func (w *watcher) consumeWatcherEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	w.mu.Lock()
	root, ok := w.rootForLocked(path)
	if !ok {
		w.mu.Unlock()
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			// Files written into a new directory before its watch was added would otherwise be missed.
			created := w.addTreeLocked(root, path)
			w.mu.Unlock()
			for _, f := range created {
				w.handleDebounce(f, EventCreate)
			}
			return
		}
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if _, watched := w.dirs[path]; watched {
			delete(w.dirs, path)
		}
	}
	w.mu.Unlock()

	rel, ok := relativeTo(root, path)
	if !ok || !w.matches(rel) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		w.handleDebounce(path, EventCreate)
	case event.Has(fsnotify.Write):
		w.handleDebounce(path, EventChange)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.handleDebounce(path, EventDelete)
	}
}

// handleDebounce collapses bursts of events for the same path; the last event kind wins.
func (w *watcher) handleDebounce(path string, kind EventKind) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if pending, exists := w.debounceTimers[path]; exists {
		if pending.timer.Stop() {
			w.timersWg.Done()
		}
	}

	w.timersWg.Add(1)
	pending := &pendingEvent{kind: kind}
	pending.timer = time.AfterFunc(w.debounce, func() {
		defer w.timersWg.Done()

		w.debounceMu.Lock()
		if current, ok := w.debounceTimers[path]; ok && current == pending {
			delete(w.debounceTimers, path)
		}
		w.debounceMu.Unlock()

		w.dispatch(Event{Kind: kind, Path: path, URI: uri.File(path)})
	})
	w.debounceTimers[path] = pending
}

func (w *watcher) dispatch(event Event) {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return
	}
	subs := append([]*subscription(nil), w.handlers[event.Kind]...)
	w.mu.Unlock()

	w.logger.Debugf("%s event for %q", event.Kind, event.Path)
	for _, s := range subs {
		s.handler(context.Background(), event)
	}
}

func (w *watcher) matches(rel string) bool {
	if mtafs.Excluded(rel, w.exclude) {
		return false
	}
	ok, _ := doublestar.Match(w.pattern, rel)
	return ok
}

// rootForLocked returns the most specific root containing path.
func (w *watcher) rootForLocked(path string) (string, bool) {
	best := ""
	for root := range w.roots {
		if _, ok := relativeTo(root, path); ok && len(root) > len(best) {
			best = root
		}
	}
	return best, best != ""
}

func relativeTo(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
