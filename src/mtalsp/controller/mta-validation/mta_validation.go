// Package mtavalidation keeps the diagnostics of MTA deployment descriptors and their development extensions up to date.
package mtavalidation

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/mta-lsp/src/mtalsp/controller/diagnostics"
	"github.com/uber/mta-lsp/src/mtalsp/controller/workspace"
	"github.com/uber/mta-lsp/src/mtalsp/entity"
	ideclient "github.com/uber/mta-lsp/src/mtalsp/gateway/ide-client"
	mtavalidator "github.com/uber/mta-lsp/src/mtalsp/gateway/mta-validator"
	"github.com/uber/mta-lsp/src/mtalsp/internal/disposable"
	"github.com/uber/mta-lsp/src/mtalsp/internal/errors"
	"github.com/uber/mta-lsp/src/mtalsp/internal/fs"
	"github.com/uber/mta-lsp/src/mtalsp/internal/logfilewriter"
	"github.com/uber/mta-lsp/src/mtalsp/internal/serverinfofile"
	"github.com/uber/mta-lsp/src/mtalsp/internal/watcher"
	"github.com/uber/mta-lsp/src/mtalsp/mapper"
	"github.com/uber/mta-lsp/src/mtalsp/repository/session"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_nameKey    = "mta-validation"
	_reportName = "mta-validation"
)

// Module provides the MTA validation controller.
var Module = fx.Provide(New)

// Controller validates descriptors and commits their diagnostics to the shared collection.
type Controller interface {
	// UpdateDiagnosticsForManifest revalidates the manifest next to fileURI, which is either the manifest or its development extension.
	UpdateDiagnosticsForManifest(ctx context.Context, fileURI uri.URI, registry *disposable.Registry) error
	// UpdateDiagnosticsForWorkspace revalidates every manifest of the workspace and commits all results at once.
	// With forceClearOnEmpty every collection is cleared when no manifest is found.
	UpdateDiagnosticsForWorkspace(ctx context.Context, registry *disposable.Registry, forceClearOnEmpty bool) error
	// WatchManifestAndDevExtensionFiles subscribes to descriptor and workspace folder changes. Subscriptions are added to registry.
	WatchManifestAndDevExtensionFiles(ctx context.Context, registry *disposable.Registry) error
}

// Params are inbound parameters to create the validation controller.
type Params struct {
	fx.In

	Config     config.Provider
	FS         fs.MtaFS
	Validator  mtavalidator.Gateway
	Store      diagnostics.Store
	Workspace  workspace.Controller
	Sessions   session.Repository
	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
	Stats      tally.Scope

	// Without these the validation report is not written.
	Lifecycle      fx.Lifecycle                  `optional:"true"`
	ServerInfoFile serverinfofile.ServerInfoFile `optional:"true"`
}

type controller struct {
	cfg        entity.MtaConfig
	fs         fs.MtaFS
	validator  mtavalidator.Gateway
	store      diagnostics.Store
	workspace  workspace.Controller
	sessions   session.Repository
	ideGateway ideclient.Gateway
	logger     *zap.SugaredLogger
	stats      tally.Scope

	// commitMu serializes commits so that ownership and collection contents change together.
	commitMu sync.Mutex
	// owned maps a manifest path to the files its last successful validation reported.
	owned map[string][]uri.URI

	registriesMu sync.Mutex
	registries   map[*disposable.Registry]struct{}

	reportParams *logfilewriter.Params
	reportOnce   sync.Once
	report       io.Writer
}

// manifestResult is the outcome of validating one manifest before anything is committed.
type manifestResult struct {
	manifestPath string
	exists       bool
	entries      []entity.CollectionEntry
	err          error
}

// New creates the validation controller.
func New(p Params) (Controller, error) {
	cfg := entity.MtaConfig{}
	if err := p.Config.Get(entity.MtaConfigKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting %q configuration: %w", entity.MtaConfigKey, err)
	}

	c := &controller{
		cfg:        cfg.WithDefaults(),
		fs:         p.FS,
		validator:  p.Validator,
		store:      p.Store,
		workspace:  p.Workspace,
		sessions:   p.Sessions,
		ideGateway: p.IdeGateway,
		logger:     p.Logger.With("plugin", _nameKey),
		stats:      p.Stats.SubScope(_nameKey),
		owned:      make(map[string][]uri.URI),
		registries: make(map[*disposable.Registry]struct{}),
	}
	if p.Lifecycle != nil && p.ServerInfoFile != nil {
		c.reportParams = &logfilewriter.Params{
			FS:             p.FS,
			Lifecycle:      p.Lifecycle,
			ServerInfoFile: p.ServerInfoFile,
		}
	}
	return c, nil
}

func (c *controller) UpdateDiagnosticsForManifest(ctx context.Context, fileURI uri.URI, registry *disposable.Registry) error {
	c.trackRegistry(registry)

	res, err := c.validateManifest(ctx, fileURI)
	if err != nil {
		return err
	}

	if !res.exists {
		c.clearManifest(ctx, res.manifestPath)
		return nil
	}
	if res.err != nil {
		return c.reportFailure(ctx, res.manifestPath, res.err)
	}

	c.commitManifest(ctx, res)
	return nil
}

func (c *controller) UpdateDiagnosticsForWorkspace(ctx context.Context, registry *disposable.Registry, forceClearOnEmpty bool) error {
	c.trackRegistry(registry)

	manifests, err := c.workspace.FindFiles(ctx, c.cfg.ManifestPattern())
	if err != nil {
		return fmt.Errorf("finding manifests: %w", err)
	}

	if len(manifests) == 0 {
		if forceClearOnEmpty {
			c.commitMu.Lock()
			c.store.ClearAllCollections(ctx)
			c.owned = make(map[string][]uri.URI)
			c.commitMu.Unlock()
			c.logger.Info("no manifests found, cleared all diagnostics")
		}
		return nil
	}

	var errs error
	results := make([]manifestResult, 0, len(manifests))
	for _, m := range manifests {
		res, err := c.validateManifest(ctx, m)
		if err != nil {
			errs = multierr.Append(errs, err)
			if res.manifestPath != "" {
				// Keep the previous entries of a manifest that could not be resolved.
				results = append(results, manifestResult{manifestPath: res.manifestPath, exists: true, err: err})
			}
			continue
		}
		if res.err != nil {
			errs = multierr.Append(errs, c.reportFailure(ctx, res.manifestPath, res.err))
		}
		results = append(results, res)
	}

	c.commitWorkspace(ctx, results)
	c.stats.Counter("workspace_scans").Inc(1)
	c.logger.Infof("validated %d manifest(s) in the workspace", len(manifests))
	return errs
}

func (c *controller) WatchManifestAndDevExtensionFiles(ctx context.Context, registry *disposable.Registry) error {
	w, err := c.workspace.CreateFileSystemWatcher(c.cfg.WatchPattern())
	if err != nil {
		return fmt.Errorf("creating watcher for %q: %w", c.cfg.WatchPattern(), err)
	}
	if err := registry.Add(w); err != nil {
		return err
	}

	update := func(ctx context.Context, event watcher.Event) {
		c.logger.Debugf("%s: %s", event.Kind, event.URI)
		if err := c.UpdateDiagnosticsForManifest(ctx, event.URI, registry); err != nil {
			c.logger.Warnf("updating diagnostics for %s: %v", event.URI, err)
		}
	}
	w.OnDidChange(update, registry)
	w.OnDidCreate(update, registry)
	w.OnDidDelete(update, registry)

	c.workspace.OnDidChangeWorkspaceFolders(func(ctx context.Context, event protocol.WorkspaceFoldersChangeEvent) {
		if err := c.UpdateDiagnosticsForWorkspace(ctx, registry, len(event.Removed) > 0); err != nil {
			c.logger.Warnf("updating diagnostics for workspace: %v", err)
		}
	}, registry)

	c.logger.Infof("watching %q", c.cfg.WatchPattern())
	return nil
}

// validateManifest resolves the manifest for fileURI and validates it together with its development extension.
// The returned error covers resolution failures; validator failures are recorded in the result.
// The manifest path is set in the result whenever it could be resolved.
func (c *controller) validateManifest(ctx context.Context, fileURI uri.URI) (manifestResult, error) {
	path, err := mapper.URIToPath(fileURI)
	if err != nil {
		return manifestResult{}, err
	}
	dir := filepath.Dir(path)
	res := manifestResult{manifestPath: filepath.Join(dir, c.cfg.ManifestFileName)}

	exists, err := c.fs.FileExists(res.manifestPath)
	if err != nil {
		return res, fmt.Errorf("checking %q: %w", res.manifestPath, err)
	}
	if !exists {
		return res, nil
	}
	res.exists = true

	var extensions []string
	extPath := filepath.Join(dir, c.cfg.DevExtensionFileName)
	extExists, err := c.fs.FileExists(extPath)
	if err != nil {
		return res, fmt.Errorf("checking %q: %w", extPath, err)
	}
	if extExists {
		extensions = append(extensions, extPath)
	}

	result, err := c.validator.Validate(ctx, res.manifestPath, extensions...)
	if err != nil {
		res.err = err
		return res, nil
	}

	res.entries = mapper.ValidationResultToEntries(result)
	c.logger.Debugf("validated %q, files with issues: %v", res.manifestPath, result.Paths())
	c.stats.Counter("validations").Inc(1)
	return res, nil
}

// commitManifest replaces the files owned by one manifest, keeping the entries owned by other manifests.
func (c *controller) commitManifest(ctx context.Context, res manifestResult) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	collection := c.store.GetOrCreateCollection(entity.MtaCollectionName)

	reported := uriSet(res.entries)
	others := map[uri.URI]struct{}{}
	for m, files := range c.owned {
		if m == res.manifestPath {
			continue
		}
		for _, f := range files {
			if _, ok := reported[f]; !ok {
				others[f] = struct{}{}
			}
		}
	}

	entries := make([]entity.CollectionEntry, 0, len(others)+len(res.entries))
	for _, e := range collection.Entries() {
		if _, ok := others[e.URI]; ok {
			entries = append(entries, e)
		}
	}
	entries = append(entries, res.entries...)

	c.owned[res.manifestPath] = entryURIs(res.entries)
	collection.Set(ctx, entries)
	c.logger.Debugf("committed %d file(s) for %q", len(res.entries), res.manifestPath)
	c.writeReport(res)
}

// commitWorkspace replaces the whole collection with the results of a workspace scan.
// Manifests that failed to validate keep their previous entries.
func (c *controller) commitWorkspace(ctx context.Context, results []manifestResult) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	collection := c.store.GetOrCreateCollection(entity.MtaCollectionName)

	owned := make(map[string][]uri.URI, len(results))
	entries := []entity.CollectionEntry{}
	for _, res := range results {
		if !res.exists {
			continue
		}
		if res.err != nil {
			previous := c.owned[res.manifestPath]
			for _, f := range previous {
				if d, ok := collection.Get(f); ok {
					entries = append(entries, entity.CollectionEntry{URI: f, Diagnostics: d})
				}
			}
			owned[res.manifestPath] = previous
			continue
		}
		entries = append(entries, res.entries...)
		owned[res.manifestPath] = entryURIs(res.entries)
		c.writeReport(res)
	}

	c.owned = owned
	collection.Set(ctx, entries)
}

// clearManifest clears the manifest and every file its last validation reported.
func (c *controller) clearManifest(ctx context.Context, manifestPath string) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	files := append([]uri.URI{mapper.PathToURI(manifestPath)}, c.owned[manifestPath]...)
	delete(c.owned, manifestPath)
	for _, f := range files {
		c.store.ClearCollectionForFile(ctx, entity.MtaCollectionName, f)
	}
	c.logger.Debugf("manifest %q does not exist, cleared %d file(s)", manifestPath, len(files))
}

// reportFailure logs a validator failure and shows it to every initialized session. Existing diagnostics are kept.
func (c *controller) reportFailure(ctx context.Context, manifestPath string, cause error) error {
	err := &errors.ValidationError{ManifestPath: manifestPath, Err: cause}
	c.stats.Counter("validation_failures").Inc(1)
	c.logger.Errorf("validation failed: %v", err)
	fmt.Fprintf(c.reportWriter(), "%s: validation failed: %v\n", manifestPath, cause)

	sessions, sErr := c.sessions.GetAll(ctx)
	if sErr != nil {
		c.logger.Warnf("unable to list sessions: %v", sErr)
		return err
	}
	show := &protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: fmt.Sprintf("MTA validation failed for %s: %v", manifestPath, cause),
	}
	log := &protocol.LogMessageParams{
		Type:    protocol.MessageTypeError,
		Message: err.Error(),
	}
	for _, s := range sessions {
		if !s.Initialized {
			continue
		}
		sCtx := context.WithValue(ctx, entity.SessionContextKey, s.UUID)
		if logErr := c.ideGateway.LogMessage(sCtx, log); logErr != nil {
			c.logger.Warnf("unable to log message to session %s: %v", s.UUID, logErr)
		}
		if showErr := c.ideGateway.ShowMessage(sCtx, show); showErr != nil {
			c.logger.Warnf("unable to show message to session %s: %v", s.UUID, showErr)
		}
	}
	return err
}

// trackRegistry makes registry forget the diagnostics committed by this controller when it is disposed.
func (c *controller) trackRegistry(registry *disposable.Registry) {
	if registry == nil {
		return
	}

	c.registriesMu.Lock()
	if _, ok := c.registries[registry]; ok {
		c.registriesMu.Unlock()
		return
	}
	c.registries[registry] = struct{}{}
	c.registriesMu.Unlock()

	err := registry.Add(disposable.Func(func() error {
		c.registriesMu.Lock()
		delete(c.registries, registry)
		c.registriesMu.Unlock()

		c.commitMu.Lock()
		defer c.commitMu.Unlock()
		ctx := context.Background()
		for m, files := range c.owned {
			c.store.ClearCollectionForFile(ctx, entity.MtaCollectionName, mapper.PathToURI(m))
			for _, f := range files {
				c.store.ClearCollectionForFile(ctx, entity.MtaCollectionName, f)
			}
		}
		c.owned = make(map[string][]uri.URI)
		return nil
	}))
	if err != nil {
		c.logger.Warnf("tracking committed diagnostics: %v", err)
	}
}

// reportWriter sets up the validation report on first use.
func (c *controller) reportWriter() io.Writer {
	c.reportOnce.Do(func() {
		c.report = io.Discard
		if c.reportParams == nil {
			return
		}
		w, err := logfilewriter.SetupOutputWriter(*c.reportParams, _reportName)
		if err != nil {
			c.logger.Warnf("validation report disabled: %v", err)
			return
		}
		c.report = w
	})
	return c.report
}

// writeReport summarizes the problems of one validated manifest.
func (c *controller) writeReport(res manifestResult) {
	var b strings.Builder
	problems := 0
	for _, e := range res.entries {
		problems += len(e.Diagnostics)
	}
	fmt.Fprintf(&b, "%s: %d problem(s) in %d file(s)\n", res.manifestPath, problems, len(res.entries))
	for _, e := range res.entries {
		for _, d := range e.Diagnostics {
			fmt.Fprintf(&b, "  %s:%d:%d %s: %s\n", e.URI.Filename(), d.Range.Start.Line+1, d.Range.Start.Character+1, d.Severity, d.Message)
		}
	}
	io.WriteString(c.reportWriter(), b.String())
}

func uriSet(entries []entity.CollectionEntry) map[uri.URI]struct{} {
	result := make(map[uri.URI]struct{}, len(entries))
	for _, e := range entries {
		result[e.URI] = struct{}{}
	}
	return result
}

func entryURIs(entries []entity.CollectionEntry) []uri.URI {
	result := make([]uri.URI, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.URI)
	}
	return result
}
