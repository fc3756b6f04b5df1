// Package mtavalidator checks MTA deployment and extension descriptors and reports issues per file.
package mtavalidator

import (
	"context"
	"embed"
	"fmt"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"github.com/uber/mta-lsp/src/mtalsp/internal/errors"
	"github.com/uber/mta-lsp/src/mtalsp/internal/fs"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey = "mta-validator"

	_severityError   = "error"
	_severityWarning = "warning"
)

//go:embed schema/*.json
var _schemas embed.FS

// Module provides the descriptor validator.
var Module = fx.Provide(New)

// Gateway validates a deployment descriptor together with its extension descriptors.
type Gateway interface {
	// Validate returns the issues of the manifest followed by the issues of each extension, in argument order.
	// Files without issues are omitted. An error is returned when a descriptor cannot be read.
	Validate(ctx context.Context, manifestPath string, extensionPaths ...string) (entity.ValidationResult, error)
}

// Params are inbound parameters to create the validator.
type Params struct {
	fx.In

	FS     fs.MtaFS
	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

type gateway struct {
	fs              fs.MtaFS
	logger          *zap.SugaredLogger
	stats           tally.Scope
	manifestSchema  *gojsonschema.Schema
	extensionSchema *gojsonschema.Schema
}

// New creates a validator with the embedded descriptor schemas.
func New(p Params) (Gateway, error) {
	manifestSchema, err := loadSchema("schema/mta.json")
	if err != nil {
		return nil, err
	}
	extensionSchema, err := loadSchema("schema/mtaext.json")
	if err != nil {
		return nil, err
	}

	return &gateway{
		fs:              p.FS,
		logger:          p.Logger.With("plugin", _nameKey),
		stats:           p.Stats.SubScope(_nameKey),
		manifestSchema:  manifestSchema,
		extensionSchema: extensionSchema,
	}, nil
}

func (g *gateway) Validate(ctx context.Context, manifestPath string, extensionPaths ...string) (entity.ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest, err := g.load(manifestPath, g.manifestSchema)
	if err != nil {
		return nil, err
	}

	extensions := make([]*descriptor, 0, len(extensionPaths))
	for _, p := range extensionPaths {
		ext, err := g.load(p, g.extensionSchema)
		if err != nil {
			return nil, err
		}
		checkExtension(manifest, ext)
		extensions = append(extensions, ext)
	}

	result := entity.ValidationResult{}
	issueCount := 0
	for _, d := range append([]*descriptor{manifest}, extensions...) {
		if len(d.issues) == 0 {
			continue
		}
		result = append(result, entity.FileIssues{Path: d.path, Issues: d.issues})
		issueCount += len(d.issues)
	}

	g.stats.Counter("validations").Inc(1)
	g.stats.Counter("issues").Inc(int64(issueCount))
	g.logger.Debugf("validated %q with %d extension(s): %d issue(s)", manifestPath, len(extensionPaths), issueCount)
	return result, nil
}

func (g *gateway) load(path string, schema *gojsonschema.Schema) (*descriptor, error) {
	data, err := g.fs.ReadFile(path)
	if err != nil {
		return nil, &errors.DescriptorParseError{Path: path, Err: err}
	}

	d := parseDescriptor(path, data)
	if !d.decoded {
		return d, nil
	}

	schemaIssues, err := validateSchema(schema, d)
	if err != nil {
		return nil, &errors.DescriptorParseError{Path: path, Err: err}
	}
	d.issues = append(d.issues, schemaIssues...)
	return d, nil
}

func loadSchema(name string) (*gojsonschema.Schema, error) {
	data, err := _schemas.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading schema %q: %w", name, err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("loading schema %q: %w", name, err)
	}
	return schema, nil
}
