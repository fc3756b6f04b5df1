package entity

import (
	"fmt"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

const (
	// MtaDiagnosticSource is attached to every diagnostic produced by manifest validation.
	MtaDiagnosticSource = "MTA"
	// MtaCollectionName identifies the diagnostic collection used for manifest validation.
	MtaCollectionName = "mta"
	// MtaYaml is the default file name of the deployment descriptor.
	MtaYaml = "mta.yaml"
	// DevMtaExt is the default file name of the development extension descriptor.
	DevMtaExt = "dev.mtaext"
)

// MtaConfigKey is the configuration key of the manifest validation settings.
const MtaConfigKey = "mta"

// MtaConfig holds the manifest validation settings.
type MtaConfig struct {
	ManifestFileName     string   `yaml:"manifestFileName"`
	DevExtensionFileName string   `yaml:"devExtensionFileName"`
	Exclude              []string `yaml:"exclude"`
	DebounceMilliseconds int      `yaml:"debounceMilliseconds"`
}

// WithDefaults fills unset fields with the default descriptor names.
func (c MtaConfig) WithDefaults() MtaConfig {
	if c.ManifestFileName == "" {
		c.ManifestFileName = MtaYaml
	}
	if c.DevExtensionFileName == "" {
		c.DevExtensionFileName = DevMtaExt
	}
	return c
}

// WatchPattern is the glob matching the manifest and its development extension anywhere in the workspace.
func (c MtaConfig) WatchPattern() string {
	return fmt.Sprintf("**/{%s,%s}", c.ManifestFileName, c.DevExtensionFileName)
}

// ManifestPattern is the glob matching every manifest in the workspace.
func (c MtaConfig) ManifestPattern() string {
	return "**/" + c.ManifestFileName
}

// Issue is a single problem reported by the manifest validator.
// Line is 1-based. Column is reported by the validator but not used for placement.
type Issue struct {
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
}

// FileIssues are the issues reported for one absolute file path.
type FileIssues struct {
	Path   string  `json:"path"`
	Issues []Issue `json:"issues"`
}

// ValidationResult is the ordered outcome of one validation call.
// The order of files is the order the validator reported them in and must be preserved.
type ValidationResult []FileIssues

// Paths returns the file paths of the result in order.
func (r ValidationResult) Paths() []string {
	paths := make([]string, 0, len(r))
	for _, f := range r {
		paths = append(paths, f.Path)
	}
	return paths
}

// Severity of a diagnostic.
type Severity int

const (
	// SeverityError reports an error.
	SeverityError Severity = iota
	// SeverityWarning reports a warning.
	SeverityWarning
	// SeverityInformation reports an information.
	SeverityInformation
	// SeverityHint reports a hint.
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Diagnostic is an editor diagnostic derived from exactly one Issue.
type Diagnostic struct {
	Source   string         `json:"source"`
	Message  string         `json:"message"`
	Range    protocol.Range `json:"range"`
	Severity Severity       `json:"severity"`
}

// CollectionEntry pairs a file with its current diagnostics. Empty diagnostics clear the file.
type CollectionEntry struct {
	URI         uri.URI
	Diagnostics []Diagnostic
}
