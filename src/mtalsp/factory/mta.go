package factory

import (
	"fmt"
	"math/rand"

	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

var _severityTags = []string{"error", "warning", "info", "hint"}

// Issue returns a random entity.Issue on a line between 1 and 100.
func Issue() entity.Issue {
	return entity.Issue{
		Severity: _severityTags[rand.Intn(len(_severityTags))],
		Message:  fmt.Sprintf("issue %d", rand.Intn(1000)),
		Line:     rand.Intn(100) + 1,
		Column:   rand.Intn(80),
	}
}

// Issues returns n random issues.
func Issues(n int) []entity.Issue {
	issues := make([]entity.Issue, 0, n)
	for i := 0; i < n; i++ {
		issues = append(issues, Issue())
	}
	return issues
}

// Diagnostic returns an error diagnostic with the given message placed at the start of line.
func Diagnostic(message string, line uint32) entity.Diagnostic {
	pos := protocol.Position{Line: line}
	return entity.Diagnostic{
		Source:   entity.MtaDiagnosticSource,
		Message:  message,
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: entity.SeverityError,
	}
}

// CollectionEntry returns an entry for path holding one diagnostic per message.
func CollectionEntry(path string, messages ...string) entity.CollectionEntry {
	entry := entity.CollectionEntry{URI: uri.File(path), Diagnostics: []entity.Diagnostic{}}
	for i, m := range messages {
		entry.Diagnostics = append(entry.Diagnostics, Diagnostic(m, uint32(i)))
	}
	return entry
}

// WorkspaceFolder returns a workspace folder for the directory at path.
func WorkspaceFolder(path string) protocol.WorkspaceFolder {
	return protocol.WorkspaceFolder{URI: string(uri.File(path)), Name: path}
}
