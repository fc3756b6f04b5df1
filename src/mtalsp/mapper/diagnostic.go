package mapper

import (
	"strings"

	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"go.lsp.dev/protocol"
)

// TagToSeverity maps a validator severity tag to a diagnostic severity.
// Unrecognized tags map to information.
func TagToSeverity(tag string) entity.Severity {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "error":
		return entity.SeverityError
	case "warning":
		return entity.SeverityWarning
	case "info", "information":
		return entity.SeverityInformation
	case "hint":
		return entity.SeverityHint
	default:
		return entity.SeverityInformation
	}
}

// IssueToDiagnostic maps a validator issue to a whole-line diagnostic.
// The range is zero-width at the start of the issue's line; the column is not used.
func IssueToDiagnostic(issue entity.Issue) entity.Diagnostic {
	line := issue.Line - 1
	if line < 0 {
		line = 0
	}
	pos := protocol.Position{Line: uint32(line), Character: 0}

	return entity.Diagnostic{
		Source:   entity.MtaDiagnosticSource,
		Message:  issue.Message,
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: TagToSeverity(issue.Severity),
	}
}

// IssuesToDiagnostics maps every issue, preserving order.
func IssuesToDiagnostics(issues []entity.Issue) []entity.Diagnostic {
	diagnostics := make([]entity.Diagnostic, 0, len(issues))
	for _, issue := range issues {
		diagnostics = append(diagnostics, IssueToDiagnostic(issue))
	}
	return diagnostics
}

// ValidationResultToEntries maps a validation result to collection entries in result order.
func ValidationResultToEntries(result entity.ValidationResult) []entity.CollectionEntry {
	entries := make([]entity.CollectionEntry, 0, len(result))
	for _, file := range result {
		entries = append(entries, entity.CollectionEntry{
			URI:         uriFromPath(file.Path),
			Diagnostics: IssuesToDiagnostics(file.Issues),
		})
	}
	return entries
}

// DiagnosticToProtocol maps a diagnostic to its LSP wire form. LSP severities start at 1.
func DiagnosticToProtocol(d entity.Diagnostic) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    d.Range,
		Severity: protocol.DiagnosticSeverity(d.Severity + 1),
		Source:   d.Source,
		Message:  d.Message,
	}
}

// DiagnosticsToProtocol maps every diagnostic, preserving order. The result is never nil.
func DiagnosticsToProtocol(diagnostics []entity.Diagnostic) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		result = append(result, DiagnosticToProtocol(d))
	}
	return result
}

// CollectionEntryToPublishDiagnosticsParams maps an entry to the parameters of textDocument/publishDiagnostics.
func CollectionEntryToPublishDiagnosticsParams(entry entity.CollectionEntry) *protocol.PublishDiagnosticsParams {
	return &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(entry.URI),
		Diagnostics: DiagnosticsToProtocol(entry.Diagnostics),
	}
}
