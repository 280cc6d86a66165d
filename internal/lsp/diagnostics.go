package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	diag "strictivars/internal/errors"
	"strictivars/internal/instrument"
)

const diagnosticSource = "strictivars"

// ConvertDiagnostics turns the diagnostics of one instrumented document
// into LSP diagnostics. Errors and warnings keep their severity and notes
// become hints.
func ConvertDiagnostics(text string, diagnostics []diag.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		start := d.Position.Offset
		end := start + max(d.Length, 1)
		message := d.Message
		for _, s := range d.Suggestions {
			message += "\n" + s.Message
		}
		out = append(out, protocol.Diagnostic{
			Range:    rangeOf(text, start, end),
			Severity: ptrSeverity(severity(d.Level)),
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   ptrString(diagnosticSource),
			Message:  message,
		})
	}
	return out
}

// DocumentDiagnostics computes the diagnostics published for a document.
func DocumentDiagnostics(result *instrument.Result) []protocol.Diagnostic {
	return ConvertDiagnostics(result.Source, diag.ForResult(result, true))
}

func severity(level diag.Level) protocol.DiagnosticSeverity {
	switch level {
	case diag.Error:
		return protocol.DiagnosticSeverityError
	case diag.Warning:
		return protocol.DiagnosticSeverityWarning
	case diag.Note:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
