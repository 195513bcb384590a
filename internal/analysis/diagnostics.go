package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/diag"
	"github.com/CWBudde/go-daedalus-lsp/internal/document"
)

// DiagnosticSource is the source name shown next to published diagnostics.
const DiagnosticSource = "daedalus"

// ToProtocol converts diagnostics to LSP diagnostics. Ranges cover the
// diagnostic's hint, or one character when it has none. At most maxProblems
// diagnostics are returned; maxProblems <= 0 means no limit.
func ToProtocol(diags []diag.Diagnostic, lines []string, maxProblems int) []protocol.Diagnostic {
	if maxProblems > 0 && len(diags) > maxProblems {
		diags = diags[:maxProblems]
	}

	out := make([]protocol.Diagnostic, 0, len(diags))
	source := DiagnosticSource

	for _, d := range diags {
		severity := toSeverity(d.Severity)
		code := protocol.IntegerOrString{Value: string(d.Category)}

		pd := protocol.Diagnostic{
			Range:    diagnosticRange(d, lines),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  d.Message,
		}
		if d.Category == diag.CategoryUnused {
			pd.Tags = []protocol.DiagnosticTag{protocol.DiagnosticTagUnnecessary}
		}
		out = append(out, pd)
	}

	return out
}

func diagnosticRange(d diag.Diagnostic, lines []string) protocol.Range {
	line := ""
	if d.Line >= 1 && d.Line <= len(lines) {
		line = lines[d.Line-1]
	}

	lspLine := uint32(0)
	if d.Line > 0 {
		lspLine = uint32(d.Line - 1)
	}
	start := document.RuneToUTF16(line, d.Column)
	length := max(document.UTF16Len(d.Hint), 1)

	return protocol.Range{
		Start: protocol.Position{Line: lspLine, Character: start},
		End:   protocol.Position{Line: lspLine, Character: start + uint32(length)},
	}
}

func toSeverity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.SeverityError:
		return protocol.DiagnosticSeverityError
	case diag.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case diag.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	}
	return protocol.DiagnosticSeverityHint
}
