package parser

import (
	"strconv"

	"github.com/CWBudde/go-daedalus-lsp/internal/diag"
)

// Diagnostics converts parse errors into syntax diagnostics. The hint is the
// offending token text, empty at end of file.
func Diagnostics(errs []*Error) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(errs))
	for _, e := range errs {
		hint, err := strconv.Unquote(e.Found)
		if err != nil {
			hint = ""
		}
		out = append(out, diag.Errorf(diag.CategorySyntax, e.Line, e.Column, hint,
			"expected %s, found %s", e.Expected, e.Found))
	}
	return out
}
