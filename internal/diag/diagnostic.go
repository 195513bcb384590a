// Package diag defines the diagnostic record every analysis pass produces.
package diag

import (
	"fmt"
	"sort"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Category is a stable identifier of what the diagnostic is about.
type Category string

const (
	CategorySyntax       Category = "syntax"
	CategoryDuplicate    Category = "duplicate"
	CategoryUndeclared   Category = "undeclared"
	CategoryTypeMismatch Category = "type-mismatch"
	CategoryUnused       Category = "unused"
	CategoryRedundant    Category = "redundant"
	CategoryStyle        Category = "style"
	CategorySemantic     Category = "semantic"
)

// Diagnostic is a positioned message. Line and Column are 1-based. Hint is
// the source text the diagnostic is about, usable to size a highlight.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	Severity Severity
	Category Category
	Message  string
	Hint     string
}

func (d Diagnostic) String() string {
	file := d.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", file, d.Line, d.Column, d.Severity, d.Message)
}

// Errorf builds an error-severity diagnostic.
func Errorf(cat Category, line, col int, hint, format string, args ...any) Diagnostic {
	return Diagnostic{
		Line:     line,
		Column:   col,
		Severity: SeverityError,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Hint:     hint,
	}
}

// Warnf builds a warning-severity diagnostic.
func Warnf(cat Category, line, col int, hint, format string, args ...any) Diagnostic {
	d := Errorf(cat, line, col, hint, format, args...)
	d.Severity = SeverityWarning
	return d
}

// Sort orders diagnostics by line, then column. The sort is stable so
// diagnostics at the same position keep their production order.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Column < diags[j].Column
	})
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// WithFile stamps file onto every diagnostic that has none.
func WithFile(diags []Diagnostic, file string) []Diagnostic {
	for i := range diags {
		if diags[i].File == "" {
			diags[i].File = file
		}
	}
	return diags
}
