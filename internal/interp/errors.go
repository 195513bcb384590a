package interp

import (
	"fmt"
	"strings"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
)

// Duplicate is one name declared more than once.
type Duplicate struct {
	Name  string
	First ast.Position
	Again ast.Position
}

// LoadError aggregates every duplicate found while loading declarations.
type LoadError struct {
	Duplicates []Duplicate
}

func (e *LoadError) Error() string {
	parts := make([]string, len(e.Duplicates))
	for i, d := range e.Duplicates {
		parts[i] = fmt.Sprintf("%s at %s (first at %s)", d.Name, d.Again, d.First)
	}
	return "duplicate declarations: " + strings.Join(parts, ", ")
}

// RuntimeError is a failure while evaluating script code.
type RuntimeError struct {
	Pos   ast.Position
	Msg   string
	Stack []string
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, "%s: ", e.Pos)
	}
	b.WriteString(e.Msg)
	if len(e.Stack) > 0 {
		fmt.Fprintf(&b, " (in %s)", strings.Join(e.Stack, " <- "))
	}
	return b.String()
}
