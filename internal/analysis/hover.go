package analysis

import (
	"fmt"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/builtins"
	"github.com/CWBudde/go-daedalus-lsp/internal/document"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
	"github.com/CWBudde/go-daedalus-lsp/internal/workspace"
)

// Target is what the identifier under the cursor refers to. Exactly one of
// Decl and Builtin is set for resolved names; both are nil for engine
// constants, which are only known by name.
type Target struct {
	Word    string
	Range   protocol.Range
	Decl    ast.Declaration
	Builtin *builtins.Signature
}

// Resolve finds the identifier at the 0-based position and resolves it.
// Lookup order: members after a dot, parameters and locals of the enclosing
// function, file declarations, project declarations, class members, engine
// names.
func Resolve(doc *server.Document, project []ast.Declaration, line, character uint32) (*Target, bool) {
	if doc == nil || int(line) >= len(doc.Lines) {
		return nil, false
	}

	text := doc.Lines[line]
	word, col := document.WordAt(text, character)
	if word == "" {
		return nil, false
	}

	pos := ast.Position{Line: int(line) + 1, Column: col}
	target := &Target{
		Word:  word,
		Range: workspace.IdentRange(pos, word, doc.Lines),
	}

	if afterDot(text, col) {
		if m := findMember(doc.Declarations, project, word); m != nil {
			target.Decl = m
			return target, true
		}
	}
	if fn := enclosingFunction(doc.Declarations, pos.Line); fn != nil {
		if d := findLocal(fn, word); d != nil {
			target.Decl = d
			return target, true
		}
	}
	if d := findDecl(doc.Declarations, word); d != nil {
		target.Decl = d
		return target, true
	}
	if d := findDecl(project, word); d != nil {
		target.Decl = d
		return target, true
	}
	if m := findMember(doc.Declarations, project, word); m != nil {
		target.Decl = m
		return target, true
	}
	if sig := builtins.GetBuiltinSignature(word); sig != nil {
		target.Builtin = sig
		return target, true
	}
	for _, name := range builtins.EngineNames() {
		if strings.EqualFold(name, word) {
			target.Word = name
			return target, true
		}
	}

	return nil, false
}

// Hover renders markdown for the identifier at the 0-based position.
func Hover(doc *server.Document, project []ast.Declaration, line, character uint32) *protocol.Hover {
	target, ok := Resolve(doc, project, line, character)
	if !ok {
		return nil
	}

	var b strings.Builder
	switch {
	case target.Decl != nil:
		fmt.Fprintf(&b, "```daedalus\n%s\n```", workspace.Detail(target.Decl))
		if file := target.Decl.File(); file != "" {
			fmt.Fprintf(&b, "\n\nDeclared in `%s` line %d", filepath.Base(file), target.Decl.Pos().Line)
		}
	case target.Builtin != nil:
		fmt.Fprintf(&b, "```daedalus\n%s\n```", target.Builtin.Label())
		if target.Builtin.Documentation != "" {
			b.WriteString("\n\n" + target.Builtin.Documentation)
		}
		b.WriteString("\n\n*engine function*")
	default:
		fmt.Fprintf(&b, "```daedalus\n%s\n```\n\n*engine constant*", target.Word)
	}

	rng := target.Range
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
		Range: &rng,
	}
}

func afterDot(line string, col int) bool {
	runes := []rune(line)
	i := col - 2
	for i >= 0 && (runes[i] == ' ' || runes[i] == '\t') {
		i--
	}
	return i >= 0 && runes[i] == '.'
}

// enclosingFunction returns the function owning line: the last top-level
// declaration starting at or before line, if that is a function.
// Declarations do not nest, so nothing else can own the line.
func enclosingFunction(decls []ast.Declaration, line int) *ast.FunctionDecl {
	var last ast.Declaration
	for _, d := range ast.Flatten(decls) {
		if d.Pos().Line <= line && (last == nil || d.Pos().Line >= last.Pos().Line) {
			last = d
		}
	}
	fn, _ := last.(*ast.FunctionDecl)
	return fn
}

func findLocal(fn *ast.FunctionDecl, name string) ast.Declaration {
	for _, p := range fn.Params {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	for _, d := range ast.Locals(fn.Body) {
		if strings.EqualFold(d.DeclName(), name) {
			return d
		}
	}
	return nil
}

func findDecl(decls []ast.Declaration, name string) ast.Declaration {
	for _, d := range ast.Flatten(decls) {
		if strings.EqualFold(d.DeclName(), name) {
			return d
		}
	}
	return nil
}

func findMember(file, project []ast.Declaration, name string) ast.Declaration {
	for _, decls := range [][]ast.Declaration{file, project} {
		for _, d := range ast.Flatten(decls) {
			if class, ok := d.(*ast.ClassDecl); ok {
				if m := class.Member(name); m != nil {
					return m
				}
			}
		}
	}
	return nil
}
