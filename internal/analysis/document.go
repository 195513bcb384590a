// Package analysis turns Daedalus source into the data the language server
// publishes: diagnostics, semantic tokens, document symbols, completion items
// and hover text.
package analysis

import (
	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/compiler"
	"github.com/CWBudde/go-daedalus-lsp/internal/diag"
	"github.com/CWBudde/go-daedalus-lsp/internal/lint"
	"github.com/CWBudde/go-daedalus-lsp/internal/parser"
	"github.com/CWBudde/go-daedalus-lsp/internal/semantic"
	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

// Options configures Analyze.
type Options struct {
	// Globals resolves names declared in other project files.
	Globals semantic.Globals
	// KnownFunctions replaces the linter's allow-list when non-empty.
	KnownFunctions []string
	// External reports names provided by the engine.
	External func(name string) bool
}

// Result is everything derived from one analysis of a document.
type Result struct {
	Lines        []string
	Tokens       []token.Token
	Declarations []ast.Declaration
	Diagnostics  []diag.Diagnostic
	Highlights   []lint.Highlight
}

// Analyze lexes, parses, checks and lints text. Diagnostics of all passes
// are merged and sorted by position.
func Analyze(path, text string, opts Options) *Result {
	return AnalyzeFile(compiler.Build(path, compiler.SplitLines(text)), opts)
}

// AnalyzeFile checks and lints a file that is already lexed and parsed.
func AnalyzeFile(file *compiler.FileResult, opts Options) *Result {
	diags := parser.Diagnostics(file.Errors)

	var semOpts []semantic.Option
	if opts.Globals != nil {
		semOpts = append(semOpts, semantic.WithGlobals(opts.Globals))
	}
	if opts.External != nil {
		semOpts = append(semOpts, semantic.WithExternal(opts.External))
	}
	diags = append(diags, semantic.Analyze(file.Declarations, semOpts...)...)

	var lintOpts []lint.Option
	if len(opts.KnownFunctions) > 0 {
		lintOpts = append(lintOpts, lint.WithKnownFunctions(opts.KnownFunctions))
	}
	linted := lint.New(lintOpts...).Lint(file.Declarations)
	diags = append(diags, linted.Diagnostics...)

	diag.Sort(diags)

	return &Result{
		Lines:        file.Lines,
		Tokens:       file.Tokens,
		Declarations: file.Declarations,
		Diagnostics:  diag.WithFile(diags, file.Path),
		Highlights:   linted.Highlights,
	}
}
