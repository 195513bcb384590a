package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/CWBudde/go-daedalus-lsp/internal/compiler"
	"github.com/CWBudde/go-daedalus-lsp/internal/diag"
	"github.com/CWBudde/go-daedalus-lsp/internal/interp"
	"github.com/CWBudde/go-daedalus-lsp/internal/lexer"
	"github.com/CWBudde/go-daedalus-lsp/internal/parser"
	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

const (
	historyFile = ".daedalus_history"
	promptMain  = "d> "
	promptCont  = ".. "
)

func cmdRepl(args []string) int {
	in := interp.New()
	if len(args) > 0 {
		loaded, err := loadInterpreter(args, 0, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "daedalus: %v\n", err)
			return 1
		}
		in = loaded
	}

	fmt.Printf("Daedalus %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Println()
			return 0
		}

		switch strings.ToLower(strings.TrimSpace(src)) {
		case "":
			continue
		case ":quit":
			return 0
		case ":functions":
			fmt.Println(strings.Join(in.Functions(), "\n"))
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		out, err := evalInput(in, src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

// readInput reads lines until braces balance. It reports false at end of
// input.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if braceDepth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

func braceDepth(src string) int {
	depth := 0
	for _, tok := range lexer.Tokenize(compiler.SplitLines(src)) {
		switch tok.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
	}
	return depth
}

// evalInput loads src as declarations when it starts with a declaration
// keyword and evaluates it as an expression otherwise.
func evalInput(in *interp.Interpreter, src string) (string, error) {
	lines := compiler.SplitLines(src)
	tokens := lexer.Tokenize(lines)

	if first := firstCode(tokens); first.Kind.IsTopLevelStart() {
		res := compiler.Build("<repl>", lines)
		if len(res.Errors) > 0 {
			return "", res.Errors[0]
		}
		if err := in.LoadDeclarations(res.Declarations); err != nil {
			return "", err
		}
		for _, d := range in.SemanticCheck() {
			if d.Severity == diag.SeverityError {
				return "", errors.New(d.String())
			}
		}
		return fmt.Sprintf("loaded %d declaration(s)", len(res.Declarations)), nil
	}

	expr, err := parser.ParseExpression(tokens)
	if err != nil {
		return "", err
	}
	v, err := in.Eval(expr)
	if err != nil {
		return "", err
	}
	return interp.FormatValue(v), nil
}

func firstCode(tokens []token.Token) token.Token {
	for _, tok := range tokens {
		if tok.Kind != token.Comment {
			return tok
		}
	}
	return token.Token{Kind: token.EOF}
}
