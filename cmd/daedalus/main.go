package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/CWBudde/go-daedalus-lsp/internal/analysis"
	"github.com/CWBudde/go-daedalus-lsp/internal/compiler"
	"github.com/CWBudde/go-daedalus-lsp/internal/diag"
	"github.com/CWBudde/go-daedalus-lsp/internal/interp"
	"github.com/CWBudde/go-daedalus-lsp/internal/lexer"
	"github.com/CWBudde/go-daedalus-lsp/internal/workspace"
)

const version = "0.1.0"

func usage() {
	fmt.Fprintf(os.Stderr, "daedalus version %s\n\n", version)
	fmt.Fprintf(os.Stderr, "Usage: daedalus <command> [options] [paths]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  check    report diagnostics for scripts and directories\n")
	fmt.Fprintf(os.Stderr, "  tokens   print the token stream of one file\n")
	fmt.Fprintf(os.Stderr, "  symbols  list the global declarations of a project\n")
	fmt.Fprintf(os.Stderr, "  run      load a project and call a function\n")
	fmt.Fprintf(os.Stderr, "  repl     evaluate expressions against a loaded project\n")
	fmt.Fprintf(os.Stderr, "  version  print the version\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Compiler progress goes to stderr only when asked for.
	log.SetOutput(io.Discard)
	if os.Getenv("DAEDALUS_DEBUG") != "" {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "check":
		os.Exit(cmdCheck(args, os.Stdout, os.Stderr))
	case "tokens":
		os.Exit(cmdTokens(args, os.Stdout, os.Stderr))
	case "symbols":
		os.Exit(cmdSymbols(args, os.Stdout, os.Stderr))
	case "run":
		os.Exit(cmdRun(args, os.Stdout, os.Stderr))
	case "repl":
		os.Exit(cmdRepl(args))
	case "version":
		fmt.Printf("daedalus version %s\n", version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

// scriptPaths expands directories to the scripts below them. Files are kept
// as given, whatever their extension.
func scriptPaths(args []string) ([]string, error) {
	idx := workspace.NewIndexer(workspace.NewSymbolIndex(), nil)

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			paths = append(paths, idx.Collect([]string{arg})...)
			continue
		}
		paths = append(paths, arg)
	}
	return paths, nil
}

// loadProject compiles the scripts named by args.
func loadProject(args []string, workers int) (*compiler.Compiler, error) {
	paths, err := scriptPaths(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no script files given")
	}

	project := compiler.New(compiler.WithWorkers(workers))
	if err := project.Compile(paths); err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	if failed := project.Failures(); len(failed) > 0 {
		return nil, fmt.Errorf("read %s: %w", failed[0].Path, failed[0].Err)
	}
	return project, nil
}

func cmdCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	workers := fs.Int("workers", 0, "parallel parse workers (0: number of CPUs)")
	maxProblems := fs.Int("max-problems", 0, "stop after this many diagnostics per file (0: no limit)")
	known := fs.String("known", "", "comma-separated functions provided by the host")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	project, err := loadProject(fs.Args(), *workers)
	if err != nil {
		fmt.Fprintf(stderr, "daedalus: %v\n", err)
		return 1
	}

	var knownFunctions []string
	if *known != "" {
		knownFunctions = strings.Split(*known, ",")
	}
	external := make(map[string]bool, len(knownFunctions))
	for _, name := range knownFunctions {
		external[strings.ToLower(name)] = true
	}

	errorCount := 0
	for _, path := range project.Files() {
		res, _ := project.File(path)
		analyzed := analysis.AnalyzeFile(res, analysis.Options{
			Globals:        project,
			KnownFunctions: knownFunctions,
			External:       func(name string) bool { return external[strings.ToLower(name)] },
		})

		diags := analyzed.Diagnostics
		if *maxProblems > 0 && len(diags) > *maxProblems {
			diags = diags[:*maxProblems]
		}
		for _, d := range diags {
			fmt.Fprintln(stdout, d)
			if d.Severity == diag.SeverityError {
				errorCount++
			}
		}
	}

	if errorCount > 0 {
		fmt.Fprintf(stderr, "%d error(s) in %d file(s)\n", errorCount, len(project.Files()))
		return 1
	}
	return 0
}

func cmdTokens(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: daedalus tokens <file>")
		return 2
	}

	lines, err := compiler.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "daedalus: %v\n", err)
		return 1
	}
	for _, tok := range lexer.Tokenize(lines) {
		fmt.Fprintln(stdout, tok)
	}
	return 0
}

func cmdSymbols(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("symbols", flag.ContinueOnError)
	fs.SetOutput(stderr)
	workers := fs.Int("workers", 0, "parallel parse workers (0: number of CPUs)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	project, err := loadProject(fs.Args(), *workers)
	if err != nil {
		fmt.Fprintf(stderr, "daedalus: %v\n", err)
		return 1
	}

	for _, name := range project.Symbols().Globals() {
		d, _ := project.Global(name)
		pos := d.Pos()
		fmt.Fprintf(stdout, "%s:%d:%d\t%s\n", filepath.ToSlash(d.File()), pos.Line, pos.Column, workspace.Detail(d))
	}
	return 0
}

func cmdRun(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	entry := fs.String("entry", "Startup", "function to call")
	workers := fs.Int("workers", 0, "parallel parse workers (0: number of CPUs)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	in, err := loadInterpreter(fs.Args(), *workers, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "daedalus: %v\n", err)
		return 1
	}

	v, err := in.CallFunction(*entry)
	if err != nil {
		var rt *interp.RuntimeError
		if errors.As(err, &rt) {
			fmt.Fprintf(stderr, "runtime error: %v\n", rt)
		} else {
			fmt.Fprintf(stderr, "daedalus: %v\n", err)
		}
		return 1
	}
	if v != nil {
		fmt.Fprintln(stdout, interp.FormatValue(v))
	}
	return 0
}

// loadInterpreter compiles the project, refuses it on syntax or semantic
// errors and loads its declarations.
func loadInterpreter(args []string, workers int, out io.Writer) (*interp.Interpreter, error) {
	project, err := loadProject(args, workers)
	if err != nil {
		return nil, err
	}

	for _, path := range project.Files() {
		res, _ := project.File(path)
		if len(res.Errors) > 0 {
			return nil, fmt.Errorf("%s: %w", path, res.Errors[0])
		}
	}

	in := interp.New(interp.WithOutput(out))
	if err := in.LoadDeclarations(project.Declarations()); err != nil {
		return nil, err
	}
	for _, d := range in.SemanticCheck() {
		if d.Severity == diag.SeverityError {
			return nil, errors.New(d.String())
		}
	}
	return in, nil
}
