// Package compiler drives the lexer and parser over a set of files and merges
// the results into one project-wide symbol table.
package compiler

import (
	"errors"
	"log"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/lexer"
	"github.com/CWBudde/go-daedalus-lsp/internal/parser"
	"github.com/CWBudde/go-daedalus-lsp/internal/symbols"
	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

// ErrBusy is returned when a compilation is requested while another one is
// still running. The request is dropped, not queued.
var ErrBusy = errors.New("compilation already in progress")

// State is the compiler's lifecycle state.
type State int32

const (
	Idle State = iota
	Compiling
)

func (s State) String() string {
	if s == Compiling {
		return "compiling"
	}
	return "idle"
}

// Reader loads a file as source lines.
type Reader func(path string) ([]string, error)

// FileResult is the outcome of lexing and parsing one file. Err is set when
// the file could not be read; syntax errors go to Errors.
type FileResult struct {
	Path         string
	Lines        []string
	Tokens       []token.Token
	Declarations []ast.Declaration
	Errors       []*parser.Error
	Err          error
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithReader replaces the file reader, e.g. to serve open editor buffers.
func WithReader(r Reader) Option {
	return func(c *Compiler) { c.read = r }
}

// WithWorkers bounds the number of files lexed and parsed concurrently.
func WithWorkers(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// Compiler owns the project state: the symbol table, the merged declaration
// list and the per-file results. Readers may query it concurrently with a
// running compilation; at most one compilation runs at a time.
type Compiler struct {
	state   atomic.Int32
	idleMu  sync.Mutex
	idle    *sync.Cond
	read    Reader
	workers int

	mu      sync.RWMutex
	symbols *symbols.Table
	decls   []ast.Declaration
	files   map[string]*FileResult
	order   []string
}

// New creates an idle compiler with an empty project.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		read:    ReadFile,
		workers: runtime.NumCPU(),
		symbols: symbols.New(),
		files:   make(map[string]*FileResult),
	}
	c.idle = sync.NewCond(&c.idleMu)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Compiler) State() State {
	return State(c.state.Load())
}

func (c *Compiler) begin() error {
	if !c.state.CompareAndSwap(int32(Idle), int32(Compiling)) {
		return ErrBusy
	}
	return nil
}

func (c *Compiler) end() {
	c.idleMu.Lock()
	c.state.Store(int32(Idle))
	c.idleMu.Unlock()
	c.idle.Broadcast()
}

// Wait blocks until no compilation is running. A compilation may start again
// as soon as Wait returns.
func (c *Compiler) Wait() {
	c.idleMu.Lock()
	defer c.idleMu.Unlock()
	for c.State() == Compiling {
		c.idle.Wait()
	}
}

// Compile rebuilds the project from paths. Files are lexed and parsed in
// parallel; the merge into the symbol table happens afterwards on the calling
// goroutine, in input order. A file that cannot be read is recorded in its
// FileResult and does not stop the others.
func (c *Compiler) Compile(paths []string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	results := c.processAll(paths)

	table := symbols.New()
	files := make(map[string]*FileResult, len(results))
	order := make([]string, 0, len(results))
	var decls []ast.Declaration

	for _, res := range results {
		if res.Err != nil {
			log.Printf("Warning: Could not compile %s: %v\n", res.Path, res.Err)
		}
		if _, dup := files[res.Path]; !dup {
			order = append(order, res.Path)
		}
		files[res.Path] = res
		for _, d := range res.Declarations {
			table.Register(d.DeclName(), d)
		}
		decls = append(decls, res.Declarations...)
	}

	c.mu.Lock()
	c.symbols = table
	c.decls = decls
	c.files = files
	c.order = order
	c.mu.Unlock()

	log.Printf("Compiled %d files, %d declarations, %d symbols\n", len(order), len(decls), table.Len())
	return nil
}

// CompileSingleFile re-reads one file and replaces its previous contribution
// to the project.
func (c *Compiler) CompileSingleFile(path string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	res := c.process(path)
	c.replace(res)
	return res.Err
}

// CompileSource replaces one file's contribution using lines supplied by the
// caller instead of the file on disk.
func (c *Compiler) CompileSource(path string, lines []string) error {
	return c.CompileResult(Build(path, lines))
}

// CompileResult replaces one file's contribution with a result the caller
// already built, e.g. for a document it analyzes itself.
func (c *Compiler) CompileResult(res *FileResult) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	c.replace(res)
	return nil
}

// Build lexes and parses one file's lines and stamps the resulting
// declarations with path. It touches no compiler state.
func Build(path string, lines []string) *FileResult {
	tokens := lexer.Tokenize(lines)
	decls, errs := parser.Parse(tokens)
	ast.SetFile(decls, path)

	return &FileResult{
		Path:         path,
		Lines:        lines,
		Tokens:       tokens,
		Declarations: ast.Flatten(decls),
		Errors:       errs,
	}
}

func (c *Compiler) process(path string) *FileResult {
	lines, err := c.read(path)
	if err != nil {
		return &FileResult{Path: path, Err: err}
	}
	return Build(path, lines)
}

// processAll fans the files out over a bounded pool of workers. Results keep
// the order of paths.
func (c *Compiler) processAll(paths []string) []*FileResult {
	results := make([]*FileResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(c.workers, len(paths)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.process(paths[i])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// replace swaps in one file's result and rebuilds the table and declaration
// list from every file in compile order, so a global that several files
// declare resolves exactly as after a full Compile.
func (c *Compiler) replace(res *FileResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, known := c.files[res.Path]; !known {
		c.order = append(c.order, res.Path)
	}
	c.files[res.Path] = res

	table := symbols.New()
	decls := make([]ast.Declaration, 0, len(c.decls)+len(res.Declarations))
	for _, path := range c.order {
		for _, d := range c.files[path].Declarations {
			table.Register(d.DeclName(), d)
		}
		decls = append(decls, c.files[path].Declarations...)
	}
	c.symbols = table
	c.decls = decls
}

// Forget removes a file from the project.
func (c *Compiler) Forget(path string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	c.replace(&FileResult{Path: path})

	c.mu.Lock()
	delete(c.files, path)
	for i, p := range c.order {
		if p == path {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// Symbols returns the project symbol table. Callers must not mutate it.
func (c *Compiler) Symbols() *symbols.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.symbols
}

// Global resolves a global name in the project.
func (c *Compiler) Global(name string) (ast.Declaration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.symbols.Global(name)
}

// Declarations returns the flattened declarations of all files in compile
// order.
func (c *Compiler) Declarations() []ast.Declaration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ast.Declaration(nil), c.decls...)
}

// File returns the result for one file.
func (c *Compiler) File(path string) (*FileResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.files[path]
	return res, ok
}

// Files returns the compiled file paths in compile order.
func (c *Compiler) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Failures returns the files that could not be read, sorted by path.
func (c *Compiler) Failures() []*FileResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*FileResult
	for _, res := range c.files {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
