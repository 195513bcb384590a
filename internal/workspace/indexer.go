package workspace

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/CWBudde/go-daedalus-lsp/internal/compiler"
	"github.com/CWBudde/go-daedalus-lsp/internal/document"
)

// ScriptExtension is the file extension of Daedalus sources.
const ScriptExtension = ".d"

// Indexer finds the scripts of the workspace folders, compiles them as one
// project and fills a SymbolIndex from the result.
type Indexer struct {
	index    *SymbolIndex
	compiler *compiler.Compiler
	maxDepth int
	maxFiles int
}

// NewIndexer creates an indexer feeding index from c.
func NewIndexer(index *SymbolIndex, c *compiler.Compiler) *Indexer {
	return &Indexer{
		index:    index,
		compiler: c,
		maxDepth: 10,
		maxFiles: 10000,
	}
}

// Collect returns the script files below the folders in directory order.
// Hidden and build directories are skipped.
func (idx *Indexer) Collect(folders []string) []string {
	var paths []string
	for _, folder := range folders {
		paths = idx.collectDirectory(folder, 0, paths)
	}
	return paths
}

func (idx *Indexer) collectDirectory(dir string, depth int, paths []string) []string {
	if depth > idx.maxDepth || len(paths) >= idx.maxFiles {
		return paths
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return paths
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		full := filepath.Join(dir, name)
		if entry.IsDir() {
			switch strings.ToLower(name) {
			case "node_modules", "vendor", "bin", "obj", "dist", "build", "out", "_work":
				continue
			}
			paths = idx.collectDirectory(full, depth+1, paths)
			continue
		}

		if !strings.EqualFold(filepath.Ext(name), ScriptExtension) {
			continue
		}
		if len(paths) >= idx.maxFiles {
			break
		}
		paths = append(paths, full)
	}
	return paths
}

// BuildWorkspaceIndex compiles every script below the folders and replaces
// the index contents. It returns compiler.ErrBusy when a compile is already
// running.
func (idx *Indexer) BuildWorkspaceIndex(folders []string) error {
	if len(folders) == 0 {
		log.Println("No workspace folders to index")
		return nil
	}

	paths := idx.Collect(folders)
	log.Printf("Indexing %d script files in %d folders\n", len(paths), len(folders))

	if err := idx.compiler.Compile(paths); err != nil {
		return err
	}

	idx.index.Clear()
	for _, path := range idx.compiler.Files() {
		res, ok := idx.compiler.File(path)
		if !ok || res.Err != nil {
			continue
		}
		idx.index.IndexDeclarations(document.PathToURI(path), res.Declarations, res.Lines)
	}

	for _, res := range idx.compiler.Failures() {
		log.Printf("Warning: Skipped %s: %v\n", res.Path, res.Err)
	}
	log.Printf("Workspace indexing complete. Indexed %d files, %d symbols\n",
		idx.index.GetFileCount(), idx.index.GetTotalLocationCount())
	return nil
}

// IndexWorkspaceAsync runs BuildWorkspaceIndex in the background. done, if
// not nil, receives the outcome.
func IndexWorkspaceAsync(idx *Indexer, folders []string, done func(error)) {
	go func() {
		err := idx.BuildWorkspaceIndex(folders)
		if errors.Is(err, compiler.ErrBusy) {
			log.Println("Workspace indexing skipped: compiler busy")
		} else if err != nil {
			log.Printf("Workspace indexing failed: %v\n", err)
		}
		if done != nil {
			done(err)
		}
	}()
}
