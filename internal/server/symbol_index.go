package server

import (
	"sort"
	"strings"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/workspace"
)

// SymbolIndex records where each name occurs, declarations included, per
// document. Names are matched case-insensitively.
type SymbolIndex struct {
	mu         sync.RWMutex
	references map[string]map[string][]protocol.Range
}

// NewSymbolIndex creates an empty index.
func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{
		references: make(map[string]map[string][]protocol.Range),
	}
}

// UpdateDocument replaces the occurrences recorded for doc.
func (si *SymbolIndex) UpdateDocument(doc *Document) {
	if doc == nil {
		return
	}
	si.Update(doc.URI, doc.Declarations, doc.Lines)
}

// Update replaces the occurrences recorded for uri with those in decls.
func (si *SymbolIndex) Update(uri string, decls []ast.Declaration, lines []string) {
	ranges := collectReferences(decls, lines)

	si.mu.Lock()
	defer si.mu.Unlock()

	si.remove(uri)
	for name, list := range ranges {
		if si.references[name] == nil {
			si.references[name] = make(map[string][]protocol.Range)
		}
		si.references[name][uri] = list
	}
}

// RemoveDocument drops every occurrence recorded for uri.
func (si *SymbolIndex) RemoveDocument(uri string) {
	if uri == "" {
		return
	}
	si.mu.Lock()
	defer si.mu.Unlock()
	si.remove(uri)
}

func (si *SymbolIndex) remove(uri string) {
	for name, uris := range si.references {
		if _, ok := uris[uri]; ok {
			delete(uris, uri)
			if len(uris) == 0 {
				delete(si.references, name)
			}
		}
	}
}

// FindReferences returns every occurrence of name, sorted by URI and position.
func (si *SymbolIndex) FindReferences(name string) []protocol.Location {
	if name == "" {
		return nil
	}

	si.mu.RLock()
	var locations []protocol.Location
	for uri, ranges := range si.references[strings.ToLower(name)] {
		for _, r := range ranges {
			locations = append(locations, protocol.Location{URI: uri, Range: r})
		}
	}
	si.mu.RUnlock()

	sort.Slice(locations, func(i, j int) bool {
		a, b := locations[i], locations[j]
		if a.URI != b.URI {
			return a.URI < b.URI
		}
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line < b.Range.Start.Line
		}
		return a.Range.Start.Character < b.Range.Start.Character
	})
	return locations
}

// collectReferences gathers declaration names, identifiers and plain call
// targets keyed by lower-cased name.
func collectReferences(decls []ast.Declaration, lines []string) map[string][]protocol.Range {
	result := make(map[string][]protocol.Range)

	// Instances declared together share one body; count it once.
	seen := make(map[ast.Position]bool)
	add := func(pos ast.Position, name string) {
		if !pos.IsValid() || name == "" || seen[pos] {
			return
		}
		seen[pos] = true
		k := strings.ToLower(name)
		result[k] = append(result[k], workspace.IdentRange(pos, name, lines))
	}

	for _, d := range decls {
		ast.Inspect(d, func(node ast.Node) bool {
			switch n := node.(type) {
			case *ast.MultiDecl:
			case ast.Declaration:
				add(n.Pos(), n.DeclName())
			case *ast.Ident:
				add(n.Pos(), n.Name)
			case *ast.CallExpr:
				if !strings.Contains(n.Callee, ".") {
					add(n.Pos(), n.Callee)
				}
			}
			return true
		})
	}
	return result
}
