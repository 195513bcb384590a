// Package workspace indexes the declarations of every script in the open
// workspace folders.
package workspace

import (
	"log"
	"sort"
	"strings"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
)

// SymbolLocation is one place a symbol is declared.
type SymbolLocation struct {
	Name          string
	Kind          protocol.SymbolKind
	Location      protocol.Location
	ContainerName string
	Detail        string
}

// SymbolIndex maps lower-cased names to their declarations across files.
// It is safe for concurrent use.
type SymbolIndex struct {
	symbols map[string][]SymbolLocation

	// files maps URIs to the lower-cased names they declare.
	files map[string][]string

	mutex sync.RWMutex
}

// NewSymbolIndex creates an empty index.
func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{
		symbols: make(map[string][]SymbolLocation),
		files:   make(map[string][]string),
	}
}

// AddSymbol records one declaration.
func (si *SymbolIndex) AddSymbol(loc SymbolLocation) {
	si.mutex.Lock()
	defer si.mutex.Unlock()
	si.add(loc)
}

func (si *SymbolIndex) add(loc SymbolLocation) {
	k := strings.ToLower(loc.Name)
	si.symbols[k] = append(si.symbols[k], loc)
	si.files[loc.Location.URI] = append(si.files[loc.Location.URI], k)
}

// IndexDeclarations replaces everything known about uri with decls. lines
// are the file's source lines, used to size name ranges.
func (si *SymbolIndex) IndexDeclarations(uri string, decls []ast.Declaration, lines []string) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.remove(uri)
	for _, d := range ast.Flatten(decls) {
		si.add(SymbolLocation{
			Name:     d.DeclName(),
			Kind:     SymbolKind(d),
			Location: protocol.Location{URI: uri, Range: NameRange(d, lines)},
			Detail:   Detail(d),
		})
		if class, ok := d.(*ast.ClassDecl); ok {
			for _, m := range class.Members {
				si.add(SymbolLocation{
					Name:          m.Name,
					Kind:          protocol.SymbolKindField,
					Location:      protocol.Location{URI: uri, Range: NameRange(m, lines)},
					ContainerName: class.Name,
					Detail:        Detail(m),
				})
			}
		}
	}
}

// FindSymbol returns every declaration of name, ignoring case.
func (si *SymbolIndex) FindSymbol(name string) []SymbolLocation {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	locations := si.symbols[strings.ToLower(name)]
	if len(locations) == 0 {
		return nil
	}
	return append([]SymbolLocation(nil), locations...)
}

// FindSymbolsInFile returns the declarations indexed for uri.
func (si *SymbolIndex) FindSymbolsInFile(uri string) []SymbolLocation {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	var result []SymbolLocation
	seen := make(map[string]bool)
	for _, k := range si.files[uri] {
		if seen[k] {
			continue
		}
		seen[k] = true
		for _, loc := range si.symbols[k] {
			if loc.Location.URI == uri {
				result = append(result, loc)
			}
		}
	}
	return result
}

// RemoveFile drops every declaration from uri.
func (si *SymbolIndex) RemoveFile(uri string) {
	si.mutex.Lock()
	defer si.mutex.Unlock()
	si.remove(uri)
}

func (si *SymbolIndex) remove(uri string) {
	names, ok := si.files[uri]
	if !ok {
		return
	}
	for _, k := range names {
		var remaining []SymbolLocation
		for _, loc := range si.symbols[k] {
			if loc.Location.URI != uri {
				remaining = append(remaining, loc)
			}
		}
		if len(remaining) > 0 {
			si.symbols[k] = remaining
		} else {
			delete(si.symbols, k)
		}
	}
	delete(si.files, uri)
}

// GetFileCount returns the number of indexed files.
func (si *SymbolIndex) GetFileCount() int {
	si.mutex.RLock()
	defer si.mutex.RUnlock()
	return len(si.files)
}

// GetSymbolCount returns the number of distinct names.
func (si *SymbolIndex) GetSymbolCount() int {
	si.mutex.RLock()
	defer si.mutex.RUnlock()
	return len(si.symbols)
}

// GetTotalLocationCount returns the number of declarations.
func (si *SymbolIndex) GetTotalLocationCount() int {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	count := 0
	for _, locations := range si.symbols {
		count += len(locations)
	}
	return count
}

// Clear empties the index.
func (si *SymbolIndex) Clear() {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.symbols = make(map[string][]SymbolLocation)
	si.files = make(map[string][]string)
	log.Println("Symbol index cleared")
}

// Search returns declarations whose name contains query, ignoring case.
// Prefix matches sort before other matches, then by name. maxResults <= 0
// means no limit.
func (si *SymbolIndex) Search(query string, maxResults int) []SymbolLocation {
	si.mutex.RLock()
	q := strings.ToLower(query)
	var results []SymbolLocation
	for k, locations := range si.symbols {
		if strings.Contains(k, q) {
			results = append(results, locations...)
		}
	}
	si.mutex.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(results[i].Name), q)
		pj := strings.HasPrefix(strings.ToLower(results[j].Name), q)
		if pi != pj {
			return pi
		}
		if results[i].Name != results[j].Name {
			return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
		}
		return results[i].Location.URI < results[j].Location.URI
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}
