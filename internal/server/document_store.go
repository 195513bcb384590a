package server

import (
	"sync"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/lint"
	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

// Document represents an open document in the workspace together with the
// results of its last analysis.
type Document struct {
	URI        string
	Path       string
	Text       string
	Version    int
	LanguageID string

	Lines        []string
	Tokens       []token.Token
	Declarations []ast.Declaration
	Highlights   []lint.Highlight
}

// DocumentStore manages all open documents.
type DocumentStore struct {
	documents map[string]*Document
	paths     map[string]string
	mu        sync.RWMutex
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
		paths:     make(map[string]string),
	}
}

// Set stores or updates a document.
func (ds *DocumentStore) Set(uri string, doc *Document) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if old, ok := ds.documents[uri]; ok && old.Path != "" {
		delete(ds.paths, old.Path)
	}
	ds.documents[uri] = doc
	if doc.Path != "" {
		ds.paths[doc.Path] = uri
	}
}

// Get retrieves a document by URI.
func (ds *DocumentStore) Get(uri string) (*Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]
	return doc, ok
}

// GetByPath retrieves an open document by its file path.
func (ds *DocumentStore) GetByPath(path string) (*Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	uri, ok := ds.paths[path]
	if !ok {
		return nil, false
	}
	doc, ok := ds.documents[uri]
	return doc, ok
}

// Delete removes a document from the store.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if doc, ok := ds.documents[uri]; ok && doc.Path != "" {
		delete(ds.paths, doc.Path)
	}
	delete(ds.documents, uri)
}

// List returns all document URIs.
func (ds *DocumentStore) List() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	uris := make([]string, 0, len(ds.documents))
	for uri := range ds.documents {
		uris = append(uris, uri)
	}
	return uris
}

// Clear removes all documents from the store.
func (ds *DocumentStore) Clear() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents = make(map[string]*Document)
	ds.paths = make(map[string]string)
}
