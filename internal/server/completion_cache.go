package server

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CompletionCache keeps the unfiltered completion items of each document for
// the version they were built from.
type CompletionCache struct {
	entries map[string]completionEntry
	mu      sync.RWMutex
}

type completionEntry struct {
	version int
	items   []protocol.CompletionItem
}

// NewCompletionCache creates an empty cache.
func NewCompletionCache() *CompletionCache {
	return &CompletionCache{entries: make(map[string]completionEntry)}
}

// Get returns the cached items for uri, or false when none are cached for
// version.
func (c *CompletionCache) Get(uri string, version int) ([]protocol.CompletionItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[uri]
	if !ok || e.version != version {
		return nil, false
	}
	return e.items, true
}

// Set caches items for uri at version.
func (c *CompletionCache) Set(uri string, version int, items []protocol.CompletionItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[uri] = completionEntry{version: version, items: items}
}

// InvalidateDocument drops the cache for uri.
func (c *CompletionCache) InvalidateDocument(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, uri)
}

// Clear drops every cached entry. Project-wide changes such as a workspace
// compile make all entries stale.
func (c *CompletionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]completionEntry)
}
