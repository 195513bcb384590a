package server

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CachedTokens is the encoded semantic token data of one document version.
type CachedTokens struct {
	ResultID string
	Version  int
	Data     []uint32
}

// SemanticTokensCache keeps the last encoded tokens per document so repeated
// requests for an unchanged version are not recomputed.
type SemanticTokensCache struct {
	cache map[protocol.DocumentUri]*CachedTokens
	mu    sync.RWMutex
}

// NewSemanticTokensCache creates an empty cache.
func NewSemanticTokensCache() *SemanticTokensCache {
	return &SemanticTokensCache{cache: make(map[protocol.DocumentUri]*CachedTokens)}
}

// GenerateResultID derives a result identifier from the URI, version and data.
func GenerateResultID(uri protocol.DocumentUri, version int, data []uint32) string {
	hash := sha256.New()
	fmt.Fprintf(hash, "%s:%d:%v", uri, version, data)
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// Store caches data for uri at version and returns its result ID.
func (c *SemanticTokensCache) Store(uri protocol.DocumentUri, version int, data []uint32) string {
	id := GenerateResultID(uri, version, data)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[uri] = &CachedTokens{ResultID: id, Version: version, Data: data}
	return id
}

// Retrieve returns the cached tokens for uri when they were built from version.
func (c *SemanticTokensCache) Retrieve(uri protocol.DocumentUri, version int) (*CachedTokens, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.cache[uri]
	if !ok || cached.Version != version {
		return nil, false
	}
	return cached, true
}

// InvalidateDocument removes the cached tokens for uri.
func (c *SemanticTokensCache) InvalidateDocument(uri protocol.DocumentUri) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, uri)
}

// Clear removes all cached tokens.
func (c *SemanticTokensCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[protocol.DocumentUri]*CachedTokens)
}

// Size returns the number of cached documents.
func (c *SemanticTokensCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
