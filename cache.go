package fparser

import (
	"crypto/sha256"
	"log/slog"
	"sync"

	"github.com/soypat/go-fparser/ast"
)

// Cache memoizes parsed files by source name, content and the options that
// shape the tree: mode, comment keeping and registry. It is safe
// for concurrent use. Cached trees are shared and must not be modified.
type Cache struct {
	// Logger receives the cache hit notices. Nil uses [slog.Default].
	Logger *slog.Logger

	mu      sync.Mutex
	entries map[cacheKey]*ast.File
}

type cacheKey struct {
	source string
	sum    [sha256.Size]byte
	mode   Mode
	// Comments become nodes only with KeepComments.
	keepComments bool
	reg          *Registry
}

// Parse returns the cached tree for src or parses and caches it. Failed
// parses are not cached.
func (c *Cache) Parse(src string, opts Options) (*ast.File, error) {
	key := cacheKey{
		source:       opts.Source,
		sum:          sha256.Sum256([]byte(src)),
		mode:         opts.Mode,
		keepComments: opts.KeepComments,
		reg:          opts.Registry,
	}
	c.mu.Lock()
	file, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		logger := c.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Info("using cached " + opts.Source)
		return file, nil
	}
	file, err := Parse(src, opts)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[cacheKey]*ast.File)
	}
	c.entries[key] = file
	c.mu.Unlock()
	return file, nil
}

// Len returns the number of cached trees.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
