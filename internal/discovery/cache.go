// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/markoverano/npm-command-runner/pkg/manifest"
)

// DefaultCacheSize is the number of (start path, options) results kept.
const DefaultCacheSize = 256

// resultCache holds scored discovery results. Entries are stored and served
// as deep copies so no caller can mutate a cached result. The cache is only
// ever invalidated in full.
type resultCache struct {
	entries *lru.Cache[string, Result]
}

func newResultCache(size int) (*resultCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, Result](size)
	if err != nil {
		return nil, fmt.Errorf("create discovery cache: %w", err)
	}
	return &resultCache{entries: entries}, nil
}

func (c *resultCache) get(key string) (Result, bool) {
	res, ok := c.entries.Get(key)
	if !ok {
		return Result{}, false
	}
	return cloneResult(res), true
}

func (c *resultCache) put(key string, res Result) {
	c.entries.Add(key, cloneResult(res))
}

func (c *resultCache) purge() {
	c.entries.Purge()
}

func (c *resultCache) size() int {
	return c.entries.Len()
}

func cloneResult(res Result) Result {
	out := Result{Manifests: manifest.CloneAll(res.Manifests)}
	if len(res.Diagnostics) > 0 {
		out.Diagnostics = append([]Diagnostic(nil), res.Diagnostics...)
	}
	return out
}
