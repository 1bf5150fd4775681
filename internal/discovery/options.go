// SPDX-License-Identifier: MPL-2.0

package discovery

import "fmt"

const (
	// DefaultMaxDepthUp is the default number of ancestor hops searched.
	DefaultMaxDepthUp = 10
	// DefaultMaxDepthDown is the default number of descendant hops searched.
	DefaultMaxDepthDown = 5

	// probeMaxDepth caps the supplementary downward probe run by Best.
	probeMaxDepth = 2
)

type (
	// Options controls one discovery run. A nil field takes its default, so
	// the zero value searches 10 hops up and 5 down with caching enabled.
	Options struct {
		// MaxDepthUp is the number of ancestor hops examined (inclusive).
		MaxDepthUp *int
		// MaxDepthDown is the number of descendant hops examined (inclusive).
		MaxDepthDown *int
		// IncludeNodeModules allows descending into node_modules directories.
		IncludeNodeModules *bool
		// CacheResults reads and populates the engine cache for this run.
		CacheResults *bool
	}

	// Resolved is Options with every default applied.
	Resolved struct {
		MaxDepthUp         int
		MaxDepthDown       int
		IncludeNodeModules bool
		CacheResults       bool
	}
)

// Depth returns a pointer to n for use in Options depth fields.
func Depth(n int) *int { return &n }

// Flag returns a pointer to b for use in Options boolean fields.
func Flag(b bool) *bool { return &b }

// DefaultOptions returns Options with every field set to its default.
func DefaultOptions() Options {
	return Options{
		MaxDepthUp:         Depth(DefaultMaxDepthUp),
		MaxDepthDown:       Depth(DefaultMaxDepthDown),
		IncludeNodeModules: Flag(false),
		CacheResults:       Flag(true),
	}
}

// Resolve fills unset fields with defaults and clamps negative depths to
// zero.
func (o Options) Resolve() Resolved {
	r := Resolved{
		MaxDepthUp:   DefaultMaxDepthUp,
		MaxDepthDown: DefaultMaxDepthDown,
		CacheResults: true,
	}
	if o.MaxDepthUp != nil {
		r.MaxDepthUp = max(*o.MaxDepthUp, 0)
	}
	if o.MaxDepthDown != nil {
		r.MaxDepthDown = max(*o.MaxDepthDown, 0)
	}
	if o.IncludeNodeModules != nil {
		r.IncludeNodeModules = *o.IncludeNodeModules
	}
	if o.CacheResults != nil {
		r.CacheResults = *o.CacheResults
	}
	return r
}

// cacheKey serializes the start path and the resolved options that affect
// the result set.
func cacheKey(startPath string, r Resolved) string {
	return fmt.Sprintf("%s|up=%d|down=%d|node_modules=%t", startPath, r.MaxDepthUp, r.MaxDepthDown, r.IncludeNodeModules)
}
