// SPDX-License-Identifier: MPL-2.0

// Package discovery locates package.json manifests around a start path and
// ranks them by relevance.
//
// A discovery run performs two depth-bounded passes from the start path: an
// upward pass over the start directory and its ancestors, and a downward
// pre-order pass into subdirectories. Each pass keeps its own visited set;
// the results are merged, de-duplicated by manifest path, parsed, and then
// scored once over the whole set.
//
// File organization:
//   - discovery.go: Engine, construction options and the public operations
//   - walk.go: upward and downward traversals
//   - score.go: table-driven relevance scoring
//   - cache.go: LRU-backed result cache keyed by start path and options
//   - options.go: per-call discovery Options
//   - diagnostic.go: non-fatal diagnostics collected during a run
package discovery
