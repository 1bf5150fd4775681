// SPDX-License-Identifier: MPL-2.0

// Package watch monitors a directory tree for package.json changes.
//
// Events within the debounce window are coalesced so the callback fires once
// with the full set of changed manifests. Directories that discovery never
// enters (node_modules, build output, hidden directories) are not watched.
package watch
