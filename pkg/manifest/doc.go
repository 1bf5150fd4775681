// SPDX-License-Identifier: MPL-2.0

// Package manifest models one discovered package.json file.
//
// Only the fields used for ranking are decoded: name, version, scripts and
// workspaces. Scripts are opaque strings and are never interpreted. The raw
// workspaces value is preserved so downstream consumers can inspect it.
package manifest
