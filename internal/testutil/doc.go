// SPDX-License-Identifier: MPL-2.0

// Package testutil builds package.json trees for tests, on disk (WriteTree)
// or in memory (MemTree), plus fail-fast file helpers.
package testutil
