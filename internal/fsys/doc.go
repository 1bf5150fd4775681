// SPDX-License-Identifier: MPL-2.0

// Package fsys provides the file capability consumed by manifest discovery:
// existence checks, UTF-8 file reads, and directory listings.
//
// The capability is backed by an afero.Fs so production code reads the real
// filesystem (afero.NewOsFs) while tests build trees in memory
// (afero.NewMemMapFs) without touching disk.
package fsys
