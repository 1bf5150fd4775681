// SPDX-License-Identifier: MPL-2.0

// Package analyzer classifies the shape of a project around a path and picks
// the manifest a caller should use without asking the user.
//
// Analysis runs a discovery, boosts known workspace roots, filters the
// results down to the relevant ones, and classifies the project as a
// monorepo, a multi-root workspace, a set of nested packages, or a single
// package. Structural pattern detection (react, nx, lerna, ...) only enriches
// the advisory recommendations and never influences ranking.
package analyzer
