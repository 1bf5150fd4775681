// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown guides
// rendered with glamour when a CLI operation fails.
package issue
