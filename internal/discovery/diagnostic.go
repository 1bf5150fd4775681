// SPDX-License-Identifier: MPL-2.0

package discovery

import "github.com/markoverano/npm-command-runner/pkg/manifest"

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError marks a manifest that exists but could not be read. It is
	// logged at warn level and still never aborts the run.
	SeverityError Severity = "error"

	// CodeDirectoryListFailed marks a directory whose children could not be listed.
	CodeDirectoryListFailed = "directory_list_failed"
	// CodeManifestReadFailed marks a manifest that exists but could not be read.
	CodeManifestReadFailed = "manifest_read_failed"
	// CodeManifestParseSkipped marks a manifest dropped because of malformed content.
	CodeManifestParseSkipped = "manifest_parse_skipped"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	// No diagnostic ever aborts a discovery run.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "manifest_parse_skipped").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file or directory associated with this diagnostic.
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// Result bundles ranked manifests with the diagnostics produced while
	// finding them.
	Result struct {
		// Manifests are sorted by descending score; ties keep discovery order.
		Manifests   []*manifest.Info
		Diagnostics []Diagnostic
	}
)
