// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is wrapped by CheckFileSize failures.
var ErrFileTooLarge = errors.New("file too large")

type (
	// FieldError is one CUE failure located by the JSON-style path of the
	// offending field. Path is empty for file-level failures such as syntax
	// errors.
	FieldError struct {
		Path    string
		Message string
	}

	// ValidationError collects every failure CUE reported for one file.
	ValidationError struct {
		File   string
		Fields []FieldError
	}
)

func (f FieldError) String() string {
	if f.Path == "" {
		return f.Message
	}
	return f.Path + ": " + f.Message
}

// Error renders "<file>: <path>: <message>" for a single failure and an
// indented list otherwise.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return e.File + ": " + e.Fields[0].String()
	}
	lines := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		lines[i] = f.String()
	}
	return e.File + ": validation failed:\n  " + strings.Join(lines, "\n  ")
}

// FormatError converts a CUE error into a *ValidationError for filePath.
// Errors that carry no CUE detail are wrapped with the file path instead.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	ve := &ValidationError{File: filePath, Fields: make([]FieldError, 0, len(list))}
	for _, e := range list {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		// CUE may repeat the path at the start of the message.
		if path != "" {
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		ve.Fields = append(ve.Fields, FieldError{Path: path, Message: msg})
	}
	return ve
}

// formatPath joins CUE path selectors, rendering numeric selectors as
// indices: ["workspace_roots", "0"] becomes "workspace_roots[0]".
func formatPath(path []string) string {
	var sb strings.Builder
	for i, sel := range path {
		if _, err := strconv.Atoi(sel); err == nil && i > 0 {
			fmt.Fprintf(&sb, "[%s]", sel)
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(sel)
	}
	return sb.String()
}

// CheckFileSize rejects data larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return fmt.Errorf("%w: %s is %d bytes, exceeds maximum %d bytes", ErrFileTooLarge, filename, size, maxSize)
	}
	return nil
}
