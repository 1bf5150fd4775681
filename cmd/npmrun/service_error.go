// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/markoverano/npm-command-runner/internal/issue"
)

// ServiceError carries an issue catalog entry alongside an error so the CLI
// can print the matching help text. Create it with newServiceError.
type ServiceError struct {
	Err     error
	IssueID issue.Id
}

func newServiceError(err error, id issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: id}
}

func (e *ServiceError) Error() string { return e.Err.Error() }

func (e *ServiceError) Unwrap() error { return e.Err }

// renderIssue writes the catalog entry for id using the given glamour style.
// Unknown ids and render failures are logged and otherwise ignored.
func (a *App) renderIssue(w io.Writer, id issue.Id, style string) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(style)
	if err != nil {
		a.logger.Warn("failed to render issue", "id", id, "err", err)
		return
	}
	fmt.Fprint(w, rendered)
}
