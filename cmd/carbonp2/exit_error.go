// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wso2/carbon-p2/internal/issue"
	"github.com/wso2/carbon-p2/internal/p2"
	"github.com/wso2/carbon-p2/pkg/types"
)

const (
	// ExitFailure is the exit code of a fatal failure.
	ExitFailure types.ExitCode = 1
	// ExitConfiguration is the exit code of a configuration failure.
	ExitConfiguration types.ExitCode = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
	// Verbose adds the cause chain to the message.
	Verbose bool
}

// Error returns the message shown to the user: the formatted cause, plus a
// pointer to 'carbon-p2 explain' when the failure has a catalog entry.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	var sb strings.Builder
	sb.WriteString(formatErrorForDisplay(e.Err, e.Verbose))
	if iss := issue.ForError(e.Err); iss != nil {
		sb.WriteString("\n\n")
		sb.WriteString(SubtitleStyle.Render("Run 'carbon-p2 explain " + iss.Name() + "' for details."))
	}
	return sb.String()
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// newExitError maps err to its exit code. Nil stays nil.
func newExitError(err error, verbose bool) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: exitCodeFor(err), Err: err, Verbose: verbose}
}

// exitCodeFor returns the tool's own exit code for external tool failures
// when it is a real process status, 2 for configuration failures and 1 for
// everything else.
func exitCodeFor(err error) types.ExitCode {
	var tool *p2.ExternalToolFailure
	if errors.As(err, &tool) && !tool.TimedOut && !tool.ExitCode.IsSuccess() && tool.ExitCode.Validate() == nil {
		return tool.ExitCode
	}
	if errors.Is(err, issue.ErrConfiguration) {
		return ExitConfiguration
	}
	return ExitFailure
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	if !verboseMode {
		return err.Error()
	}
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n\nError chain:")
	for i, cause := range issue.Causes(err)[1:] {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, cause.Error())
	}
	return sb.String()
}
