// SPDX-License-Identifier: MPL-2.0

package p2

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/wso2/carbon-p2/internal/issue"
	"github.com/wso2/carbon-p2/pkg/types"
)

// ErrExternalTool is the sentinel error wrapped by ExternalToolFailure.
var ErrExternalTool = errors.New("external tool failure")

type (
	// ExternalToolFailure is a call that did not exit cleanly with status 0.
	ExternalToolFailure struct {
		Application Application
		// ExitCode is the process status, or types.ExitCodeAbnormal when the
		// process never produced one.
		ExitCode types.ExitCode
		TimedOut bool
		Cause    error
	}

	// InvokerOption configures an Invoker.
	InvokerOption func(*Invoker)

	// Invoker executes invocations through a ToolRunner and classifies the
	// outcome. It never retries.
	Invoker struct {
		runner   ToolRunner
		launcher string
		logger   *log.Logger
	}
)

// Error implements the error interface.
func (e *ExternalToolFailure) Error() string {
	switch {
	case e.TimedOut:
		return fmt.Sprintf("%s timed out: %v", e.Application, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("%s failed to run: %v", e.Application, e.Cause)
	default:
		return fmt.Sprintf("%s exited with code %d", e.Application, e.ExitCode)
	}
}

// Unwrap exposes ErrExternalTool and the cause, if any.
func (e *ExternalToolFailure) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExternalTool}
	}
	return []error{ErrExternalTool, e.Cause}
}

// IssueID links the failure to its catalog entry.
func (e *ExternalToolFailure) IssueID() issue.Id {
	switch {
	case e.TimedOut:
		return issue.ToolTimeoutId
	case errors.Is(e.Cause, exec.ErrNotFound), errors.Is(e.Cause, fs.ErrNotExist), errors.Is(e.Cause, fs.ErrPermission):
		return issue.LauncherNotFoundId
	default:
		return issue.ExternalToolFailureId
	}
}

// WithInvokerLogger sets the logger.
func WithInvokerLogger(l *log.Logger) InvokerOption {
	return func(i *Invoker) {
		i.logger = l
	}
}

// WithDisplayLauncher sets the launcher name shown in logged command lines.
func WithDisplayLauncher(launcher string) InvokerOption {
	return func(i *Invoker) {
		i.launcher = launcher
	}
}

// NewInvoker creates an Invoker around runner.
func NewInvoker(runner ToolRunner, opts ...InvokerOption) *Invoker {
	i := &Invoker{
		runner:   runner,
		launcher: "eclipse",
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "p2"}),
	}
	if lr, ok := runner.(*LauncherRunner); ok {
		i.launcher = lr.Launcher()
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invoke runs inv and returns nil only for a zero exit.
func (i *Invoker) Invoke(ctx context.Context, inv Invocation) error {
	if err := inv.Application.Validate(); err != nil {
		return err
	}

	i.logger.Info("invoking", "application", inv.Application)
	i.logger.Debug("command line", "cmd", Display(i.launcher, inv))

	code, err := i.runner.Execute(ctx, inv)
	switch {
	case err != nil:
		return &ExternalToolFailure{
			Application: inv.Application,
			ExitCode:    types.ExitCodeAbnormal,
			TimedOut:    errors.Is(err, ErrToolTimeout),
			Cause:       err,
		}
	case !code.IsSuccess():
		return &ExternalToolFailure{Application: inv.Application, ExitCode: code}
	}
	return nil
}
