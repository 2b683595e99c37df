// SPDX-License-Identifier: MPL-2.0

package p2

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"github.com/wso2/carbon-p2/pkg/types"
)

// ErrToolTimeout is returned by a ToolRunner when an invocation ran past its
// timeout and was killed.
var ErrToolTimeout = errors.New("external tool timed out")

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// LauncherOption configures a LauncherRunner.
	LauncherOption func(*LauncherRunner)

	// LauncherRunner runs applications through an Eclipse launcher binary:
	//
	//	<launcher> -nosplash -application <app> <args...>
	LauncherRunner struct {
		launcher    string
		execCommand ExecCommandFunc
		stdout      io.Writer
		stderr      io.Writer
		logger      *log.Logger
	}
)

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) LauncherOption {
	return func(r *LauncherRunner) {
		r.execCommand = fn
	}
}

// WithOutput sets where the tool's stdout and stderr are streamed.
func WithOutput(stdout, stderr io.Writer) LauncherOption {
	return func(r *LauncherRunner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithLauncherLogger sets the logger.
func WithLauncherLogger(l *log.Logger) LauncherOption {
	return func(r *LauncherRunner) {
		r.logger = l
	}
}

// NewLauncherRunner creates a runner for the launcher binary at path.
func NewLauncherRunner(launcher string, opts ...LauncherOption) *LauncherRunner {
	r := &LauncherRunner{
		launcher:    launcher,
		execCommand: exec.CommandContext,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		logger:      log.NewWithOptions(os.Stderr, log.Options{Prefix: "p2"}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Launcher returns the launcher binary path.
func (r *LauncherRunner) Launcher() string { return r.launcher }

// CommandLine returns the full argument vector passed to the launcher.
func CommandLine(inv Invocation) []string {
	args := make([]string, 0, len(inv.Args)+3)
	args = append(args, "-nosplash", "-application", string(inv.Application))
	return append(args, inv.Args...)
}

// Execute runs the invocation and blocks until the process exits, the
// timeout expires, or ctx is cancelled. Expiry and cancellation kill the
// process.
func (r *LauncherRunner) Execute(ctx context.Context, inv Invocation) (types.ExitCode, error) {
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := r.execCommand(ctx, r.launcher, CommandLine(inv)...)
	cmd.Dir = inv.WorkDir
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	r.logger.Debug("running", "cmd", Display(r.launcher, inv), "dir", inv.WorkDir)

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) && inv.Timeout > 0 {
			return types.ExitCodeAbnormal, fmt.Errorf("%w after %s", ErrToolTimeout, inv.Timeout)
		}
		return types.ExitCodeAbnormal, ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return types.ExitCode(exitErr.ExitCode()), nil
		}
		return types.ExitCodeAbnormal, err
	}
	return 0, nil
}

// Display renders the launcher command line for logs and plans, with every
// token quoted for a POSIX shell where needed.
func Display(launcher string, inv Invocation) string {
	tokens := append([]string{launcher}, CommandLine(inv)...)
	quoted := make([]string, 0, len(tokens))
	for _, t := range tokens {
		q, err := syntax.Quote(t, syntax.LangBash)
		if err != nil {
			q = fmt.Sprintf("%q", t)
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " ")
}
