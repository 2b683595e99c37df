// SPDX-License-Identifier: MPL-2.0

package p2

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/wso2/carbon-p2/pkg/types"
)

const (
	// ApplicationFeaturesAndBundlesPublisher publishes a features/plugins tree
	// into a metadata and artifact repository.
	ApplicationFeaturesAndBundlesPublisher Application = "org.eclipse.equinox.p2.publisher.FeaturesAndBundlesPublisher"
	// ApplicationCategoryPublisher applies a category definition to a repository.
	ApplicationCategoryPublisher Application = "org.eclipse.equinox.p2.publisher.CategoryPublisher"
	// ApplicationProductPublisher publishes a .product file into a repository.
	ApplicationProductPublisher Application = "org.eclipse.equinox.p2.publisher.ProductPublisher"
	// ApplicationDirector installs and uninstalls units into a profile.
	ApplicationDirector Application = "org.eclipse.equinox.p2.director"
)

// ErrInvalidApplication is the sentinel error wrapped by InvalidApplicationError.
var ErrInvalidApplication = errors.New("invalid p2 application")

type (
	// Application is the fully qualified id of an Equinox application.
	Application string

	// InvalidApplicationError is returned when an Application is empty or
	// contains whitespace.
	InvalidApplicationError struct {
		Value Application
	}

	// Invocation is one call of an external application. It is built fresh
	// for each call and not modified once handed to a ToolRunner.
	Invocation struct {
		Application Application
		// Args are the ordered argument tokens passed after the application id.
		Args []string
		// WorkDir is the process working directory; empty means the current one.
		WorkDir string
		// Timeout bounds the call. Zero means no bound.
		Timeout time.Duration
	}

	// ToolRunner executes an Invocation and reports how the process exited.
	// A non-zero exit is reported through the ExitCode, not the error; the
	// error is reserved for processes that could not be started, were
	// cancelled, or timed out (wrapping ErrToolTimeout).
	ToolRunner interface {
		Execute(ctx context.Context, inv Invocation) (types.ExitCode, error)
	}
)

// Error implements the error interface.
func (e *InvalidApplicationError) Error() string {
	return fmt.Sprintf("invalid p2 application %q (must be a non-empty id without whitespace)", e.Value)
}

// Unwrap returns ErrInvalidApplication.
func (e *InvalidApplicationError) Unwrap() error { return ErrInvalidApplication }

// Validate returns an error if the application id is empty or contains whitespace.
func (a Application) Validate() error {
	if a == "" || strings.ContainsAny(string(a), " \t\r\n") {
		return &InvalidApplicationError{Value: a}
	}
	return nil
}

// String returns the application id.
func (a Application) String() string { return string(a) }

// In returns a copy of the invocation that runs in dir.
func (inv Invocation) In(dir string) Invocation {
	inv.Args = slices.Clone(inv.Args)
	inv.WorkDir = dir
	return inv
}

// WithTimeout returns a copy of the invocation bounded by d.
func (inv Invocation) WithTimeout(d time.Duration) Invocation {
	inv.Args = slices.Clone(inv.Args)
	inv.Timeout = d
	return inv
}

// Flag returns the token following name in Args, or "" and false when the
// flag is absent or has no value.
func (inv Invocation) Flag(name string) (string, bool) {
	for i, a := range inv.Args {
		if a == name && i+1 < len(inv.Args) {
			return inv.Args[i+1], true
		}
	}
	return "", false
}
