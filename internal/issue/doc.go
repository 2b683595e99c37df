// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable, severity-aware errors and the catalog of
// user-facing explanations for carbon-p2 failures.
//
// Domain packages define their own typed errors (artifact.NotFoundError,
// p2.ExternalToolFailure, ...). This package supplies the shared pieces: the
// ActionableError wrapper used at the CLI boundary, the Severity classification
// that separates fatal failures from advisory ones, and markdown guidance
// rendered with glamour.
package issue
