// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
)

const (
	// SeverityFatal aborts the operation that raised it.
	SeverityFatal Severity = "fatal"
	// SeverityWarning is reported to the user but never changes an outcome.
	SeverityWarning Severity = "warning"
)

var (
	// ErrInvalidSeverity is the sentinel error wrapped by InvalidSeverityError.
	ErrInvalidSeverity = errors.New("invalid severity")

	// ErrConfiguration is the sentinel error wrapped by ConfigurationError.
	ErrConfiguration = errors.New("configuration failure")
)

type (
	// Severity classifies an error as fatal or advisory.
	Severity string

	// InvalidSeverityError is returned when a Severity is not recognized.
	InvalidSeverityError struct {
		Value Severity
	}

	// Advisory wraps an error that must be reported but must not fail the
	// surrounding operation, such as a staging cleanup failure.
	Advisory struct {
		Severity  Severity
		Operation string
		Err       error
	}

	// ConfigurationError reports required configuration that is absent or
	// malformed. It is always raised before any side effect.
	ConfigurationError struct {
		Field  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid severity %q (must be one of: fatal, warning)", e.Value)
}

// Unwrap returns ErrInvalidSeverity.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

// Validate returns an error if the severity is not fatal or warning.
func (s Severity) Validate() error {
	switch s {
	case SeverityFatal, SeverityWarning:
		return nil
	default:
		return &InvalidSeverityError{Value: s}
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string { return string(s) }

// Warning wraps err as a warning-severity advisory. It returns nil when err is nil.
func Warning(operation string, err error) *Advisory {
	if err == nil {
		return nil
	}
	return &Advisory{Severity: SeverityWarning, Operation: operation, Err: err}
}

// Error implements the error interface.
func (a *Advisory) Error() string {
	return fmt.Sprintf("%s: %s: %v", a.Severity, a.Operation, a.Err)
}

// Unwrap returns the wrapped error.
func (a *Advisory) Unwrap() error { return a.Err }

// SeverityOf classifies err. Anything not wrapped in an Advisory is fatal.
func SeverityOf(err error) Severity {
	var adv *Advisory
	if errors.As(err, &adv) {
		return adv.Severity
	}
	return SeverityFatal
}

// IsFatal reports whether err is non-nil and not advisory.
func IsFatal(err error) bool {
	return err != nil && SeverityOf(err) == SeverityFatal
}

// NewConfigurationError creates a ConfigurationError for field.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrConfiguration.
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// IssueID links the error to its catalog entry.
func (e *ConfigurationError) IssueID() Id { return ConfigurationFailureId }
