// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"testing"
)

func TestSeverityValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   Severity
		wantErr bool
	}{
		{SeverityFatal, false},
		{SeverityWarning, false},
		{"", true},
		{"info", true},
	}

	for _, tt := range tests {
		err := tt.value.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Severity(%q).Validate() error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidSeverity) {
			t.Errorf("error should wrap ErrInvalidSeverity: %v", err)
		}
	}
}

func TestSeverityOf(t *testing.T) {
	t.Parallel()

	cause := errors.New("remove tmp.1: busy")
	warn := Warning("cleanup staging tree", cause)

	if got := SeverityOf(warn); got != SeverityWarning {
		t.Errorf("SeverityOf(warning) = %q", got)
	}
	if got := SeverityOf(fmt.Errorf("wrapped: %w", warn)); got != SeverityWarning {
		t.Errorf("SeverityOf(wrapped warning) = %q", got)
	}
	if got := SeverityOf(cause); got != SeverityFatal {
		t.Errorf("SeverityOf(plain) = %q", got)
	}
	if IsFatal(warn) {
		t.Error("warnings are not fatal")
	}
	if IsFatal(nil) {
		t.Error("nil is not fatal")
	}
	if !IsFatal(cause) {
		t.Error("plain errors are fatal")
	}
	if !errors.Is(warn, cause) {
		t.Error("advisory should unwrap to its cause")
	}
	if Warning("noop", nil) != nil {
		t.Error("Warning(nil) should be nil")
	}
}

func TestConfigurationError(t *testing.T) {
	t.Parallel()

	err := NewConfigurationError("destination", "must not be empty")
	if !errors.Is(err, ErrConfiguration) {
		t.Error("should wrap ErrConfiguration")
	}
	if err.Error() != "invalid configuration: destination: must not be empty" {
		t.Errorf("Error() = %q", err.Error())
	}
	if got := ForError(fmt.Errorf("install: %w", err)); got == nil || got.Id() != ConfigurationFailureId {
		t.Errorf("ForError() = %v, want configuration entry", got)
	}
}
