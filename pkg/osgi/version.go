// SPDX-License-Identifier: MPL-2.0

package osgi

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
var ErrInvalidVersion = errors.New("invalid OSGi version")

// InvalidVersionError is returned when a version has no leading numeric part.
type InvalidVersionError struct {
	Value string
}

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: must start with a number", e.Value)
}

// Unwrap returns ErrInvalidVersion.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// NormalizeVersion converts a build version into the
// major.minor.micro[.qualifier] form:
//
//	1             -> 1.0.0
//	1.2-SNAPSHOT  -> 1.2.0.SNAPSHOT
//	1.0.0-SNAPSHOT -> 1.0.0.SNAPSHOT
//	1.0.0.SNAPSHOT -> 1.0.0.SNAPSHOT
//	4.2.0-m1+b7   -> 4.2.0.m1_b7
func NormalizeVersion(version string) (string, error) {
	v := strings.TrimSpace(version)
	if v == "" || v[0] < '0' || v[0] > '9' {
		return "", &InvalidVersionError{Value: version}
	}

	numbers := make([]string, 0, 3)
	rest := v
	for len(numbers) < 3 {
		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		if end == 0 {
			break
		}
		numbers = append(numbers, strings.TrimLeft(rest[:end], "0"))
		if numbers[len(numbers)-1] == "" {
			numbers[len(numbers)-1] = "0"
		}
		rest = rest[end:]
		if len(numbers) == 3 || !strings.HasPrefix(rest, ".") || len(rest) < 2 || rest[1] < '0' || rest[1] > '9' {
			break
		}
		rest = rest[1:]
	}
	for len(numbers) < 3 {
		numbers = append(numbers, "0")
	}

	out := strings.Join(numbers, ".")
	qualifier := sanitizeQualifier(strings.TrimLeft(rest, ".-_"))
	if qualifier != "" {
		out += "." + qualifier
	}
	return out, nil
}

// sanitizeQualifier keeps [A-Za-z0-9_-] and replaces everything else with '_'.
func sanitizeQualifier(q string) string {
	var b strings.Builder
	for _, c := range q {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
