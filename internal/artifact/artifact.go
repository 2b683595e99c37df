// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"fmt"
)

const (
	// KindBundle is an OSGi bundle (a module jar).
	KindBundle Kind = "bundle"
	// KindFeature is a zipped feature package.
	KindFeature Kind = "feature"

	// CompatibilityEquivalent is the default feature match rule.
	CompatibilityEquivalent Compatibility = "equivalent"
	// CompatibilityCompatible matches any version with the same major number.
	CompatibilityCompatible Compatibility = "compatible"
	// CompatibilityPerfect matches the exact version only.
	CompatibilityPerfect Compatibility = "perfect"
	// CompatibilityGreaterOrEqual matches the version or anything newer.
	CompatibilityGreaterOrEqual Compatibility = "greaterOrEqual"
)

var (
	// ErrInvalidKind is the sentinel error wrapped by InvalidKindError.
	ErrInvalidKind = errors.New("invalid artifact kind")
	// ErrInvalidCompatibility is the sentinel error wrapped by InvalidCompatibilityError.
	ErrInvalidCompatibility = errors.New("invalid compatibility rule")
)

type (
	// Kind partitions artifacts into bundles and features.
	Kind string

	// InvalidKindError is returned when a Kind is not bundle or feature.
	InvalidKindError struct {
		Value Kind
	}

	// Key is the natural identity of an artifact: "<symbolicName>_<version>"
	// for bundles and "<featureId>_<version>" for features.
	Key string

	// Compatibility is the match rule attached to a declared reference.
	// The zero value means CompatibilityEquivalent.
	Compatibility string

	// InvalidCompatibilityError is returned for an unknown match rule.
	InvalidCompatibilityError struct {
		Value Compatibility
	}

	// ResolvedArtifact is one artifact materialized by the resolver. It is
	// immutable once the resolver returns it.
	ResolvedArtifact struct {
		GroupID       string
		ArtifactID    string
		Version       string
		SymbolicName  string
		Type          string
		BundleVersion string
		// File is the absolute path of the jar or zip on disk.
		File string
	}
)

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid artifact kind %q (must be bundle or feature)", e.Value)
}

// Unwrap returns ErrInvalidKind.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// Validate returns an error if the kind is not bundle or feature.
func (k Kind) Validate() error {
	if k != KindBundle && k != KindFeature {
		return &InvalidKindError{Value: k}
	}
	return nil
}

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// NewKey builds the identity key for an id and version.
func NewKey(id, version string) Key {
	return Key(id + "_" + version)
}

// String returns the string representation of the Key.
func (k Key) String() string { return string(k) }

// Error implements the error interface.
func (e *InvalidCompatibilityError) Error() string {
	return fmt.Sprintf("invalid compatibility %q (must be one of: equivalent, compatible, perfect, greaterOrEqual)", e.Value)
}

// Unwrap returns ErrInvalidCompatibility.
func (e *InvalidCompatibilityError) Unwrap() error { return ErrInvalidCompatibility }

// Validate returns an error for an unknown match rule. Empty is valid.
func (c Compatibility) Validate() error {
	switch c {
	case "", CompatibilityEquivalent, CompatibilityCompatible, CompatibilityPerfect, CompatibilityGreaterOrEqual:
		return nil
	default:
		return &InvalidCompatibilityError{Value: c}
	}
}

// OrDefault returns CompatibilityEquivalent for the zero value.
func (c Compatibility) OrDefault() Compatibility {
	if c == "" {
		return CompatibilityEquivalent
	}
	return c
}

// FeatureID is the id a feature artifact is known by: its symbolic name when
// the resolver recorded one, otherwise its artifactId.
func (a ResolvedArtifact) FeatureID() string {
	if a.SymbolicName != "" {
		return a.SymbolicName
	}
	return a.ArtifactID
}

// KeyAs returns the artifact's identity key within the given partition.
func (a ResolvedArtifact) KeyAs(kind Kind) Key {
	if kind == KindFeature {
		return NewKey(a.FeatureID(), a.Version)
	}
	return NewKey(a.SymbolicName, a.Version)
}

// String renders the Maven coordinates of the artifact.
func (a ResolvedArtifact) String() string {
	return a.GroupID + ":" + a.ArtifactID + ":" + a.Version
}
