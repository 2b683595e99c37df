// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultManifestName is the manifest file name looked up next to the build descriptor.
const DefaultManifestName = "resolved-artifacts.toml"

// ErrInvalidManifest is the sentinel error wrapped by InvalidManifestError.
var ErrInvalidManifest = errors.New("invalid artifact manifest")

type (
	// Resolver produces the resolved bundles and features of a build. It is
	// called at most once per run, before any side effect.
	Resolver interface {
		Resolve(ctx context.Context) (bundles, features []ResolvedArtifact, err error)
	}

	// StaticResolver returns a fixed artifact set.
	StaticResolver struct {
		Bundles  []ResolvedArtifact
		Features []ResolvedArtifact
	}

	// ManifestResolver reads resolved artifacts from a TOML manifest written
	// by the build system:
	//
	//	[[bundle]]
	//	group_id      = "org.example"
	//	artifact_id   = "org.example.core"
	//	version       = "1.0.0"
	//	symbolic_name = "org.example.core"
	//	file          = "lib/org.example.core-1.0.0.jar"
	//
	//	[[feature]]
	//	artifact_id = "org.example.feature"
	//	version     = "1.0.0"
	//	file        = "features/org.example.feature-1.0.0.zip"
	//
	// Relative file paths resolve against the manifest's directory.
	ManifestResolver struct {
		path string
	}

	// InvalidManifestError reports a manifest entry that cannot be used.
	InvalidManifestError struct {
		Path   string
		Entry  string
		Reason string
	}

	manifestFile struct {
		Bundles  []manifestEntry `toml:"bundle"`
		Features []manifestEntry `toml:"feature"`
	}

	manifestEntry struct {
		GroupID       string `toml:"group_id"`
		ArtifactID    string `toml:"artifact_id"`
		Version       string `toml:"version"`
		SymbolicName  string `toml:"symbolic_name"`
		ID            string `toml:"id"`
		Type          string `toml:"type"`
		BundleVersion string `toml:"bundle_version"`
		File          string `toml:"file"`
	}
)

// Resolve returns the configured artifacts.
func (s StaticResolver) Resolve(context.Context) (bundles, features []ResolvedArtifact, err error) {
	return s.Bundles, s.Features, nil
}

// NewManifestResolver creates a resolver for the manifest at path.
func NewManifestResolver(path string) *ManifestResolver {
	return &ManifestResolver{path: path}
}

// Path returns the manifest location.
func (m *ManifestResolver) Path() string { return m.path }

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Entry, e.Reason)
}

// Unwrap returns ErrInvalidManifest.
func (e *InvalidManifestError) Unwrap() error { return ErrInvalidManifest }

// Resolve parses the manifest. Unknown keys are rejected so typos surface
// instead of silently producing an ArtifactNotFound later.
func (m *ManifestResolver) Resolve(ctx context.Context) (bundles, features []ResolvedArtifact, err error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("resolve artifacts canceled: %w", ctx.Err())
	default:
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read artifact manifest: %w", err)
	}

	var mf manifestFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&mf); err != nil {
		return nil, nil, fmt.Errorf("failed to parse artifact manifest %s: %w", m.path, err)
	}

	base := filepath.Dir(m.path)
	for i, e := range mf.Bundles {
		a, err := e.toArtifact(base)
		if err == nil && a.SymbolicName == "" {
			err = errors.New("symbolic_name is required for bundles")
		}
		if err != nil {
			return nil, nil, &InvalidManifestError{Path: m.path, Entry: fmt.Sprintf("bundle[%d]", i), Reason: err.Error()}
		}
		bundles = append(bundles, a)
	}
	for i, e := range mf.Features {
		a, err := e.toArtifact(base)
		if err != nil {
			return nil, nil, &InvalidManifestError{Path: m.path, Entry: fmt.Sprintf("feature[%d]", i), Reason: err.Error()}
		}
		features = append(features, a)
	}
	return bundles, features, nil
}

func (e manifestEntry) toArtifact(base string) (ResolvedArtifact, error) {
	switch {
	case e.ArtifactID == "":
		return ResolvedArtifact{}, errors.New("artifact_id is required")
	case e.Version == "":
		return ResolvedArtifact{}, errors.New("version is required")
	case e.File == "":
		return ResolvedArtifact{}, errors.New("file is required")
	}

	file := e.File
	if !filepath.IsAbs(file) {
		file = filepath.Join(base, file)
	}

	symbolic := e.SymbolicName
	if symbolic == "" {
		symbolic = e.ID
	}

	return ResolvedArtifact{
		GroupID:       e.GroupID,
		ArtifactID:    e.ArtifactID,
		Version:       e.Version,
		SymbolicName:  symbolic,
		Type:          e.Type,
		BundleVersion: e.BundleVersion,
		File:          file,
	}, nil
}
