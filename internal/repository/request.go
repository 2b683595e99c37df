// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/wso2/carbon-p2/internal/artifact"
	"github.com/wso2/carbon-p2/internal/category"
	"github.com/wso2/carbon-p2/internal/issue"
)

type (
	// Request is the configuration of one assembly run. It is read, never
	// modified: the pipeline works on a private copy.
	Request struct {
		// BaseDir is the project directory and the tool's working directory.
		BaseDir string
		// TargetDir holds the staging tree, the default repository output
		// directory and the archive.
		TargetDir  string
		ArtifactID string
		Version    string

		// RepositoryDir is the repository output directory. Defaults to
		// <TargetDir>/<ArtifactID>_<Version>.
		RepositoryDir string
		// Name is the repository name. Defaults to ArtifactID.
		Name string

		Bundles      []artifact.BundleReference
		Features     []artifact.FeatureReference
		Categories   []category.Category
		ResourceDirs []string
		// Properties are substituted into category feature versions.
		Properties map[string]string

		// Archive zips the repository and removes the output directory.
		Archive bool
		// Timeout bounds each tool call. Zero means no bound.
		Timeout time.Duration
	}

	// ProductRequest publishes an existing product definition.
	ProductRequest struct {
		BaseDir string
		// RepositoryDir is both the metadata and the artifact repository.
		RepositoryDir string
		ProductFile   string
		Executables   string
		Timeout       time.Duration
	}
)

// Validate reports the first missing required field.
func (r Request) Validate() error {
	switch {
	case r.TargetDir == "":
		return issue.NewConfigurationError("target_dir", "must not be empty")
	case r.ArtifactID == "":
		return issue.NewConfigurationError("artifact_id", "must not be empty")
	case r.Version == "":
		return issue.NewConfigurationError("version", "must not be empty")
	case r.Timeout < 0:
		return issue.NewConfigurationError("timeout", "must not be negative")
	case within(r.RepositoryLocation(), r.ArchivePath()):
		return issue.NewConfigurationError("repository_dir", "must not be the target directory or contain "+filepath.Base(r.ArchivePath()))
	}
	return nil
}

// absolute returns r with TargetDir and RepositoryDir made absolute. The
// tools run in BaseDir, so relative paths must not reach their arguments.
func (r Request) absolute() (Request, error) {
	var err error
	if r.TargetDir, err = filepath.Abs(r.TargetDir); err != nil {
		return r, err
	}
	if r.RepositoryDir != "" {
		if r.RepositoryDir, err = filepath.Abs(r.RepositoryDir); err != nil {
			return r, err
		}
	}
	return r, nil
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(absOrClean(dir), absOrClean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func absOrClean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// RepositoryLocation returns the repository output directory.
func (r Request) RepositoryLocation() string {
	if r.RepositoryDir != "" {
		return r.RepositoryDir
	}
	return filepath.Join(r.TargetDir, r.ArtifactID+"_"+r.Version)
}

// ArchivePath returns <TargetDir>/<ArtifactID>_<Version>.zip.
func (r Request) ArchivePath() string {
	return filepath.Join(r.TargetDir, r.ArtifactID+"_"+r.Version+".zip")
}

// RepositoryName returns the repository name.
func (r Request) RepositoryName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ArtifactID
}

func (r Request) clone() Request {
	r.Bundles = slices.Clone(r.Bundles)
	r.Features = slices.Clone(r.Features)
	r.Categories = slices.Clone(r.Categories)
	for i := range r.Categories {
		r.Categories[i].Features = slices.Clone(r.Categories[i].Features)
	}
	r.ResourceDirs = slices.Clone(r.ResourceDirs)
	r.Properties = maps.Clone(r.Properties)
	return r
}

// Validate reports the first missing required field.
func (r ProductRequest) Validate() error {
	switch {
	case r.RepositoryDir == "":
		return issue.NewConfigurationError("repository", "must not be empty")
	case r.ProductFile == "":
		return issue.NewConfigurationError("product_file", "must not be empty")
	case r.Executables == "":
		return issue.NewConfigurationError("executables", "must not be empty")
	case r.Timeout < 0:
		return issue.NewConfigurationError("timeout", "must not be negative")
	}
	return nil
}
