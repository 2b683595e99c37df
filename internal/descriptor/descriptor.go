// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wso2/carbon-p2/internal/issue"
	"github.com/wso2/carbon-p2/pkg/cueutil"
)

// DefaultFileName is the descriptor looked up in the working directory.
const DefaultFileName = "p2build.cue"

//go:embed p2build_schema.cue
var buildSchema []byte

// ErrInvalidDescriptor is the sentinel error wrapped by InvalidDescriptorError.
var ErrInvalidDescriptor = errors.New("invalid build descriptor")

type (
	// Build is a decoded build descriptor.
	Build struct {
		BaseDir        string            `json:"base_dir,omitempty"`
		TargetDir      string            `json:"target_dir,omitempty"`
		Manifest       string            `json:"manifest,omitempty"`
		TimeoutSeconds *int              `json:"timeout_seconds,omitempty"`
		Properties     map[string]string `json:"properties,omitempty"`

		Repository *Repository `json:"repository,omitempty"`
		Product    *Product    `json:"product,omitempty"`
		Profile    *Profile    `json:"profile,omitempty"`

		// dir is the absolute directory of the descriptor file.
		dir string
	}

	// Repository describes the repository to assemble.
	Repository struct {
		ArtifactID   string     `json:"artifact_id"`
		Version      string     `json:"version"`
		Name         string     `json:"name,omitempty"`
		OutputDir    string     `json:"output_dir,omitempty"`
		Archive      bool       `json:"archive,omitempty"`
		ResourceDirs []string   `json:"resource_dirs,omitempty"`
		Bundles      []Bundle   `json:"bundles,omitempty"`
		Features     []Feature  `json:"features,omitempty"`
		Categories   []Category `json:"categories,omitempty"`
	}

	// Bundle declares a bundle dependency.
	Bundle struct {
		SymbolicName  string `json:"symbolic_name"`
		Version       string `json:"version"`
		Compatibility string `json:"compatibility,omitempty"`
	}

	// Feature declares a feature dependency.
	Feature struct {
		ID            string `json:"id"`
		Version       string `json:"version"`
		Compatibility string `json:"compatibility,omitempty"`
	}

	// Category groups features in the published repository.
	Category struct {
		ID          string `json:"id"`
		Label       string `json:"label,omitempty"`
		Description string `json:"description,omitempty"`
		Features    []Unit `json:"features"`
	}

	// Unit is an id/version pair.
	Unit struct {
		ID      string `json:"id"`
		Version string `json:"version"`
	}

	// Product describes a product to publish.
	Product struct {
		Repository  string `json:"repository,omitempty"`
		File        string `json:"file"`
		Executables string `json:"executables"`
	}

	// Profile describes the profile to install into, uninstall from or generate.
	Profile struct {
		Destination     string `json:"destination"`
		Name            string `json:"name,omitempty"`
		Repository      string `json:"repository,omitempty"`
		ProductID       string `json:"product_id,omitempty"`
		FeatureGroups   bool   `json:"feature_groups,omitempty"`
		KeepOldProfiles bool   `json:"keep_old_profiles,omitempty"`
		Features        []Unit `json:"features,omitempty"`
	}

	// InvalidDescriptorError reports a descriptor that cannot be read or
	// does not match the schema.
	InvalidDescriptorError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("build descriptor %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrInvalidDescriptor, ErrConfiguration and the cause.
func (e *InvalidDescriptorError) Unwrap() []error {
	return []error{ErrInvalidDescriptor, issue.ErrConfiguration, e.Err}
}

// IssueID implements issue.Identified.
func (e *InvalidDescriptorError) IssueID() issue.Id { return issue.BuildDescriptorInvalidId }

// Load reads and validates the descriptor at path.
func Load(path string) (*Build, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &InvalidDescriptorError{Path: path, Err: err}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &InvalidDescriptorError{Path: abs, Err: err}
	}
	return Parse(data, abs)
}

// Parse validates data against the #Build schema. Relative paths in the
// descriptor resolve against the directory of filename.
func Parse(data []byte, filename string) (*Build, error) {
	res, err := cueutil.ParseAndDecode[Build](buildSchema, data, "#Build", cueutil.WithFilename(filename))
	if err != nil {
		return nil, &InvalidDescriptorError{Path: filename, Err: err}
	}
	b := res.Value
	dir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return nil, &InvalidDescriptorError{Path: filename, Err: err}
	}
	b.dir = dir
	return b, nil
}
