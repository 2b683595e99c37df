// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where tool settings are read from. Environment
	// overrides apply in every case.
	LoadOptions struct {
		// ConfigFilePath is the --config flag. When set, the directory lookup
		// is skipped and the file must exist.
		ConfigFilePath string
		// ConfigDirPath replaces ConfigDir for the config.cue lookup.
		ConfigDirPath string
	}

	// Loaded is a validated configuration and the file it was read from.
	Loaded struct {
		*Config
		// Source is the config.cue that was merged, or "" when only defaults
		// and CARBON_P2_* variables apply.
		Source string
	}

	// Provider loads the tool settings used by every carbon-p2 command.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Loaded, error)
	}

	fileProvider struct{}
)

// NewProvider returns the Provider backed by config.cue and the environment.
func NewProvider() Provider {
	return fileProvider{}
}

// Load layers defaults, the config file and CARBON_P2_* overrides, then
// validates the result.
func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Loaded, error) {
	cfg, source, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Source: source}, nil
}
