// SPDX-License-Identifier: MPL-2.0

package config

import "os"

// ConfigDirEnv relocates the configuration directory, e.g. for CI agents that
// keep one settings file per build workspace.
const ConfigDirEnv = EnvPrefix + "_CONFIG_DIR"

// configDirOverride takes precedence over ConfigDirEnv and the platform
// default. Only tests set it.
var configDirOverride string

// Reset clears the directory set by SetConfigDirOverride.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride makes ConfigDir return dir until Reset is called.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// overriddenConfigDir returns the directory forced by SetConfigDirOverride or
// by ConfigDirEnv, or "" when the platform default applies.
func overriddenConfigDir() string {
	if configDirOverride != "" {
		return configDirOverride
	}
	return os.Getenv(ConfigDirEnv)
}
