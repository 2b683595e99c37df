// SPDX-License-Identifier: MPL-2.0

// Package config handles tool settings using Viper.
//
// Settings come from, in increasing precedence: built-in defaults, a CUE file
// validated against the embedded #Config schema, and CARBON_P2_* environment
// variables.
package config
