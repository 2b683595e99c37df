// SPDX-License-Identifier: MPL-2.0

// Package descriptor reads the p2build.cue build descriptor and turns it into
// the request values of the repository and profile packages.
//
// Relative paths in a descriptor resolve against base_dir, which itself
// defaults to the directory holding the descriptor.
package descriptor
