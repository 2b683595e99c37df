// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the carbon-p2 CLI commands.
//
// The command tree is thin glue: each handler loads the tool settings and the
// build descriptor, converts them into request values and hands them to the
// repository and profile packages.
package cmd
