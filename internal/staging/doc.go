// SPDX-License-Identifier: MPL-2.0

// Package staging owns the temporary working tree a repository assembly run
// builds its publisher input in.
//
// A Tree lives under <base>/tmp.<unix-millis>/ and is exclusive to one run.
// The manager extracts feature archives into the tree's source directory,
// copies bundle jars into source/plugins, merges project resource
// directories, zips finished repositories, and removes the tree at the end.
// Cleanup failures are warnings (issue.SeverityWarning), never fatal.
package staging
