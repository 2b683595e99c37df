// SPDX-License-Identifier: MPL-2.0

// Package osgi converts build versions into OSGi version strings and expands
// ${property} references in version expressions.
package osgi
