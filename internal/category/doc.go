// SPDX-License-Identifier: MPL-2.0

// Package category synthesizes the category.xml definition consumed by the
// category publisher.
package category
