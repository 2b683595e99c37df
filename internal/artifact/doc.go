// SPDX-License-Identifier: MPL-2.0

// Package artifact holds the resolved-dependency boundary of carbon-p2: the
// typed artifact cache keyed by natural identity, the bundle and feature
// references declared by a build, and the Resolver collaborator that produces
// resolved artifacts (ManifestResolver reads them from a TOML manifest).
//
// Every lookup happens before any filesystem or subprocess side effect. A miss
// is reported as a *NotFoundError wrapping ErrArtifactNotFound.
package artifact
