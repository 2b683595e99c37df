// SPDX-License-Identifier: MPL-2.0

package artifact

type (
	// BundleReference is a bundle declared by the build. The resolved fields
	// are empty until Cache.Resolve returns a populated copy.
	BundleReference struct {
		SymbolicName  string
		Version       string
		Compatibility Compatibility

		GroupID       string
		ArtifactID    string
		Type          string
		BundleVersion string
		File          string
	}

	// FeatureReference is a feature declared by the build. After population
	// ID holds the resolved artifactId, which is the id the p2 tools see.
	FeatureReference struct {
		ID            string
		Version       string
		Compatibility Compatibility

		GroupID       string
		ArtifactID    string
		Type          string
		BundleVersion string
		File          string
	}
)

// Key returns the identity key of the declared bundle.
func (r BundleReference) Key() Key { return NewKey(r.SymbolicName, r.Version) }

// Key returns the identity key of the declared feature.
func (r FeatureReference) Key() Key { return NewKey(r.ID, r.Version) }

// populate copies the resolved metadata onto the reference.
func (r *BundleReference) populate(a ResolvedArtifact) {
	r.GroupID = a.GroupID
	r.ArtifactID = a.ArtifactID
	r.Version = a.Version
	r.SymbolicName = a.SymbolicName
	r.Type = a.Type
	r.BundleVersion = a.BundleVersion
	r.File = a.File
	r.Compatibility = r.Compatibility.OrDefault()
}

// populate copies the resolved metadata onto the reference and switches its
// id to the resolved artifactId.
func (r *FeatureReference) populate(a ResolvedArtifact) {
	r.GroupID = a.GroupID
	r.ArtifactID = a.ArtifactID
	r.Version = a.Version
	r.Type = a.Type
	r.BundleVersion = a.BundleVersion
	r.File = a.File
	r.ID = a.ArtifactID
	r.Compatibility = r.Compatibility.OrDefault()
}

// Coordinates renders groupId:artifactId:version for log and error messages.
func (r FeatureReference) Coordinates() string {
	return r.GroupID + ":" + r.ArtifactID + ":" + r.Version
}
