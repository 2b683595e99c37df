// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"fmt"

	"github.com/wso2/carbon-p2/internal/issue"
)

// ErrArtifactNotFound is the sentinel error wrapped by NotFoundError.
var ErrArtifactNotFound = errors.New("artifact not found")

type (
	// Cache maps identity keys to resolved artifacts, one map per Kind.
	// It is built once per run and read-only afterwards.
	Cache struct {
		bundles  map[Key]ResolvedArtifact
		features map[Key]ResolvedArtifact
	}

	// NotFoundError reports a declared reference with no resolved artifact.
	NotFoundError struct {
		Kind Kind
		Key  Key
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found in resolved artifacts", e.Kind, e.Key)
}

// Unwrap returns ErrArtifactNotFound.
func (e *NotFoundError) Unwrap() error { return ErrArtifactNotFound }

// IssueID links the error to its catalog entry.
func (e *NotFoundError) IssueID() issue.Id { return issue.ArtifactNotFoundId }

// NewCache indexes the resolver output. When two artifacts share a key the
// later one wins.
func NewCache(bundles, features []ResolvedArtifact) *Cache {
	c := &Cache{
		bundles:  make(map[Key]ResolvedArtifact, len(bundles)),
		features: make(map[Key]ResolvedArtifact, len(features)),
	}
	for _, b := range bundles {
		c.bundles[b.KeyAs(KindBundle)] = b
	}
	for _, f := range features {
		c.features[f.KeyAs(KindFeature)] = f
	}
	return c
}

// Len returns the number of cached artifacts of the given kind.
func (c *Cache) Len(kind Kind) int {
	if kind == KindFeature {
		return len(c.features)
	}
	return len(c.bundles)
}

// LookupBundle returns the bundle cached under key.
func (c *Cache) LookupBundle(key Key) (ResolvedArtifact, error) {
	a, ok := c.bundles[key]
	if !ok {
		return ResolvedArtifact{}, &NotFoundError{Kind: KindBundle, Key: key}
	}
	return a, nil
}

// LookupFeature returns the feature cached under key.
func (c *Cache) LookupFeature(key Key) (ResolvedArtifact, error) {
	a, ok := c.features[key]
	if !ok {
		return ResolvedArtifact{}, &NotFoundError{Kind: KindFeature, Key: key}
	}
	return a, nil
}

// Resolve looks up every declared reference and returns populated copies.
// The inputs are never modified. All lookups complete before anything is
// populated, so the first miss returns a *NotFoundError and no results.
func (c *Cache) Resolve(bundles []BundleReference, features []FeatureReference) ([]BundleReference, []FeatureReference, error) {
	bundleHits := make([]ResolvedArtifact, len(bundles))
	for i, b := range bundles {
		a, err := c.LookupBundle(b.Key())
		if err != nil {
			return nil, nil, err
		}
		bundleHits[i] = a
	}

	featureHits := make([]ResolvedArtifact, len(features))
	for i, f := range features {
		a, err := c.LookupFeature(f.Key())
		if err != nil {
			return nil, nil, err
		}
		featureHits[i] = a
	}

	outBundles := make([]BundleReference, len(bundles))
	for i, b := range bundles {
		b.populate(bundleHits[i])
		outBundles[i] = b
	}
	outFeatures := make([]FeatureReference, len(features))
	for i, f := range features {
		f.populate(featureHits[i])
		outFeatures[i] = f
	}
	return outBundles, outFeatures, nil
}
