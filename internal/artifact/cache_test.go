// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"testing"

	"github.com/wso2/carbon-p2/internal/issue"
)

func testCache() *Cache {
	return NewCache(
		[]ResolvedArtifact{{
			GroupID:       "org.example",
			ArtifactID:    "org.example.core",
			Version:       "1.0.0",
			SymbolicName:  "org.example.core",
			Type:          "jar",
			BundleVersion: "1.0.0",
			File:          "/repo/org.example.core-1.0.0.jar",
		}},
		[]ResolvedArtifact{{
			GroupID:      "org.example",
			ArtifactID:   "org.example.feature.resolved",
			Version:      "1.0.0.SNAPSHOT",
			SymbolicName: "org.example.feature",
			Type:         "zip",
			File:         "/repo/org.example.feature-1.0.0.zip",
		}},
	)
}

func TestKeys(t *testing.T) {
	t.Parallel()

	if got := (BundleReference{SymbolicName: "a.b", Version: "1.0"}).Key(); got != "a.b_1.0" {
		t.Errorf("bundle key = %q", got)
	}
	if got := (FeatureReference{ID: "f", Version: "2.0"}).Key(); got != "f_2.0" {
		t.Errorf("feature key = %q", got)
	}

	a := ResolvedArtifact{ArtifactID: "x.feature", Version: "1"}
	if got := a.KeyAs(KindFeature); got != "x.feature_1" {
		t.Errorf("feature without symbolic name keys on artifactId, got %q", got)
	}
}

func TestCacheLookup(t *testing.T) {
	t.Parallel()

	c := testCache()
	if c.Len(KindBundle) != 1 || c.Len(KindFeature) != 1 {
		t.Fatalf("unexpected cache sizes %d/%d", c.Len(KindBundle), c.Len(KindFeature))
	}

	if _, err := c.LookupBundle("org.example.core_1.0.0"); err != nil {
		t.Errorf("LookupBundle() error = %v", err)
	}

	_, err := c.LookupFeature("org.example.core_1.0.0")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if nf.Kind != KindFeature || !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("unexpected error %v", err)
	}
	if issue.ForError(err).Id() != issue.ArtifactNotFoundId {
		t.Error("NotFoundError should map to the artifact-not-found issue")
	}
}

func TestCacheResolve_Populates(t *testing.T) {
	t.Parallel()

	c := testCache()
	declaredBundles := []BundleReference{{SymbolicName: "org.example.core", Version: "1.0.0"}}
	declaredFeatures := []FeatureReference{{ID: "org.example.feature", Version: "1.0.0.SNAPSHOT"}}

	bundles, features, err := c.Resolve(declaredBundles, declaredFeatures)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	b := bundles[0]
	if b.GroupID != "org.example" || b.Type != "jar" || b.BundleVersion != "1.0.0" || b.File != "/repo/org.example.core-1.0.0.jar" {
		t.Errorf("bundle not populated: %+v", b)
	}
	if b.Compatibility != CompatibilityEquivalent {
		t.Errorf("compatibility default = %q", b.Compatibility)
	}

	f := features[0]
	if f.ID != "org.example.feature.resolved" {
		t.Errorf("feature id should become the resolved artifactId, got %q", f.ID)
	}
	if f.File != "/repo/org.example.feature-1.0.0.zip" || f.Coordinates() != "org.example:org.example.feature.resolved:1.0.0.SNAPSHOT" {
		t.Errorf("feature not populated: %+v", f)
	}

	if declaredFeatures[0].ID != "org.example.feature" || declaredBundles[0].File != "" {
		t.Error("Resolve must not modify the declared references")
	}
}

func TestCacheResolve_MissReturnsNothing(t *testing.T) {
	t.Parallel()

	c := testCache()
	bundles, features, err := c.Resolve(
		[]BundleReference{{SymbolicName: "org.example.core", Version: "1.0.0"}},
		[]FeatureReference{{ID: "org.example.other", Version: "1.0.0"}},
	)
	if !errors.Is(err, ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
	if bundles != nil || features != nil {
		t.Error("a miss must not return partially populated references")
	}
	if err.Error() != "feature org.example.other_1.0.0 not found in resolved artifacts" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCompatibilityValidate(t *testing.T) {
	t.Parallel()

	for _, c := range []Compatibility{"", CompatibilityEquivalent, CompatibilityCompatible, CompatibilityPerfect, CompatibilityGreaterOrEqual} {
		if err := c.Validate(); err != nil {
			t.Errorf("Compatibility(%q).Validate() = %v", c, err)
		}
	}
	if err := Compatibility("latest").Validate(); !errors.Is(err, ErrInvalidCompatibility) {
		t.Errorf("expected ErrInvalidCompatibility, got %v", err)
	}
	if err := Kind("module").Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind, got %v", err)
	}
}
