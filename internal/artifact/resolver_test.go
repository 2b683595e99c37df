// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wso2/carbon-p2/internal/testutil"
)

const sampleManifest = `
[[bundle]]
group_id      = "org.example"
artifact_id   = "org.example.core"
version       = "1.0.0"
symbolic_name = "org.example.core"
bundle_version = "1.0.0"
type          = "jar"
file          = "lib/org.example.core-1.0.0.jar"

[[feature]]
group_id    = "org.example"
artifact_id = "org.example.feature"
version     = "1.0.0.SNAPSHOT"
type        = "zip"
file        = "/abs/org.example.feature.zip"
`

func TestManifestResolver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultManifestName)
	testutil.MustWriteFile(t, path, sampleManifest)

	r := NewManifestResolver(path)
	bundles, features, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(bundles) != 1 || len(features) != 1 {
		t.Fatalf("got %d bundles, %d features", len(bundles), len(features))
	}
	if want := filepath.Join(dir, "lib", "org.example.core-1.0.0.jar"); bundles[0].File != want {
		t.Errorf("relative file = %q, want %q", bundles[0].File, want)
	}
	if features[0].File != "/abs/org.example.feature.zip" {
		t.Errorf("absolute file rewritten: %q", features[0].File)
	}

	c := NewCache(bundles, features)
	if _, err := c.LookupFeature("org.example.feature_1.0.0.SNAPSHOT"); err != nil {
		t.Errorf("manifest feature not keyed by artifactId: %v", err)
	}
}

func TestManifestResolver_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
		invalid bool
	}{
		{
			name:    "bundle without symbolic name",
			content: "[[bundle]]\nartifact_id = \"a\"\nversion = \"1\"\nfile = \"a.jar\"\n",
			want:    "bundle[0]",
			invalid: true,
		},
		{
			name:    "feature without file",
			content: "[[feature]]\nartifact_id = \"f\"\nversion = \"1\"\n",
			want:    "file is required",
			invalid: true,
		},
		{
			name:    "unknown key",
			content: "[[feature]]\nartifactid = \"f\"\n",
			want:    "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), DefaultManifestName)
			testutil.MustWriteFile(t, path, tt.content)

			_, _, err := NewManifestResolver(path).Resolve(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want containing %q", err, tt.want)
			}
			if tt.invalid && !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("expected ErrInvalidManifest, got %v", err)
			}
		})
	}
}

func TestManifestResolver_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := NewManifestResolver("unused").Resolve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStaticResolver(t *testing.T) {
	t.Parallel()

	s := StaticResolver{Features: []ResolvedArtifact{{ArtifactID: "f", Version: "1"}}}
	b, f, err := s.Resolve(context.Background())
	if err != nil || len(b) != 0 || len(f) != 1 {
		t.Errorf("Resolve() = %v, %v, %v", b, f, err)
	}
}
