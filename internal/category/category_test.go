// SPDX-License-Identifier: MPL-2.0

package category

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wso2/carbon-p2/internal/issue"
	"github.com/wso2/carbon-p2/internal/testutil"
)

func TestBuild_DeduplicatesFeatures(t *testing.T) {
	t.Parallel()

	categories := []Category{
		{ID: "c1", Label: "Core", Description: "core features", Features: []Feature{{ID: "f", Version: "1.0"}}},
		{ID: "c2", Label: "Extras", Features: []Feature{{ID: "f", Version: "1.0"}}},
	}

	site, err := NewBuilder(nil).Build(categories)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(site.Categories) != 2 || site.Categories[0].Name != "c1" || site.Categories[1].Name != "c2" {
		t.Fatalf("categories = %+v", site.Categories)
	}
	if len(site.Features) != 1 {
		t.Fatalf("want exactly one feature element, got %+v", site.Features)
	}
	f := site.Features[0]
	if f.ID != "f" || f.Version != "1.0.0" {
		t.Errorf("feature = %s %s, want f 1.0.0", f.ID, f.Version)
	}
	if len(f.Categories) != 2 || f.Categories[0].Name != "c1" || f.Categories[1].Name != "c2" {
		t.Errorf("memberships = %+v, want [c1 c2]", f.Categories)
	}
}

func TestBuild_FirstReferenceOrder(t *testing.T) {
	t.Parallel()

	categories := []Category{
		{ID: "a", Features: []Feature{{ID: "z.feature", Version: "2.0"}, {ID: "y.feature", Version: "1.0"}}},
		{ID: "b", Features: []Feature{{ID: "x.feature", Version: "1.0"}, {ID: "z.feature", Version: "2.0"}}},
	}
	site, err := NewBuilder(nil).Build(categories)
	if err != nil {
		t.Fatal(err)
	}

	var ids []string
	for _, f := range site.Features {
		ids = append(ids, f.ID)
	}
	if got := strings.Join(ids, ","); got != "z.feature,y.feature,x.feature" {
		t.Errorf("feature order = %s", got)
	}
}

func TestBuild_SameCategoryTwice(t *testing.T) {
	t.Parallel()

	site, err := NewBuilder(nil).Build([]Category{
		{ID: "c", Features: []Feature{{ID: "f", Version: "1.0"}, {ID: "f", Version: "1.0.0"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(site.Features) != 1 || len(site.Features[0].Categories) != 1 {
		t.Errorf("features = %+v, want one feature with one membership", site.Features)
	}
}

func TestBuild_DistinctVersions(t *testing.T) {
	t.Parallel()

	site, err := NewBuilder(nil).Build([]Category{
		{ID: "c", Features: []Feature{{ID: "f", Version: "1.0"}, {ID: "f", Version: "2.0"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(site.Features) != 2 {
		t.Errorf("different versions are distinct features, got %+v", site.Features)
	}
}

func TestBuild_Versions(t *testing.T) {
	t.Parallel()

	props := map[string]string{"carbon.version": "4.2.0-SNAPSHOT"}
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "1.0.0-SNAPSHOT", want: "1.0.0.SNAPSHOT"},
		{raw: "1.0", want: "1.0.0"},
		{raw: "${carbon.version}", want: "4.2.0.SNAPSHOT"},
		{raw: " 3 ", want: "3.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			site, err := NewBuilder(props).Build([]Category{{ID: "c", Features: []Feature{{ID: "f", Version: tt.raw}}}})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got := site.Features[0].Version; got != tt.want {
				t.Errorf("version = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		categories []Category
	}{
		{name: "empty category id", categories: []Category{{ID: " "}}},
		{name: "empty feature id", categories: []Category{{ID: "c", Features: []Feature{{Version: "1.0"}}}}},
		{name: "empty version", categories: []Category{{ID: "c", Features: []Feature{{ID: "f"}}}}},
		{name: "unterminated property", categories: []Category{{ID: "c", Features: []Feature{{ID: "f", Version: "1.0.${build"}}}}},
		{name: "unknown property", categories: []Category{{ID: "c", Features: []Feature{{ID: "f", Version: "${missing}"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewBuilder(map[string]string{"x": "1"}).Build(tt.categories)
			if !errors.Is(err, ErrDescriptorBuild) {
				t.Fatalf("Build() error = %v, want descriptor build failure", err)
			}
			if got := issue.ForError(err); got == nil || got.Id() != issue.DescriptorBuildFailureId {
				t.Errorf("issue.ForError() = %v", got)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "category.xml")
	_, err := NewBuilder(nil).WriteFile([]Category{
		{ID: "c1", Label: "Core", Description: "core features", Features: []Feature{{ID: "f", Version: "1.0"}}},
		{ID: "c2", Label: "Extras", Description: "extras", Features: []Feature{{ID: "f", Version: "1.0"}}},
	}, path)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	want := `<?xml version="1.0" encoding="UTF-8"?>
<site>
  <category-def name="c1" label="Core">
    <description>core features</description>
  </category-def>
  <category-def name="c2" label="Extras">
    <description>extras</description>
  </category-def>
  <feature id="f" version="1.0.0">
    <category name="c1"></category>
    <category name="c2"></category>
  </feature>
</site>
`
	if got := testutil.MustReadFile(t, path); got != want {
		t.Errorf("category.xml mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteFile_Unwritable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "category.xml")
	_, err := NewBuilder(nil).WriteFile([]Category{{ID: "c"}}, path)
	if !errors.Is(err, ErrDescriptorBuild) {
		t.Errorf("WriteFile() error = %v", err)
	}
}
