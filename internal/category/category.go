// SPDX-License-Identifier: MPL-2.0

package category

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/wso2/carbon-p2/internal/issue"
	"github.com/wso2/carbon-p2/pkg/osgi"
)

// ErrDescriptorBuild is the sentinel error wrapped by BuildError.
var ErrDescriptorBuild = errors.New("category descriptor build failure")

type (
	// Feature is a feature referenced by a category. Version may contain
	// ${property} expressions.
	Feature struct {
		ID      string
		Version string
	}

	// Category groups features under an id shown to installers.
	Category struct {
		ID          string
		Label       string
		Description string
		Features    []Feature
	}

	// Site is the root of a category definition document.
	Site struct {
		XMLName    xml.Name      `xml:"site"`
		Categories []CategoryDef `xml:"category-def"`
		Features   []SiteFeature `xml:"feature"`
	}

	// CategoryDef declares one category.
	CategoryDef struct {
		Name        string `xml:"name,attr"`
		Label       string `xml:"label,attr"`
		Description string `xml:"description"`
	}

	// SiteFeature lists the categories a feature belongs to.
	SiteFeature struct {
		ID         string       `xml:"id,attr"`
		Version    string       `xml:"version,attr"`
		Categories []Membership `xml:"category"`
	}

	// Membership names one category of a feature.
	Membership struct {
		Name string `xml:"name,attr"`
	}

	// BuildError is a category definition that could not be produced.
	BuildError struct {
		Category string
		Feature  string
		Reason   string
		Err      error
	}

	// Builder turns categories into a Site, expanding project properties in
	// feature versions.
	Builder struct {
		properties map[string]string
	}
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	var b strings.Builder
	b.WriteString("cannot build category definition")
	if e.Category != "" {
		fmt.Fprintf(&b, " (category %q", e.Category)
		if e.Feature != "" {
			fmt.Fprintf(&b, ", feature %q", e.Feature)
		}
		b.WriteString(")")
	}
	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes ErrDescriptorBuild and the cause, if any.
func (e *BuildError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDescriptorBuild}
	}
	return []error{ErrDescriptorBuild, e.Err}
}

// IssueID links the error to its catalog entry.
func (e *BuildError) IssueID() issue.Id { return issue.DescriptorBuildFailureId }

// NewBuilder creates a Builder. properties may be nil.
func NewBuilder(properties map[string]string) *Builder {
	return &Builder{properties: properties}
}

// Build produces the site for categories. Category definitions keep their
// declaration order. Each distinct feature (id and normalized version) is
// listed once, in order of first reference, with one membership per
// referencing category.
func (b *Builder) Build(categories []Category) (*Site, error) {
	site := &Site{}
	index := make(map[string]int)

	for _, c := range categories {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, &BuildError{Reason: "category id must not be empty"}
		}
		label := c.Label
		if label == "" {
			label = id
		}
		site.Categories = append(site.Categories, CategoryDef{Name: id, Label: label, Description: c.Description})

		for _, f := range c.Features {
			fid := strings.TrimSpace(f.ID)
			if fid == "" {
				return nil, &BuildError{Category: id, Reason: "feature id must not be empty"}
			}
			version, err := b.version(f.Version)
			if err != nil {
				return nil, &BuildError{Category: id, Feature: fid, Err: err}
			}

			key := fid + "_" + version
			pos, seen := index[key]
			if !seen {
				pos = len(site.Features)
				index[key] = pos
				site.Features = append(site.Features, SiteFeature{ID: fid, Version: version})
			}
			member := Membership{Name: id}
			if !slices.Contains(site.Features[pos].Categories, member) {
				site.Features[pos].Categories = append(site.Features[pos].Categories, member)
			}
		}
	}
	return site, nil
}

func (b *Builder) version(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("feature version must not be empty")
	}
	expanded := osgi.ExpandProperties(raw, b.properties)
	if unterminatedExpression(expanded) {
		return "", fmt.Errorf("malformed property expression in %q", raw)
	}
	return osgi.NormalizeVersion(expanded)
}

func unterminatedExpression(s string) bool {
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			return false
		}
		j := strings.IndexByte(s[i:], '}')
		if j < 0 {
			return true
		}
		s = s[i+j+1:]
	}
}

// Marshal renders the site as an indented XML document with a header.
func (s *Site) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, &BuildError{Reason: "marshal category definition", Err: err}
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	return append(out, '\n'), nil
}

// WriteFile builds the site for categories and writes it to path.
func (b *Builder) WriteFile(categories []Category, path string) (*Site, error) {
	site, err := b.Build(categories)
	if err != nil {
		return nil, err
	}
	data, err := site.Marshal()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, &BuildError{Reason: "write " + path, Err: err}
	}
	return site, nil
}
