// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/wso2/carbon-p2/internal/artifact"
	"github.com/wso2/carbon-p2/internal/category"
	"github.com/wso2/carbon-p2/internal/issue"
	"github.com/wso2/carbon-p2/internal/p2"
	"github.com/wso2/carbon-p2/internal/profile"
	"github.com/wso2/carbon-p2/internal/repository"
)

// Defaults fill the values a descriptor leaves unset.
type Defaults struct {
	Timeout time.Duration
	Profile string
}

// Dir returns the absolute directory of the descriptor.
func (b *Build) Dir() string { return b.dir }

// Base returns the project directory.
func (b *Build) Base() string {
	if b.BaseDir == "" {
		return b.dir
	}
	if filepath.IsAbs(b.BaseDir) {
		return filepath.Clean(b.BaseDir)
	}
	return filepath.Join(b.dir, b.BaseDir)
}

// Target returns the build output directory.
func (b *Build) Target() string {
	if b.TargetDir == "" {
		return filepath.Join(b.Base(), "target")
	}
	return b.path(b.TargetDir)
}

// Resolver returns the manifest resolver of the build.
func (b *Build) Resolver() *artifact.ManifestResolver {
	manifest := b.Manifest
	if manifest == "" {
		manifest = artifact.DefaultManifestName
	}
	return artifact.NewManifestResolver(b.path(manifest))
}

// RepositoryRequest converts the repository section.
func (b *Build) RepositoryRequest(d Defaults) (repository.Request, error) {
	r := b.Repository
	if r == nil {
		return repository.Request{}, missingSection("repository")
	}

	req := repository.Request{
		BaseDir:    b.Base(),
		TargetDir:  b.Target(),
		ArtifactID: r.ArtifactID,
		Version:    r.Version,
		Name:       r.Name,
		Archive:    r.Archive,
		Properties: b.Properties,
		Timeout:    b.timeout(d),
	}
	if r.OutputDir != "" {
		req.RepositoryDir = b.path(r.OutputDir)
	}
	for _, dir := range r.ResourceDirs {
		req.ResourceDirs = append(req.ResourceDirs, b.path(dir))
	}
	for _, bundle := range r.Bundles {
		req.Bundles = append(req.Bundles, artifact.BundleReference{
			SymbolicName:  bundle.SymbolicName,
			Version:       bundle.Version,
			Compatibility: artifact.Compatibility(bundle.Compatibility),
		})
	}
	for _, f := range r.Features {
		req.Features = append(req.Features, artifact.FeatureReference{
			ID:            f.ID,
			Version:       f.Version,
			Compatibility: artifact.Compatibility(f.Compatibility),
		})
	}
	for _, c := range r.Categories {
		cat := category.Category{ID: c.ID, Label: c.Label, Description: c.Description}
		for _, f := range c.Features {
			cat.Features = append(cat.Features, category.Feature{ID: f.ID, Version: f.Version})
		}
		req.Categories = append(req.Categories, cat)
	}
	return req, nil
}

// ProductRequest converts the product section. The repository defaults to
// the repository section's output directory.
func (b *Build) ProductRequest(d Defaults) (repository.ProductRequest, error) {
	p := b.Product
	if p == nil {
		return repository.ProductRequest{}, missingSection("product")
	}

	repoDir := b.path(p.Repository)
	if repoDir == "" {
		loc, err := b.repositoryLocation()
		if err != nil {
			return repository.ProductRequest{}, issue.NewConfigurationError("product.repository", "must be set when there is no repository section")
		}
		repoDir = loc
	}
	return repository.ProductRequest{
		BaseDir:       b.Base(),
		RepositoryDir: repoDir,
		ProductFile:   b.path(p.File),
		Executables:   b.path(p.Executables),
		Timeout:       b.timeout(d),
	}, nil
}

// InstallRequest converts the profile section for an install.
func (b *Build) InstallRequest(d Defaults) (profile.InstallRequest, error) {
	p := b.Profile
	if p == nil {
		return profile.InstallRequest{}, missingSection("profile")
	}
	repo, err := b.profileRepository()
	if err != nil {
		return profile.InstallRequest{}, err
	}
	return profile.InstallRequest{
		Destination:     b.path(p.Destination),
		Profile:         b.profileName(d),
		Repository:      repo,
		Features:        units(p.Features),
		FeatureGroups:   p.FeatureGroups,
		KeepOldProfiles: p.KeepOldProfiles,
		Timeout:         b.timeout(d),
	}, nil
}

// UninstallRequest converts the profile section for an uninstall.
func (b *Build) UninstallRequest(d Defaults) (profile.UninstallRequest, error) {
	p := b.Profile
	if p == nil {
		return profile.UninstallRequest{}, missingSection("profile")
	}
	return profile.UninstallRequest{
		Destination:   b.path(p.Destination),
		Profile:       b.profileName(d),
		Features:      units(p.Features),
		FeatureGroups: p.FeatureGroups,
		Timeout:       b.timeout(d),
	}, nil
}

// GenerateRequest converts the profile section for profile generation.
func (b *Build) GenerateRequest(d Defaults) (profile.GenerateRequest, error) {
	p := b.Profile
	if p == nil {
		return profile.GenerateRequest{}, missingSection("profile")
	}
	repo, err := b.profileRepository()
	if err != nil {
		return profile.GenerateRequest{}, err
	}
	return profile.GenerateRequest{
		Destination: b.path(p.Destination),
		Profile:     b.profileName(d),
		Repository:  repo,
		ProductID:   p.ProductID,
		Timeout:     b.timeout(d),
	}, nil
}

// Layout returns the installation layout of the profile section.
func (b *Build) Layout(d Defaults) (p2.Layout, error) {
	if b.Profile == nil {
		return p2.Layout{}, missingSection("profile")
	}
	return p2.Layout{Destination: b.path(b.Profile.Destination), Profile: b.profileName(d)}, nil
}

func (b *Build) profileName(d Defaults) string {
	switch {
	case b.Profile != nil && b.Profile.Name != "":
		return b.Profile.Name
	case d.Profile != "":
		return d.Profile
	default:
		return profile.DefaultProfile
	}
}

// profileRepository returns the profile's repository as a URI. Paths are made
// absolute; without one, the repository section's output directory is used.
func (b *Build) profileRepository() (string, error) {
	repo := b.Profile.Repository
	if isURI(repo) {
		return repo, nil
	}
	dir := b.path(repo)
	if dir == "" {
		loc, err := b.repositoryLocation()
		if err != nil {
			return "", issue.NewConfigurationError("profile.repository", "must be set when there is no repository section")
		}
		dir = loc
	}
	return p2.FileURI(dir)
}

func (b *Build) repositoryLocation() (string, error) {
	req, err := b.RepositoryRequest(Defaults{})
	if err != nil {
		return "", err
	}
	return req.RepositoryLocation(), nil
}

func (b *Build) timeout(d Defaults) time.Duration {
	if b.TimeoutSeconds != nil {
		return time.Duration(*b.TimeoutSeconds) * time.Second
	}
	return d.Timeout
}

// path resolves p against the project directory. Empty stays empty.
func (b *Build) path(p string) string {
	switch {
	case p == "":
		return ""
	case filepath.IsAbs(p):
		return filepath.Clean(p)
	default:
		return filepath.Join(b.Base(), p)
	}
}

func isURI(s string) bool {
	return strings.HasPrefix(s, "file:") || strings.Contains(s, "://")
}

func units(in []Unit) []p2.IU {
	out := make([]p2.IU, 0, len(in))
	for _, u := range in {
		out = append(out, p2.IU{ID: u.ID, Version: u.Version})
	}
	return out
}

func missingSection(name string) error {
	return issue.NewConfigurationError(name, "section missing from build descriptor")
}
