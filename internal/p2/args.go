// SPDX-License-Identifier: MPL-2.0

package p2

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wso2/carbon-p2/internal/issue"
)

const (
	// InstallFeaturesProperty enables or disables feature installation in
	// -profileProperties.
	InstallFeaturesProperty = "org.eclipse.update.install.features"

	// FeatureGroupSuffix is appended to a feature id to address the feature's
	// group unit rather than the feature jar.
	FeatureGroupSuffix = ".feature.group"

	// ProductConfig is the os/ws/arch triple products are published for.
	ProductConfig = "gtk.linux.x86"
	// ProductFlavor is the configuration flavor used for product publishing.
	ProductFlavor = "tooling"

	productOS   = "linux"
	productWS   = "gtk"
	productArch = "x86"
)

type (
	// IU identifies one installable unit by id and version.
	IU struct {
		ID      string
		Version string
	}

	// Layout is the on-disk shape of an installation: a shared bundle pool
	// under <destination>/lib and one directory per profile.
	Layout struct {
		Destination string
		Profile     string
	}

	// RepositoryGeneration describes a features-and-bundles publish.
	RepositoryGeneration struct {
		Source                 string
		MetadataRepository     string
		MetadataRepositoryName string
		ArtifactRepository     string
		ArtifactRepositoryName string
	}

	// ProductPublication describes a product publish.
	ProductPublication struct {
		MetadataRepository string
		ArtifactRepository string
		ProductFile        string
		Executables        string
	}
)

// FeatureGroupID returns the group unit id of a feature.
func FeatureGroupID(featureID string) string {
	if strings.HasSuffix(featureID, FeatureGroupSuffix) {
		return featureID
	}
	return featureID + FeatureGroupSuffix
}

// IUList joins units as a comma-separated id/version list. Ids and versions
// are trimmed; the order of units is kept. An empty list, or a unit whose id
// or version is blank, is a configuration error.
func IUList(units []IU) (string, error) {
	if len(units) == 0 {
		return "", issue.NewConfigurationError("features", "at least one feature is required")
	}
	parts := make([]string, 0, len(units))
	for i, u := range units {
		id, version := strings.TrimSpace(u.ID), strings.TrimSpace(u.Version)
		if id == "" || version == "" {
			return "", issue.NewConfigurationError(fmt.Sprintf("features[%d]", i), "id and version must not be empty")
		}
		parts = append(parts, id+"/"+version)
	}
	return strings.Join(parts, ","), nil
}

// BundlePool is <destination>/lib.
func (l Layout) BundlePool() string { return filepath.Join(l.Destination, "lib") }

// Shared is <destination>/lib/p2, the shared p2 data area.
func (l Layout) Shared() string { return filepath.Join(l.Destination, "lib", "p2") }

// ProfileDir is <destination>/<profile>.
func (l Layout) ProfileDir() string { return filepath.Join(l.Destination, l.Profile) }

// ProfileRegistry is the directory holding the profile's snapshot files.
func (l Layout) ProfileRegistry() string {
	return filepath.Join(l.Destination, "p2", "org.eclipse.equinox.p2.engine", "profileRegistry", l.Profile+".profile")
}

// ConfigIni is the profile's configuration/config.ini.
func (l Layout) ConfigIni() string {
	return filepath.Join(l.ProfileDir(), "configuration", "config.ini")
}

// EclipseIni is the profile's launcher ini file.
func (l Layout) EclipseIni() string { return filepath.Join(l.ProfileDir(), "eclipse.ini") }

// GenerateRepository builds the features-and-bundles publisher call.
func GenerateRepository(g RepositoryGeneration) Invocation {
	return Invocation{
		Application: ApplicationFeaturesAndBundlesPublisher,
		Args: []string{
			"-source", g.Source,
			"-metadataRepository", g.MetadataRepository,
			"-metadataRepositoryName", g.MetadataRepositoryName,
			"-artifactRepository", g.ArtifactRepository,
			"-artifactRepositoryName", g.ArtifactRepositoryName,
			"-publishArtifacts",
			"-publishArtifactRepository",
			"-compress",
			"-append",
		},
	}
}

// UpdateCategories builds the category publisher call. categoryDefinition is
// a file: URI.
func UpdateCategories(metadataRepository, categoryDefinition string) Invocation {
	return Invocation{
		Application: ApplicationCategoryPublisher,
		Args: []string{
			"-metadataRepository", metadataRepository,
			"-categoryDefinition", categoryDefinition,
			"-categoryQualifier",
			"-compress",
			"-append",
		},
	}
}

// InstallFeatures builds the director call that installs ius (an IUList)
// into the layout's profile.
func InstallFeatures(repository, ius string, l Layout) Invocation {
	return Invocation{
		Application: ApplicationDirector,
		Args: []string{
			"-metadataRepository", repository,
			"-artifactRepository", repository,
			"-profileProperties", InstallFeaturesProperty + "=true",
			"-installIU", ius,
			"-bundlepool", l.BundlePool(),
			"-shared", l.Shared(),
			"-destination", l.ProfileDir(),
			"-profile", l.Profile,
			"-roaming",
		},
	}
}

// UninstallFeatures builds the director call that removes ius from the
// layout's profile.
func UninstallFeatures(ius string, l Layout) Invocation {
	return Invocation{
		Application: ApplicationDirector,
		Args: []string{
			"-profileProperties", InstallFeaturesProperty + "=false",
			"-uninstallIU", ius,
			"-shared", l.Shared(),
			"-destination", l.ProfileDir(),
			"-profile", l.Profile,
		},
	}
}

// GenerateProfile builds the director call that materializes a product as a
// new profile.
func GenerateProfile(repository, productID string, l Layout) Invocation {
	return Invocation{
		Application: ApplicationDirector,
		Args: []string{
			"-metadataRepository", repository,
			"-artifactRepository", repository,
			"-installIU", productID,
			"-profileProperties", InstallFeaturesProperty + "=true",
			"-profile", l.Profile,
			"-bundlepool", l.BundlePool(),
			"-shared", l.Shared(),
			"-destination", l.ProfileDir(),
			"-p2.os", productOS,
			"-p2.ws", productWS,
			"-p2.arch", productArch,
			"-roaming",
		},
	}
}

// PublishProduct builds the product publisher call.
func PublishProduct(p ProductPublication) Invocation {
	return Invocation{
		Application: ApplicationProductPublisher,
		Args: []string{
			"-metadataRepository", p.MetadataRepository,
			"-artifactRepository", p.ArtifactRepository,
			"-productFile", p.ProductFile,
			"-executables", p.Executables,
			"-publishArtifacts",
			"-configs", ProductConfig,
			"-flavor", ProductFlavor,
			"-append",
		},
	}
}

// FileURI returns the file: URI of path, made absolute first.
func FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "file:" + filepath.ToSlash(abs), nil
}
