// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	ArtifactNotFoundId Id = iota + 1
	StagingIOFailureId
	ExternalToolFailureId
	DescriptorBuildFailureId
	ConfigurationFailureId
	LauncherNotFoundId
	BuildDescriptorInvalidId
	ToolTimeoutId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	// Identified is implemented by typed errors that have a catalog entry.
	Identified interface {
		IssueID() Id
	}

	Issue struct {
		id       Id          // ID used to lookup the issue
		name     string      // stable slug used by 'carbon-p2 explain'
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // must never be empty
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Name() string {
	return i.name
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
		for _, link := range i.extLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

const p2Docs HttpLink = "https://help.eclipse.org/latest/topic/org.eclipse.platform.doc.isv/guide/p2_publisher.html"

var (
	render = glamour.Render

	catalog = []*Issue{
		{
			id:   ArtifactNotFoundId,
			name: "artifact-not-found",
			mdMsg: `
# A declared artifact was not resolved

A bundle or feature listed in the build descriptor has no entry in the
resolved artifact manifest. Nothing was written to disk.

## Things you can try
- Check that the symbolic name (bundles) or feature id and the version match
  the manifest exactly; keys look like ~org.example.bundle_1.0.0~.
- Regenerate the manifest after adding the dependency to your build.`,
			docLinks: []HttpLink{p2Docs},
		},
		{
			id:   StagingIOFailureId,
			name: "staging-io-failure",
			mdMsg: `
# The staging tree could not be prepared

Extracting a feature archive or copying a bundle or resource failed.

## Things you can try
- Make sure the target directory is writable.
- Verify the feature archive is a valid zip file.
- Remove stale ~tmp.*~ directories left in the target directory.`,
			docLinks: []HttpLink{p2Docs},
		},
		{
			id:   ExternalToolFailureId,
			name: "external-tool-failure",
			mdMsg: `
# The p2 application exited with an error

The Equinox launcher returned a non-zero exit status. The repository or
profile may be partially updated: p2 has no undo operation.

## Things you can try
- Re-run with ~--verbose~ to stream the launcher console.
- Run ~carbon-p2 plan~ to inspect the exact argument vector.
- Check that every installable unit exists in the metadata repository.`,
			docLinks: []HttpLink{p2Docs},
		},
		{
			id:   DescriptorBuildFailureId,
			name: "descriptor-build-failure",
			mdMsg: `
# The category descriptor could not be built

A category or one of its features is incomplete, or a version uses an
unterminated ~${property}~ expression.`,
			docLinks: []HttpLink{p2Docs},
		},
		{
			id:   ConfigurationFailureId,
			name: "configuration-failure",
			mdMsg: `
# Required configuration is missing

The operation was rejected before any file was touched.

## Things you can try
- Set the destination and at least one feature for profile operations.
- Run ~carbon-p2 config show~ to review the effective tool settings.`,
			docLinks: []HttpLink{p2Docs},
		},
		{
			id:   LauncherNotFoundId,
			name: "launcher-not-found",
			mdMsg: `
# The Equinox launcher could not be started

carbon-p2 runs p2 applications through an Eclipse launcher binary.

## Things you can try
- Point ~launcher~ in config.cue, or ~CARBON_P2_LAUNCHER~, at an Eclipse
  or Equinox launcher executable.`,
			docLinks: []HttpLink{p2Docs},
		},
		{
			id:   BuildDescriptorInvalidId,
			name: "build-descriptor-invalid",
			mdMsg: `
# The build descriptor is invalid

~p2build.cue~ did not validate against the #Build schema. The error message
names the offending field path.`,
			docLinks: []HttpLink{"https://cuelang.org/docs/"},
		},
		{
			id:   ToolTimeoutId,
			name: "tool-timeout",
			mdMsg: `
# The p2 application timed out

The process was killed after the configured timeout.

## Things you can try
- Raise ~timeout_seconds~ (0 disables the timeout).`,
			docLinks: []HttpLink{p2Docs},
		},
	}

	issues = func() map[Id]*Issue {
		m := make(map[Id]*Issue, len(catalog))
		for _, i := range catalog {
			i.mdMsg = MarkdownMsg(strings.ReplaceAll(string(i.mdMsg), "~", "`"))
			m[i.id] = i
		}
		return m
	}()
)

// Values returns every catalog entry in id order.
func Values() []*Issue {
	return slices.Clone(catalog)
}

func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds an issue by its slug.
func Lookup(name string) *Issue {
	for _, i := range catalog {
		if i.name == name {
			return i
		}
	}
	return nil
}

// ForError returns the catalog entry for the first Identified error in the
// chain, or nil.
func ForError(err error) *Issue {
	var ident Identified
	if errors.As(err, &ident) {
		return Get(ident.IssueID())
	}
	return nil
}
