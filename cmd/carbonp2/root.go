// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/wso2/carbon-p2/internal/descriptor"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the carbon-p2 command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "carbon-p2",
		Short: "Assemble p2 repositories and manage installed profiles",
		Long: TitleStyle.Render("carbon-p2") + SubtitleStyle.Render(" - p2 repository assembly and profile lifecycle") + `

carbon-p2 stages resolved bundles and features, publishes them as a p2
repository through the Eclipse launcher, applies category metadata and
installs or removes features in a profile.

Builds are described in '` + descriptor.DefaultFileName + `' (CUE). Tool settings live in
config.cue in the user configuration directory.

` + SubtitleStyle.Render("Examples:") + `
  carbon-p2 plan                      Show the tool calls a build would make
  carbon-p2 repository generate       Assemble the repository
  carbon-p2 profile install           Install the descriptor's features
  carbon-p2 explain tool-timeout      Explain a failure`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configFile, "config", "", "config file (default is <user config dir>/carbon-p2/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&app.flags.descriptor, "descriptor", "f", descriptor.DefaultFileName, "build descriptor")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newRepositoryCommand(app))
	rootCmd.AddCommand(newProfileCommand(app))
	rootCmd.AddCommand(newPlanCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newExplainCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code of the failure, if any.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(ExitFailure))
	}
}
