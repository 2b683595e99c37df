// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wso2/carbon-p2/internal/config"
)

// newConfigCommand creates the `carbon-p2 config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage carbon-p2 configuration",
		Long: `Manage carbon-p2 configuration.

Configuration is stored in:
  - Linux: ~/.config/carbon-p2/config.cue
  - macOS: ~/Library/Application Support/carbon-p2/config.cue
  - Windows: %APPDATA%\carbon-p2\config.cue

Every setting can be overridden with a ` + config.EnvPrefix + `_<KEY> environment
variable, e.g. ` + config.EnvPrefix + `_LAUNCHER or ` + config.EnvPrefix + `_TIMEOUT_SECONDS.
` + config.ConfigDirEnv + ` moves the configuration directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return newExitError(err, app.flags.verbose)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	loaded, err := app.loadSettings(ctx)
	if err != nil {
		return newExitError(err, app.flags.verbose)
	}
	cfg := loaded.Config

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	out := app.stdout

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	source := SubtitleStyle.Render("(using defaults)")
	if loaded.Source != "" {
		source = loaded.Source
	}
	fmt.Fprintf(out, "%s: %s\n\n", keyStyle.Render("Config file"), source)

	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("launcher"), valueStyle.Render(cfg.Launcher))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("timeout_seconds"), valueStyle.Render(fmt.Sprint(cfg.TimeoutSeconds)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("log_level"), valueStyle.Render(cfg.LogLevel.String()))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("default_profile"), valueStyle.Render(cfg.DefaultProfile))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("retention_order"), valueStyle.Render(cfg.RetentionOrder.String()))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))

	return nil
}

func initConfig(app *App) error {
	path, err := config.CreateDefaultConfig("")
	if err != nil {
		return newExitError(fmt.Errorf("failed to create config: %w", err), app.flags.verbose)
	}
	fmt.Fprintf(app.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
