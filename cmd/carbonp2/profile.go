// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wso2/carbon-p2/internal/profile"
)

func newProfileCommand(app *App) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Install, uninstall and generate profiles",
		Long: `Install, uninstall and generate profiles.

The profile section of the build descriptor names the destination, the
profile and the features. Installs prune older profile registry snapshots
unless keep_old_profiles is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	profileCmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Install the descriptor's features into the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return installFeatures(cmd.Context(), app)
		},
	})

	profileCmd.AddCommand(&cobra.Command{
		Use:   "uninstall",
		Short: "Remove the descriptor's features from the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return uninstallFeatures(cmd.Context(), app)
		},
	})

	profileCmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Materialize the descriptor's product as a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateProfile(cmd.Context(), app)
		},
	})

	profileCmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest profile registry snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pruneProfile(cmd.Context(), app)
		},
	})

	return profileCmd
}

func (s *session) profileManager() *profile.Manager {
	return profile.New(s.runner,
		profile.WithLogger(s.logger.WithPrefix("profile")),
		profile.WithRetentionOrder(s.cfg.RetentionOrder),
		profile.WithInvokerOptions(s.invokerOptions()...),
	)
}

func installFeatures(ctx context.Context, app *App) error {
	s, err := app.open(ctx)
	if err != nil {
		return newExitError(err, app.flags.verbose)
	}
	req, err := s.build.InstallRequest(s.defaults)
	if err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}
	if err := s.profileManager().Install(ctx, req); err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}

	fmt.Fprintf(app.stdout, "%s Installed %d feature(s) into %s\n",
		SuccessStyle.Render("✓"), len(req.Features), CmdStyle.Render(req.Layout().ProfileDir()))
	return nil
}

func uninstallFeatures(ctx context.Context, app *App) error {
	s, err := app.open(ctx)
	if err != nil {
		return newExitError(err, app.flags.verbose)
	}
	req, err := s.build.UninstallRequest(s.defaults)
	if err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}
	if err := s.profileManager().Uninstall(ctx, req); err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}

	fmt.Fprintf(app.stdout, "%s Uninstalled %d feature(s) from %s\n",
		SuccessStyle.Render("✓"), len(req.Features), CmdStyle.Render(req.Layout().ProfileDir()))
	return nil
}

func generateProfile(ctx context.Context, app *App) error {
	s, err := app.open(ctx)
	if err != nil {
		return newExitError(err, app.flags.verbose)
	}
	req, err := s.build.GenerateRequest(s.defaults)
	if err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}
	if err := s.profileManager().GenerateProfile(ctx, req); err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}

	fmt.Fprintf(app.stdout, "%s Generated profile %s from %s\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(req.Layout().Profile), CmdStyle.Render(req.ProductID))
	return nil
}

func pruneProfile(ctx context.Context, app *App) error {
	s, err := app.open(ctx)
	if err != nil {
		return newExitError(err, app.flags.verbose)
	}
	layout, err := s.build.Layout(s.defaults)
	if err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}
	removed, err := s.profileManager().Prune(layout)
	if err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}

	if len(removed) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("Nothing to prune in "+layout.ProfileRegistry()))
		return nil
	}
	for _, path := range removed {
		fmt.Fprintf(app.stdout, "  - %s\n", path)
	}
	fmt.Fprintf(app.stdout, "%s Removed %d snapshot(s)\n", SuccessStyle.Render("✓"), len(removed))
	return nil
}
