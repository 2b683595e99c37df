// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wso2/carbon-p2/internal/repository"
)

func newRepositoryCommand(app *App) *cobra.Command {
	repoCmd := &cobra.Command{
		Use:   "repository",
		Short: "Assemble and extend p2 repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	repoCmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Assemble the repository described by the build descriptor",
		Long: `Assemble the repository described by the build descriptor.

Resolved artifacts are read from the descriptor's manifest, staged into a
temporary tree, published with the features-and-bundles publisher and, when
categories are declared, categorized. The staging tree is always removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateRepository(cmd.Context(), app)
		},
	})

	repoCmd.AddCommand(&cobra.Command{
		Use:   "publish-product",
		Short: "Publish the descriptor's product definition into a repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return publishProduct(cmd.Context(), app)
		},
	})

	return repoCmd
}

func generateRepository(ctx context.Context, app *App) error {
	s, err := app.open(ctx)
	if err != nil {
		return newExitError(err, app.flags.verbose)
	}
	req, err := s.build.RepositoryRequest(s.defaults)
	if err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}

	pipeline := repository.New(s.runner, s.build.Resolver(),
		repository.WithLogger(s.logger.WithPrefix("repository")),
		repository.WithInvokerOptions(s.invokerOptions()...),
	)
	res, err := pipeline.Assemble(ctx, req)
	for _, w := range res.Warnings {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+w.Error())
	}
	if err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}

	location := res.RepositoryDir
	if res.ArchivePath != "" {
		location = res.ArchivePath
	}
	fmt.Fprintf(app.stdout, "%s Repository assembled at %s (%d bundles, %d features)\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(location), len(res.Bundles), len(res.Features))
	return nil
}

func publishProduct(ctx context.Context, app *App) error {
	s, err := app.open(ctx)
	if err != nil {
		return newExitError(err, app.flags.verbose)
	}
	req, err := s.build.ProductRequest(s.defaults)
	if err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}

	// The product publisher needs no artifacts, so no resolver is wired.
	pipeline := repository.New(s.runner, nil,
		repository.WithLogger(s.logger.WithPrefix("repository")),
		repository.WithInvokerOptions(s.invokerOptions()...),
	)
	if err := pipeline.PublishProduct(ctx, req); err != nil {
		return newExitError(err, app.verbose(s.cfg))
	}

	fmt.Fprintf(app.stdout, "%s Product %s published to %s\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(req.ProductFile), CmdStyle.Render(req.RepositoryDir))
	return nil
}
