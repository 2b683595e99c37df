// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/wso2/carbon-p2/internal/config"
	"github.com/wso2/carbon-p2/internal/descriptor"
	"github.com/wso2/carbon-p2/internal/p2"
	"github.com/wso2/carbon-p2/internal/profile"
	"github.com/wso2/carbon-p2/internal/repository"
)

const (
	planRepository = "repository"
	planProduct    = "publish-product"
	planInstall    = "install"
	planUninstall  = "uninstall"
	planGenerate   = "generate"
)

var planOperations = []string{planRepository, planProduct, planInstall, planUninstall, planGenerate}

// plannedOperation is one operation of a plan with the tool calls it makes.
type plannedOperation struct {
	name        string
	invocations []p2.Invocation
}

func newPlanCommand(app *App) *cobra.Command {
	var raw bool

	planCmd := &cobra.Command{
		Use:   "plan [operation...]",
		Short: "Show the tool calls the build descriptor leads to, without running them",
		Long: `Show the tool calls the build descriptor leads to, without running them.

Operations: ` + strings.Join(planOperations, ", ") + `. Without arguments every
operation the descriptor has a section for is shown. The staging directory
appears as ` + repository.PlannedStagingRoot + `.`,
		ValidArgs: planOperations,
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showPlan(cmd.Context(), app, args, raw)
		},
	}
	planCmd.Flags().BoolVar(&raw, "raw", false, "print plain markdown instead of rendering it")

	return planCmd
}

func showPlan(ctx context.Context, app *App, ops []string, raw bool) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return newExitError(err, app.flags.verbose)
	}
	build, err := descriptor.Load(app.flags.descriptor)
	if err != nil {
		return newExitError(err, app.verbose(cfg))
	}
	defaults := descriptor.Defaults{Timeout: cfg.Timeout(), Profile: cfg.DefaultProfile}

	if len(ops) == 0 {
		ops = availableOperations(build)
	}
	planned, err := buildPlan(build, defaults, ops)
	if err != nil {
		return newExitError(err, app.verbose(cfg))
	}

	md := planMarkdown(cfg.Launcher, planned)
	if raw {
		fmt.Fprint(app.stdout, md)
		return nil
	}
	rendered, err := glamour.Render(md, glamourStyle(cfg.UI.ColorScheme))
	if err != nil {
		fmt.Fprint(app.stdout, md)
		return nil
	}
	fmt.Fprint(app.stdout, rendered)
	return nil
}

// availableOperations lists the operations the descriptor has sections for.
func availableOperations(b *descriptor.Build) []string {
	var ops []string
	if b.Repository != nil {
		ops = append(ops, planRepository)
	}
	if b.Product != nil {
		ops = append(ops, planProduct)
	}
	if b.Profile != nil {
		if len(b.Profile.Features) > 0 {
			ops = append(ops, planInstall, planUninstall)
		}
		if b.Profile.ProductID != "" {
			ops = append(ops, planGenerate)
		}
	}
	return ops
}

func buildPlan(b *descriptor.Build, d descriptor.Defaults, ops []string) ([]plannedOperation, error) {
	planned := make([]plannedOperation, 0, len(ops))
	for _, op := range slices.Compact(slices.Clone(ops)) {
		var (
			invs []p2.Invocation
			err  error
		)
		switch op {
		case planRepository:
			var req repository.Request
			if req, err = b.RepositoryRequest(d); err == nil {
				invs, err = repository.Plan(req)
			}
		case planProduct:
			var req repository.ProductRequest
			if req, err = b.ProductRequest(d); err == nil {
				invs, err = single(repository.PlanProduct(req))
			}
		case planInstall:
			var req profile.InstallRequest
			if req, err = b.InstallRequest(d); err == nil {
				invs, err = single(profile.PlanInstall(req))
			}
		case planUninstall:
			var req profile.UninstallRequest
			if req, err = b.UninstallRequest(d); err == nil {
				invs, err = single(profile.PlanUninstall(req))
			}
		case planGenerate:
			var req profile.GenerateRequest
			if req, err = b.GenerateRequest(d); err == nil {
				invs, err = single(profile.PlanGenerate(req))
			}
		default:
			err = fmt.Errorf("unknown operation %q", op)
		}
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", op, err)
		}
		planned = append(planned, plannedOperation{name: op, invocations: invs})
	}
	return planned, nil
}

func single(inv p2.Invocation, err error) ([]p2.Invocation, error) {
	if err != nil {
		return nil, err
	}
	return []p2.Invocation{inv}, nil
}

// planMarkdown renders the plan as a markdown document with one shell block
// per tool call.
func planMarkdown(launcher string, planned []plannedOperation) string {
	var sb strings.Builder
	sb.WriteString("# Plan\n")
	if len(planned) == 0 {
		sb.WriteString("\nThe build descriptor has nothing to run.\n")
		return sb.String()
	}
	for _, op := range planned {
		fmt.Fprintf(&sb, "\n## %s\n", op.name)
		for i, inv := range op.invocations {
			fmt.Fprintf(&sb, "\n%d. `%s`", i+1, inv.Application)
			if inv.WorkDir != "" {
				fmt.Fprintf(&sb, " in `%s`", inv.WorkDir)
			}
			if inv.Timeout > 0 {
				fmt.Fprintf(&sb, ", timeout %s", inv.Timeout)
			}
			sb.WriteString("\n\n```sh\n")
			sb.WriteString(p2.Display(launcher, inv))
			sb.WriteString("\n```\n")
		}
	}
	return sb.String()
}

func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
