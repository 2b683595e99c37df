// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wso2/carbon-p2/internal/issue"
)

func newExplainCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [issue]",
		Short: "Explain a failure and how to fix it",
		Long: `Explain a failure and how to fix it.

The issue is named by its slug (for example tool-timeout) or its number.
Without an argument the known issues are listed.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var names []string
			for _, iss := range issue.Values() {
				names = append(names, iss.Name())
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listIssues(app)
				return nil
			}
			return explainIssue(cmd.Context(), app, args[0])
		},
	}
}

func listIssues(app *App) {
	fmt.Fprintln(app.stdout, TitleStyle.Render("Known issues"))
	for _, iss := range issue.Values() {
		fmt.Fprintf(app.stdout, "  %3d  %s\n", iss.Id(), CmdStyle.Render(iss.Name()))
	}
}

// lookupIssue finds an issue by slug or number.
func lookupIssue(name string) *issue.Issue {
	if n, err := strconv.Atoi(name); err == nil {
		return issue.Get(issue.Id(n))
	}
	return issue.Lookup(strings.ToLower(strings.TrimSpace(name)))
}

func explainIssue(ctx context.Context, app *App, name string) error {
	iss := lookupIssue(name)
	if iss == nil {
		return newExitError(issue.NewConfigurationError("issue", fmt.Sprintf("unknown issue %q; run 'carbon-p2 explain' to list them", name)), app.flags.verbose)
	}

	style := "auto"
	if cfg, err := app.loadConfig(ctx); err == nil {
		style = glamourStyle(cfg.UI.ColorScheme)
	}
	rendered, err := iss.Render(style)
	if err != nil {
		return newExitError(err, app.flags.verbose)
	}
	fmt.Fprint(app.stdout, rendered)
	return nil
}
