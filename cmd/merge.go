package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/crewplan/app"
	"github.com/kilianp07/crewplan/core/reconcile"
	"github.com/kilianp07/crewplan/core/schedule"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [assignment-file] [new-schedule]",
	Short: "Fold a revised schedule into a saved assignment",
	Long: `Compares a saved assignment with a freshly produced schedule by start,
title and location. Every added, removed or modified task is put to the
operator; answering "all" approves the rest of that kind. Helpers on kept
tasks stay assigned, trimmed to the new head count. The assignment file is
overwritten with the result.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, svc *app.Service) error {
			return runMerge(ctx, cmd, svc, args)
		})
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(ctx context.Context, cmd *cobra.Command, svc *app.Service, args []string) error {
	con := newConsole(cmd)
	out := cmd.OutOrStdout()

	basePath, err := pickAssignment(con, args)
	if err != nil {
		return err
	}
	day, err := schedule.DayFromFileName(basePath)
	if err != nil {
		return err
	}
	freshPath := ""
	if len(args) > 1 {
		freshPath = args[1]
	} else if freshPath, err = pickSchedule(con, day); err != nil {
		return err
	}

	base, err := svc.LoadSchedule(basePath)
	if err != nil {
		return err
	}
	fresh, err := svc.LoadSchedule(freshPath)
	if err != nil {
		return err
	}

	res, err := reconcile.Merge(ctx, base, fresh, reconcile.NewPrompter(con, out), svc.MergeOptions(day))
	if err != nil {
		return err
	}
	if res.Prompts() == 0 {
		fmt.Fprintf(out, "no changes: %d tasks identical\n", res.Unchanged)
	}
	for _, tr := range res.Trims {
		fmt.Fprintf(out, "%s: kept %s, released %s\n", tr.Key, strings.Join(tr.Kept, ", "), strings.Join(tr.Dropped, ", "))
	}
	fmt.Fprintf(out, "unchanged %d\n", res.Unchanged)
	for _, k := range []reconcile.Kind{reconcile.Modified, reconcile.Added, reconcile.Removed} {
		yes, no := res.Count(k)
		if yes+no > 0 {
			fmt.Fprintf(out, "%s: %d approved, %d declined\n", k, yes, no)
		}
	}

	if err := base.Save(basePath); err != nil {
		return fmt.Errorf("save %s: %w", basePath, err)
	}
	fmt.Fprintf(out, "saved %s\n", basePath)
	return nil
}
