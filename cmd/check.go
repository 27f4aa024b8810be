package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/crewplan/app"
	"github.com/kilianp07/crewplan/core/allocation"
	"github.com/kilianp07/crewplan/core/availability"
	"github.com/kilianp07/crewplan/core/roster"
	"github.com/kilianp07/crewplan/core/schedule"
	"github.com/kilianp07/crewplan/core/timeofday"
	"github.com/kilianp07/crewplan/pkg/export"
)

var errIssues = errors.New("check found issues")

var (
	checkDay    string
	checkExport string
	checkStrict bool
)

var checkCmd = &cobra.Command{
	Use:   "check [assignment-file]",
	Short: "Audit a saved assignment without changing it",
	Long: `Reports helpers booked on overlapping tasks, tasks holding more helpers
than they need, names missing from the roster and crew members also placed
on a task. Tasks whose end time cannot be read get a suggested end.
With --export the helper by helper cross-reference is written as CSV, JSON
or YAML depending on the file extension.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, svc *app.Service) error {
			return runCheck(cmd, svc, args)
		})
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkDay, "day", "", "day label, defaults to the one in the file name")
	checkCmd.Flags().StringVar(&checkExport, "export", "", "write the cross-reference to this file")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit with an error when issues are found")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, svc *app.Service, args []string) error {
	out := cmd.OutOrStdout()
	path, err := pickAssignment(newConsole(cmd), args)
	if err != nil {
		return err
	}
	st, err := svc.LoadSchedule(path)
	if err != nil {
		return err
	}

	var idx *roster.Index
	if cfg.Roster.Path != "" {
		if idx, err = svc.Roster(); err != nil {
			return err
		}
	}
	rep := availability.Audit(st, idx)
	printReport(out, rep)
	if idx != nil && len(idx.Duplicates) > 0 {
		fmt.Fprintf(out, "duplicate roster names: %s\n", strings.Join(idx.Duplicates, ", "))
	}
	printOpenEnded(out, st)

	if checkExport != "" {
		if idx == nil {
			return fmt.Errorf("export: %w", app.ErrNoRoster)
		}
		day := checkDay
		if day == "" {
			if day, err = schedule.DayFromFileName(path); err != nil {
				return fmt.Errorf("export: %w; pass --day", err)
			}
		}
		s, err := allocation.NewSession(st, idx, svc.SessionOptions(day))
		if err != nil {
			return err
		}
		if err := export.WriteFile(checkExport, s.CrossReference()); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(out, "exported %s\n", checkExport)
	}

	if checkStrict && !rep.Clean() {
		return errIssues
	}
	return nil
}

func printReport(w io.Writer, rep availability.Report) {
	if rep.Clean() {
		fmt.Fprintln(w, "no issues")
		return
	}
	for _, o := range rep.Overlaps {
		fmt.Fprintf(w, "overlap: %s on #%d %s %s and #%d %s %s\n", o.Helper,
			o.A.Index+1, o.A.Task.DisplayTitle(), span(o.A.Task),
			o.B.Index+1, o.B.Task.DisplayTitle(), span(o.B.Task))
	}
	for _, f := range rep.Overfull {
		fmt.Fprintf(w, "overfull: #%d %s has %d, needs %d\n", f.Index+1, f.Task.DisplayTitle(), len(f.Task.Assigned), f.Task.Needed())
	}
	if len(rep.Unknown) > 0 {
		fmt.Fprintf(w, "not on the roster: %s\n", strings.Join(rep.Unknown, ", "))
	}
	if len(rep.CrewConflicts) > 0 {
		fmt.Fprintf(w, "facility crew also on a task: %s\n", strings.Join(rep.CrewConflicts, ", "))
	}
}

// printOpenEnded lists tasks with a readable start but no usable end and
// suggests closing them after the configured padding.
func printOpenEnded(w io.Writer, st *schedule.Store) {
	for i, t := range st.Tasks() {
		if _, ok := t.Interval(); ok {
			continue
		}
		start, ok := timeofday.Parse(t.Start)
		if !ok {
			continue
		}
		end := timeofday.CloseBlock(start, cfg.Session.Padding())
		fmt.Fprintf(w, "no usable end time: #%d %s starts %s, suggested end %s\n", i+1, t.DisplayTitle(), start, end)
	}
}

func span(t schedule.Task) string {
	return t.Start + " ~ " + t.End
}
