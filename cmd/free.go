package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/crewplan/app"
	"github.com/kilianp07/crewplan/core/allocation"
	"github.com/kilianp07/crewplan/core/roster"
	"github.com/kilianp07/crewplan/core/schedule"
	"github.com/kilianp07/crewplan/core/timeofday"
)

var (
	freeDay    string
	freeRanges bool
)

var freeCmd = &cobra.Command{
	Use:   "free <assignment-file> [start] [end]",
	Short: "List helpers free at a time or during a range",
	Long: `Prints the helpers of the day who are neither on the facility crew nor
booked at the given time, grouped by team. With only a start the check is
made at that instant. Times are written like "PM 1:30" or "13:30".
With --ranges the whole day is listed slot by slot instead.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, svc *app.Service) error {
			return runFree(cmd, svc, args)
		})
	},
}

func init() {
	freeCmd.Flags().StringVar(&freeDay, "day", "", "day label, defaults to the one in the file name")
	freeCmd.Flags().BoolVar(&freeRanges, "ranges", false, "list free helpers over the whole day")
	rootCmd.AddCommand(freeCmd)
}

func runFree(cmd *cobra.Command, svc *app.Service, args []string) error {
	out := cmd.OutOrStdout()
	if !freeRanges && len(args) < 2 {
		return fmt.Errorf("a start time is required unless --ranges is set")
	}
	idx, err := svc.Roster()
	if err != nil {
		return err
	}
	day := freeDay
	if day == "" {
		if day, err = schedule.DayFromFileName(args[0]); err != nil {
			return fmt.Errorf("%w; pass --day", err)
		}
	}
	st, err := svc.LoadSchedule(args[0])
	if err != nil {
		return err
	}
	s, err := allocation.NewSession(st, idx, svc.SessionOptions(day))
	if err != nil {
		return err
	}

	if freeRanges {
		for _, r := range s.FreeRanges(cfg.Session.Slot()) {
			fmt.Fprintf(out, "%s (%d): %s\n", r.Interval, len(r.Free), strings.Join(r.Free, ", "))
		}
		return nil
	}

	iv, err := parseRange(args[1:])
	if err != nil {
		return err
	}
	free := s.FreeDuring(iv)
	fmt.Fprintf(out, "%s %s: %d free\n", s.Day(), iv, len(free))
	for _, g := range idx.GroupByTeam(roster.NewSet(free...)) {
		fmt.Fprintf(out, "  %s: %s\n", g.Team, strings.Join(g.Names, ", "))
	}
	return nil
}

// parseRange reads a start and optional end. A lone start is an instant.
func parseRange(args []string) (timeofday.Interval, error) {
	start, ok := timeofday.Parse(args[0])
	if !ok {
		return timeofday.Interval{}, fmt.Errorf("unreadable time %q", args[0])
	}
	iv := timeofday.Interval{Start: start, End: start}
	if len(args) > 1 {
		end, ok := timeofday.Parse(args[1])
		if !ok {
			return timeofday.Interval{}, fmt.Errorf("unreadable time %q", args[1])
		}
		if end < start {
			return timeofday.Interval{}, fmt.Errorf("end %s before start %s", end, start)
		}
		iv.End = end
	}
	return iv, nil
}
