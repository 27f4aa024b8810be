package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/crewplan/app"
	"github.com/kilianp07/crewplan/core/allocation"
	"github.com/kilianp07/crewplan/core/roster"
	"github.com/kilianp07/crewplan/core/schedule"
)

var errCancelled = errors.New("cancelled")

var (
	assignSchedule string
	assignNoCrew   bool
)

var assignCmd = &cobra.Command{
	Use:   "assign [day]",
	Short: "Start a new assignment session for one day",
	Long: `Loads the roster and the day's schedule, lets the operator pick the
facility crew, then walks the tasks in time order. The result is saved as
assignment_<day>_<timestamp>.csv in the output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, svc *app.Service) error {
			return runAssign(ctx, cmd, svc, args)
		})
	},
}

func init() {
	assignCmd.Flags().StringVar(&assignSchedule, "schedule", "", "schedule file, skips the file search")
	assignCmd.Flags().BoolVar(&assignNoCrew, "no-crew", false, "skip the facility crew selection")
	rootCmd.AddCommand(assignCmd)
}

func newConsole(cmd *cobra.Command) *allocation.Console {
	return allocation.NewConsole(nil, allocation.ConsoleOptions{
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
		Slot:      cfg.Session.Slot(),
		ExportDir: cfg.Schedule.OutputDir,
	})
}

func runAssign(ctx context.Context, cmd *cobra.Command, svc *app.Service, args []string) error {
	idx, err := svc.Roster()
	if err != nil {
		return err
	}
	con := newConsole(cmd)

	tag := ""
	if len(args) > 0 {
		tag = args[0]
	}
	day, err := askDay(cmd, con, idx, tag)
	if err != nil {
		return err
	}

	path := assignSchedule
	if path == "" {
		if path, err = pickSchedule(con, day); err != nil {
			return err
		}
	}
	st, err := svc.LoadSchedule(path)
	if err != nil {
		return err
	}
	s, err := allocation.NewSession(st, idx, svc.SessionOptions(day))
	if err != nil {
		return err
	}
	con.Attach(s)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tasks from %s, %d helpers available\n", s.Day(), s.Len(), path, len(s.Pool()))

	if !assignNoCrew {
		if err := con.RunCrew(ctx, s.CrewSelector(cfg.Session.CrewCapacity)); err != nil {
			return err
		}
	}
	_ = s.JumpTo(s.FirstOpen())
	runErr := con.Run(ctx)

	out := filepath.Join(cfg.Schedule.OutputDir, schedule.AssignmentFileName(s.Day(), time.Now()))
	if err := s.Save(context.WithoutCancel(ctx), out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", out)
	return runErr
}

// askDay resolves tag against the roster, prompting until it names a known day.
func askDay(cmd *cobra.Command, con *allocation.Console, idx *roster.Index, tag string) (string, error) {
	for {
		if tag != "" {
			day, err := idx.ResolveDay(tag)
			if err == nil {
				return day, nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", err)
		}
		line, ok := con.Ask(fmt.Sprintf("day %v: ", idx.Days()))
		if !ok {
			return "", errCancelled
		}
		tag = line
	}
}

// pickSchedule finds the schedule files for day and lets the operator choose
// when there is more than one.
func pickSchedule(con *allocation.Console, day string) (string, error) {
	files, err := schedule.FindScheduleFiles(cfg.Schedule.Dir, cfg.Schedule.Glob, day)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		// fall back to every schedule in the directory
		if files, err = schedule.FindScheduleFiles(cfg.Schedule.Dir, cfg.Schedule.Glob, ""); err != nil {
			return "", err
		}
	}
	return chooseFile(con, "schedule files", files)
}

func chooseFile(con *allocation.Console, title string, files []string) (string, error) {
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no %s found", title)
	case 1:
		return files[0], nil
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	k, ok := con.Choose(title, names)
	if !ok {
		return "", errCancelled
	}
	return files[k], nil
}
