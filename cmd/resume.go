package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/crewplan/app"
	"github.com/kilianp07/crewplan/core/allocation"
	"github.com/kilianp07/crewplan/core/schedule"
)

var resumeCrew bool

var resumeCmd = &cobra.Command{
	Use:   "resume [assignment-file]",
	Short: "Continue a saved assignment session",
	Long: `Reloads a saved assignment file, rebuilds every helper's bookings from
it and resumes at the first task that still needs helpers. The file is
overwritten when the session ends.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, svc *app.Service) error {
			return runResume(ctx, cmd, svc, args)
		})
	},
}

func init() {
	resumeCmd.Flags().BoolVar(&resumeCrew, "crew", false, "edit the facility crew before resuming")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(ctx context.Context, cmd *cobra.Command, svc *app.Service, args []string) error {
	idx, err := svc.Roster()
	if err != nil {
		return err
	}
	con := newConsole(cmd)

	path, err := pickAssignment(con, args)
	if err != nil {
		return err
	}
	day, err := schedule.DayFromFileName(path)
	if err != nil {
		return err
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

	filled, needed := st.Seats()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d tasks, %d/%d seats filled\n", s.Day(), s.Len(), filled, needed)
	if c := st.Crew(); c != nil {
		fmt.Fprintf(out, "facility crew: %d\n", len(c.Members))
	}

	if resumeCrew {
		if err := con.RunCrew(ctx, s.CrewSelector(cfg.Session.CrewCapacity)); err != nil {
			return err
		}
	}
	first := s.FirstOpen()
	if t, err := st.Get(first); err == nil && t.Status() == schedule.Staffed {
		fmt.Fprintln(out, "every task is staffed, reviewing from the start")
	}
	_ = s.JumpTo(first)
	runErr := con.Run(ctx)

	if err := s.Save(context.WithoutCancel(ctx), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	fmt.Fprintf(out, "saved %s\n", path)
	return runErr
}

// pickAssignment returns the file named in args or lets the operator pick
// one of the saved assignments.
func pickAssignment(con *allocation.Console, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	files, err := schedule.ListAssignmentFiles(cfg.Schedule.OutputDir)
	if err != nil {
		return "", err
	}
	return chooseFile(con, "assignment files", files)
}
