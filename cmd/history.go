package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/crewplan/app"
	"github.com/kilianp07/crewplan/core/journal"
)

var histQuery struct {
	helper  string
	day     string
	action  string
	session string
	since   time.Duration
	limit   int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the journal of committed changes",
	Long: `Queries the configured journal store. Filters combine; --since takes a
duration such as 2h or 72h.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, svc *app.Service) error {
			return runHistory(ctx, cmd, svc)
		})
	},
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&histQuery.helper, "helper", "", "only records naming this helper")
	f.StringVar(&histQuery.day, "day", "", "only records of this day label")
	f.StringVar(&histQuery.action, "action", "", "only records of this action")
	f.StringVar(&histQuery.session, "session", "", "only records of this session ID")
	f.DurationVar(&histQuery.since, "since", 0, "only records newer than this")
	f.IntVar(&histQuery.limit, "limit", 0, "show at most the last N records")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(ctx context.Context, cmd *cobra.Command, svc *app.Service) error {
	if cfg.Journal.Type == "nop" {
		return fmt.Errorf("journal disabled; set journal.type to one of %v", journal.Types())
	}
	q := journal.Query{
		Helper:  histQuery.helper,
		Day:     histQuery.day,
		Action:  journal.Action(histQuery.action),
		Session: histQuery.session,
	}
	if histQuery.since > 0 {
		q.Start = time.Now().Add(-histQuery.since)
	}
	recs, err := svc.Journal.Query(ctx, q)
	if err != nil {
		return fmt.Errorf("query journal: %w", err)
	}
	if n := histQuery.limit; n > 0 && len(recs) > n {
		recs = recs[len(recs)-n:]
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"), shortSession(r.Session), r.Day, r.Action,
			r.Task, strings.Join(r.Helpers, ", "), r.Note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d records\n", len(recs))
	return nil
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
