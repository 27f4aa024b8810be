package metrics

import "github.com/kilianp07/crewplan/core/logger"

// LogSink writes records to a structured logger. Only seat totals are
// logged above debug level.
type LogSink struct {
	Log logger.Logger
}

func (s LogSink) log() logger.Logger { return logger.OrNop(s.Log) }

// RecordAssign logs accepted and rejected counts.
func (s LogSink) RecordAssign(ev AssignEvent) error {
	fields := map[string]any{"day": ev.Day, "accepted": ev.Accepted}
	for reason, n := range ev.Rejected {
		fields["rejected_"+reason] = n
	}
	s.log().Debugw("assign", fields)
	return nil
}

func (s LogSink) RecordUnassign(day string, n int) error {
	s.log().Debugw("unassign", map[string]any{"day": day, "removed": n})
	return nil
}

// RecordSeats logs staffing progress at info level.
func (s LogSink) RecordSeats(ev SeatsEvent) error {
	s.log().Infof("%s: %d/%d seats filled", ev.Day, ev.Filled, ev.Needed)
	return nil
}

func (s LogSink) RecordMerge(ev MergeEvent) error {
	s.log().Debugw("merge", map[string]any{"kind": ev.Kind, "approved": ev.Approved})
	return nil
}
