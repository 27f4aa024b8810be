// Package allocation is the interactive assignment engine. A Session owns
// the schedule of one day, the roster, the availability tracker and the
// cursor; the Console drives it from operator input.
package allocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilianp07/crewplan/core/availability"
	"github.com/kilianp07/crewplan/core/journal"
	"github.com/kilianp07/crewplan/core/logger"
	"github.com/kilianp07/crewplan/core/metrics"
	"github.com/kilianp07/crewplan/core/roster"
	"github.com/kilianp07/crewplan/core/schedule"
)

var (
	// ErrNoTask is returned when the cursor is past the last task.
	ErrNoTask = errors.New("allocation: no task under the cursor")
	// ErrTaskFull is returned when assigning to a task without open seats.
	ErrTaskFull = errors.New("allocation: task is fully staffed")
	// ErrBadIndex is returned for jump targets outside the schedule.
	ErrBadIndex = errors.New("allocation: task index out of range")
)

// Options configures a Session.
type Options struct {
	// Day is the roster day label being scheduled.
	Day     string
	Logger  logger.Logger
	Journal *journal.Journal
	Metrics metrics.Sink
}

// Session is the state of one assignment run.
type Session struct {
	store   *schedule.Store
	roster  *roster.Index
	tracker *availability.Tracker
	day     string
	pool    roster.Set
	cursor  int

	log     logger.Logger
	journal *journal.Journal
	metrics metrics.Sink
}

// NewSession builds the tracker from store and validates day against the
// roster. Names in the loaded file that the roster does not know are kept
// and reported through the logger.
func NewSession(store *schedule.Store, idx *roster.Index, opts Options) (*Session, error) {
	if store == nil || idx == nil {
		return nil, errors.New("allocation: schedule and roster are required")
	}
	day, err := idx.ResolveDay(opts.Day)
	if err != nil {
		return nil, err
	}
	s := &Session{
		store:   store,
		roster:  idx,
		tracker: availability.Build(store),
		day:     day,
		pool:    idx.AvailableOn(day),
		log:     logger.OrNop(opts.Logger),
		journal: opts.Journal,
		metrics: metrics.OrNop(opts.Metrics),
	}
	for _, task := range store.Tasks() {
		for _, name := range task.Assigned {
			if !idx.Has(name) {
				s.log.Warnf("%s: %q is not on the roster", task.Key(), name)
			}
		}
		if _, ok := task.Interval(); !ok && task.Needed() > 0 {
			s.log.Warnf("%s: unreadable time %q~%q, conflicts are not checked", task.Key(), task.Start, task.End)
		}
	}
	s.recordSeats()
	return s, nil
}

// Day returns the roster day label of the session.
func (s *Session) Day() string { return s.day }

// Store returns the schedule being edited.
func (s *Session) Store() *schedule.Store { return s.store }

// Roster returns the roster index.
func (s *Session) Roster() *roster.Index { return s.roster }

// Tracker returns the availability tracker.
func (s *Session) Tracker() *availability.Tracker { return s.tracker }

// Cursor returns the index of the focused task. It equals Len when every
// task has been walked past.
func (s *Session) Cursor() int { return s.cursor }

// Len returns the number of tasks.
func (s *Session) Len() int { return s.store.Len() }

// Done reports whether the cursor has moved past the last task.
func (s *Session) Done() bool { return s.cursor >= s.store.Len() }

// Current returns the focused task.
func (s *Session) Current() (schedule.Task, error) {
	if s.Done() {
		return schedule.Task{}, ErrNoTask
	}
	return s.store.Get(s.cursor)
}

// Pool returns the helpers available on the session day, crew included.
func (s *Session) Pool() roster.Set { return roster.NewSet(s.pool.Sorted()...) }

// Assignable returns the helpers that may be put on tasks: available today
// and not on the facility crew.
func (s *Session) Assignable() roster.Set {
	return s.pool.Without(s.store.Crew().Exclusion())
}

func (s *Session) write(ctx context.Context, rec journal.Record) {
	rec.Day = s.day
	s.journal.Write(ctx, rec)
}

func (s *Session) recordSeats() {
	filled, needed := s.store.Seats()
	if err := s.metrics.RecordSeats(metrics.SeatsEvent{Day: s.day, Filled: filled, Needed: needed}); err != nil {
		s.log.Warnf("record seats: %v", err)
	}
}

// Save writes the schedule to path and journals the save.
func (s *Session) Save(ctx context.Context, path string) error {
	if err := s.store.Save(path); err != nil {
		return err
	}
	filled, needed := s.store.Seats()
	s.write(ctx, journal.Record{Action: journal.ActionSave, Note: fmt.Sprintf("%s (%d/%d)", path, filled, needed)})
	s.log.Infof("saved %s: %d/%d seats filled", path, filled, needed)
	return nil
}
