package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/crewplan/core/logger"
)

// Journal stamps records with one session ID and writes them to a Store.
// Append failures are logged, never returned: a broken journal must not
// block the operator.
type Journal struct {
	store   Store
	session string
	log     logger.Logger
	now     func() time.Time
}

// NewJournal starts a session over store. A nil store records nothing.
func NewJournal(store Store, log logger.Logger) *Journal {
	if store == nil {
		store = NopStore{}
	}
	return &Journal{
		store:   store,
		session: uuid.NewString(),
		log:     logger.OrNop(log),
		now:     time.Now,
	}
}

// Session returns the session ID.
func (j *Journal) Session() string {
	if j == nil {
		return ""
	}
	return j.session
}

// Write appends rec after filling in the timestamp and session.
func (j *Journal) Write(ctx context.Context, rec Record) {
	if j == nil {
		return
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = j.now()
	}
	rec.Session = j.session
	if err := j.store.Append(ctx, rec); err != nil {
		j.log.Warnf("journal append %s: %v", rec.Action, err)
		return
	}
	j.log.Debugw("journal", map[string]any{"action": string(rec.Action), "day": rec.Day, "helpers": rec.Helpers})
}

// Query reads records back from the underlying store.
func (j *Journal) Query(ctx context.Context, q Query) ([]Record, error) {
	if j == nil {
		return nil, nil
	}
	return j.store.Query(ctx, q)
}

// Close closes the underlying store.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.store.Close()
}
