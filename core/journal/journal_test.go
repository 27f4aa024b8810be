package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/crewplan/core/factory"
)

func sampleRecords(base time.Time) []Record {
	return []Record{
		{Timestamp: base, Day: "8.14목", Action: ActionAssign, Task: "PM 1:00-접수-로비", Helpers: []string{"김다비", "박주영"}},
		{Timestamp: base.Add(time.Minute), Day: "8.14목", Action: ActionUnassign, Task: "PM 1:00-접수-로비", Helpers: []string{"박주영"}},
		{Timestamp: base.Add(2 * time.Minute), Day: "8.15금", Action: ActionCrewAdd, Helpers: []string{"이진"}},
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 8, 14, 9, 0, 0, 0, time.UTC)
	for _, r := range sampleRecords(base) {
		require.NoError(t, s.Append(ctx, r))
	}

	checks := []struct {
		name string
		q    Query
		want int
	}{
		{"all", Query{}, 3},
		{"day", Query{Day: "8.14목"}, 2},
		{"helper", Query{Helper: "박주영"}, 2},
		{"action", Query{Action: ActionCrewAdd}, 1},
		{"range", Query{Start: base.Add(30 * time.Second), End: base.Add(90 * time.Second)}, 1},
		{"none", Query{Helper: "최윤영"}, 0},
	}
	for _, c := range checks {
		out, err := s.Query(ctx, c.q)
		require.NoError(t, err, c.name)
		assert.Len(t, out, c.want, c.name)
	}
	out, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, ActionAssign, out[0].Action, "ordered by time")
	assert.Equal(t, []string{"김다비", "박주영"}, out[0].Helpers)
}

func TestJSONLStore(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "j", "journal.jsonl"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestRotatingJSONLStore(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "journal.jsonl"), 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestFactory(t *testing.T) {
	dir := t.TempDir()
	checks := []struct {
		cfg  factory.ModuleConfig
		want any
	}{
		{factory.ModuleConfig{}, NopStore{}},
		{factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": filepath.Join(dir, "a.jsonl")}}, &JSONLStore{}},
		{factory.ModuleConfig{Type: "rotating", Conf: map[string]any{"path": filepath.Join(dir, "b.jsonl"), "max_size_mb": "2"}}, &RotatingJSONLStore{}},
		{factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": filepath.Join(dir, "c.db")}}, &SQLiteStore{}},
	}
	for _, c := range checks {
		s, err := New(c.cfg)
		require.NoError(t, err, c.cfg.Type)
		assert.IsType(t, c.want, s)
		require.NoError(t, s.Close())
	}

	_, err := New(factory.ModuleConfig{Type: "jsonl"})
	assert.Error(t, err, "path is required")
	_, err = New(factory.ModuleConfig{Type: "kafka"})
	assert.True(t, errors.Is(err, factory.ErrUnknownType))
	assert.Equal(t, []string{"jsonl", "nop", "rotating", "sqlite"}, Types())
}

type failingStore struct{ NopStore }

func (failingStore) Append(context.Context, Record) error { return errors.New("disk full") }

func TestJournalStampsSession(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	j := NewJournal(s, nil)
	fixed := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	j.Write(context.Background(), Record{Day: "8.14목", Action: ActionSave})
	out, err := j.Query(context.Background(), Query{Session: j.Session()})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, fixed, out[0].Timestamp.UTC())
	assert.Len(t, j.Session(), 36)

	NewJournal(failingStore{}, nil).Write(context.Background(), Record{Action: ActionSave})
	var nilJournal *Journal
	nilJournal.Write(context.Background(), Record{})
	recs, err := nilJournal.Query(context.Background(), Query{})
	assert.NoError(t, err)
	assert.Empty(t, recs)
	assert.NoError(t, nilJournal.Close())
}
