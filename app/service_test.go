package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/crewplan/config"
	"github.com/kilianp07/crewplan/core/factory"
	coremetrics "github.com/kilianp07/crewplan/core/metrics"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestNewDefaults(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	assert.IsType(t, coremetrics.LogSink{}, svc.Metrics)
	assert.NotEmpty(t, svc.Journal.Session())

	_, err = svc.Roster()
	assert.True(t, errors.Is(err, ErrNoRoster))
	assert.NoError(t, svc.Close())
}

func TestUnknownJournal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Journal = factory.ModuleConfig{Type: "kafka"}
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestCloseWritesTextfile(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.Metrics.Textfile = filepath.Join(dir, "crewplan.prom")
	cfg.Journal = factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": filepath.Join(dir, "journal.jsonl")}}

	svc, err := New(cfg)
	require.NoError(t, err)
	svc.Start(context.Background())
	require.NoError(t, svc.Metrics.RecordSeats(coremetrics.SeatsEvent{Day: "8.14목", Filled: 3, Needed: 5}))
	assert.IsType(t, &coremetrics.MultiSink{}, svc.Metrics)
	opts := svc.SessionOptions("8.14목")
	assert.Equal(t, svc.Journal, opts.Journal)
	assert.Equal(t, "8.14목", svc.MergeOptions("8.14목").Day)
	require.NoError(t, svc.Close())

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `crewplan_seats_needed{day="8.14목"} 5`)
}

func TestRosterKeepsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("팀,진행팀,진행팀,안내팀\n이름,가,나,가\n8.14목,1,1,0\n"), 0o644))
	cfg := testConfig(t)
	cfg.Roster.Path = path

	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()
	idx, err := svc.Roster()
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []string{"가"}, idx.Duplicates)
}
