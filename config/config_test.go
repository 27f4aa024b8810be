package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `roster:
  path: "data/roster.csv"
schedule:
  dir: "data/schedules"
  output_dir: "out"
session:
  crew_capacity: 8
  slot_minutes: 30
journal:
  type: "sqlite"
  conf:
    path: "out/journal.db"
metrics:
  prometheus_addr: ":9108"
logging:
  level: "info"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"roster.path", cfg.Roster.Path, "data/roster.csv"},
		{"schedule.dir", cfg.Schedule.Dir, "data/schedules"},
		{"schedule.glob", cfg.Schedule.Glob, "*_event_schedule.csv"},
		{"schedule.output_dir", cfg.Schedule.OutputDir, "out"},
		{"session.crew_capacity", cfg.Session.CrewCapacity, 8},
		{"session.crew_title", cfg.Session.CrewTitle, "시설조 활동"},
		{"session.slot", cfg.Session.Slot(), 30 * time.Minute},
		{"session.padding", cfg.Session.Padding(), 15 * time.Minute},
		{"journal.type", cfg.Journal.Type, "sqlite"},
		{"journal.conf.path", cfg.Journal.Conf["path"], "out/journal.db"},
		{"metrics.prometheus_addr", cfg.Metrics.PrometheusAddr, ":9108"},
		{"logging.level", cfg.Logging.Level, "info"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Session.CrewCapacity != 10 || cfg.Session.SlotMinutes != 15 {
		t.Fatalf("unexpected session defaults %+v", cfg.Session)
	}
	if cfg.Journal.Type != "nop" || cfg.Logging.Level != "warn" || cfg.Schedule.OutputDir != "." {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("K_SESSION__CREW_CAPACITY", "4")
	t.Setenv("K_ROSTER__PATH", "env_roster.csv")
	t.Setenv("K_JOURNAL__TYPE", "jsonl")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Session.CrewCapacity != 4 {
		t.Errorf("crew_capacity = %d", cfg.Session.CrewCapacity)
	}
	if cfg.Roster.Path != "env_roster.csv" {
		t.Errorf("roster.path = %s", cfg.Roster.Path)
	}
	if cfg.Journal.Type != "jsonl" {
		t.Errorf("journal.type = %s", cfg.Journal.Type)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(bad, []byte("x=1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatal("expected unsupported format error")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected missing file error")
	}
	level := filepath.Join(dir, "level.json")
	if err := os.WriteFile(level, []byte(`{"logging":{"level":"loud"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(level); err == nil {
		t.Fatal("expected logging level error")
	}
	slot := filepath.Join(dir, "slot.json")
	if err := os.WriteFile(slot, []byte(`{"session":{"slot_minutes":-5}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(slot); err == nil {
		t.Fatal("expected slot error")
	}
}
