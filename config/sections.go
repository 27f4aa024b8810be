package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kilianp07/crewplan/core/schedule"
)

// RosterConfig locates the helper roster.
type RosterConfig struct {
	// Path of the transposed roster CSV. Session commands require it.
	Path string `json:"path"`
}

// ScheduleConfig locates schedule and assignment files.
type ScheduleConfig struct {
	// Dir is searched for freshly produced schedules.
	Dir string `json:"dir"`
	// Glob selects schedule files within Dir.
	Glob string `json:"glob"`
	// OutputDir holds the saved assignment files.
	OutputDir string `json:"output_dir"`
}

// SetDefaults applies the directory layout of the preprocessing stages.
func (c *ScheduleConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "."
	}
	if c.Glob == "" {
		c.Glob = "*_event_schedule.csv"
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}

// Validate checks the glob pattern.
func (c ScheduleConfig) Validate() error {
	if _, err := filepath.Match(c.Glob, ""); err != nil {
		return fmt.Errorf("glob %q: %w", c.Glob, err)
	}
	return nil
}

// SessionConfig tunes the assignment loop.
type SessionConfig struct {
	CrewCapacity        int    `json:"crew_capacity"`
	CrewTitle           string `json:"crew_title"`
	SlotMinutes         int    `json:"slot_minutes"`
	BlockPaddingMinutes int    `json:"block_padding_minutes"`
}

// SetDefaults applies sane defaults.
func (c *SessionConfig) SetDefaults() {
	if c.CrewCapacity == 0 {
		c.CrewCapacity = 10
	}
	if c.CrewTitle == "" {
		c.CrewTitle = schedule.DefaultCrewTitle
	}
	if c.SlotMinutes == 0 {
		c.SlotMinutes = 15
	}
	if c.BlockPaddingMinutes == 0 {
		c.BlockPaddingMinutes = 15
	}
}

// Validate rejects non-positive sizes.
func (c SessionConfig) Validate() error {
	if c.CrewCapacity < 0 {
		return errors.New("crew_capacity must be positive")
	}
	if c.SlotMinutes <= 0 || c.SlotMinutes > 24*60 {
		return fmt.Errorf("slot_minutes %d out of range", c.SlotMinutes)
	}
	if c.BlockPaddingMinutes < 0 {
		return errors.New("block_padding_minutes must not be negative")
	}
	return nil
}

// Slot returns the free range granularity.
func (c SessionConfig) Slot() time.Duration { return time.Duration(c.SlotMinutes) * time.Minute }

// Padding returns the offset added to the last start of a merged block.
func (c SessionConfig) Padding() time.Duration {
	return time.Duration(c.BlockPaddingMinutes) * time.Minute
}
