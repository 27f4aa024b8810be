// Package journal keeps an append-only history of committed allocation
// changes so an operator can see who moved whom, when and in which session.
package journal

import (
	"context"
	"time"
)

// Action names a journaled change.
type Action string

const (
	ActionAssign     Action = "assign"
	ActionUnassign   Action = "unassign"
	ActionCrewAdd    Action = "crew_add"
	ActionCrewRemove Action = "crew_remove"
	ActionMergeKeep  Action = "merge_keep"
	ActionMergeApply Action = "merge_apply"
	ActionMergeAdd   Action = "merge_add"
	ActionMergeDrop  Action = "merge_drop"
	ActionMergeTrim  Action = "merge_trim"
	ActionSave       Action = "save"
)

// Record captures one committed change.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session"`
	Day       string    `json:"day"`
	Action    Action    `json:"action"`
	Task      string    `json:"task,omitempty"`
	Interval  string    `json:"interval,omitempty"`
	Helpers   []string  `json:"helpers,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// Query defines filters for retrieving records. Zero fields match anything.
type Query struct {
	Start   time.Time
	End     time.Time
	Session string
	Day     string
	Helper  string
	Action  Action
}

// Match reports whether r passes every filter of q.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Session != "" && r.Session != q.Session {
		return false
	}
	if q.Day != "" && r.Day != q.Day {
		return false
	}
	if q.Action != "" && r.Action != q.Action {
		return false
	}
	if q.Helper != "" {
		for _, h := range r.Helpers {
			if h == q.Helper {
				return true
			}
		}
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore drops every record.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
