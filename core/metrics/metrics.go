// Package metrics defines the recorders the allocation engine reports to.
// Sinks like the Prometheus sink in infra/metrics record staffing progress
// and can be combined with NewMultiSink.
package metrics

// Rejection reasons reported for refused helper names.
const (
	ReasonUnknown     = "unknown"
	ReasonUnavailable = "unavailable"
	ReasonConflict    = "conflict"
	ReasonOverflow    = "overflow"
)

// AssignEvent summarises one assign command.
type AssignEvent struct {
	Day      string
	Accepted int
	// Rejected counts refused names per reason.
	Rejected map[string]int
}

// SeatsEvent is the staffing level of a day after a change.
type SeatsEvent struct {
	Day    string
	Filled int
	Needed int
}

// MergeEvent is one operator decision during a smart merge.
type MergeEvent struct {
	Kind     string
	Approved bool
}

// Config defines where metrics are exposed.
type Config struct {
	// PrometheusAddr enables the /metrics endpoint during a session.
	PrometheusAddr string `json:"prometheus_addr"`
	// Textfile receives a snapshot of every metric on exit.
	Textfile string `json:"textfile"`
}

// Enabled reports whether any exposition is configured.
func (c Config) Enabled() bool { return c.PrometheusAddr != "" || c.Textfile != "" }

// Sink records allocation activity for observability purposes.
type Sink interface {
	RecordAssign(ev AssignEvent) error
	RecordUnassign(day string, n int) error
	RecordSeats(ev SeatsEvent) error
	RecordMerge(ev MergeEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAssign(AssignEvent) error  { return nil }
func (NopSink) RecordUnassign(string, int) error { return nil }
func (NopSink) RecordSeats(SeatsEvent) error    { return nil }
func (NopSink) RecordMerge(MergeEvent) error    { return nil }

// OrNop returns s, or NopSink when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return NopSink{}
	}
	return s
}

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) each(f func(Sink) error) error {
	for _, s := range m.Sinks {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordAssign forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordAssign(ev AssignEvent) error {
	return m.each(func(s Sink) error { return s.RecordAssign(ev) })
}

// RecordUnassign forwards removals.
func (m *MultiSink) RecordUnassign(day string, n int) error {
	return m.each(func(s Sink) error { return s.RecordUnassign(day, n) })
}

// RecordSeats forwards staffing levels.
func (m *MultiSink) RecordSeats(ev SeatsEvent) error {
	return m.each(func(s Sink) error { return s.RecordSeats(ev) })
}

// RecordMerge forwards merge decisions.
func (m *MultiSink) RecordMerge(ev MergeEvent) error {
	return m.each(func(s Sink) error { return s.RecordMerge(ev) })
}
