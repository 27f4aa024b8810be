// Package metrics exposes allocation activity as Prometheus metrics, either
// over HTTP during a session or as a textfile snapshot on exit.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/crewplan/core/metrics"
)

// PromSink records allocation events in Prometheus metrics.
type PromSink struct {
	assigned   *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	unassigned *prometheus.CounterVec
	filled     *prometheus.GaugeVec
	needed     *prometheus.GaugeVec
	merges     *prometheus.CounterVec
}

// NewPromSink registers allocation metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		assigned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crewplan_assignments_total",
			Help: "Helpers committed to tasks",
		}, []string{"day"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crewplan_rejections_total",
			Help: "Helper names refused by the assign command",
		}, []string{"day", "reason"}),
		unassigned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crewplan_unassignments_total",
			Help: "Helpers removed from tasks",
		}, []string{"day"}),
		filled: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "crewplan_seats_filled",
			Help: "Filled helper seats per day",
		}, []string{"day"}),
		needed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "crewplan_seats_needed",
			Help: "Helper seats required per day",
		}, []string{"day"}),
		merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crewplan_merge_decisions_total",
			Help: "Smart merge decisions by change kind",
		}, []string{"kind", "approved"}),
	}
	var err error
	if s.assigned, err = register(reg, s.assigned); err != nil {
		return nil, err
	}
	if s.rejected, err = register(reg, s.rejected); err != nil {
		return nil, err
	}
	if s.unassigned, err = register(reg, s.unassigned); err != nil {
		return nil, err
	}
	if s.filled, err = register(reg, s.filled); err != nil {
		return nil, err
	}
	if s.needed, err = register(reg, s.needed); err != nil {
		return nil, err
	}
	if s.merges, err = register(reg, s.merges); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when c was registered
// by an earlier sink.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordAssign counts accepted and rejected names.
func (s *PromSink) RecordAssign(ev coremetrics.AssignEvent) error {
	if ev.Accepted > 0 {
		s.assigned.WithLabelValues(ev.Day).Add(float64(ev.Accepted))
	}
	for reason, n := range ev.Rejected {
		if n > 0 {
			s.rejected.WithLabelValues(ev.Day, reason).Add(float64(n))
		}
	}
	return nil
}

// RecordUnassign counts removed helpers.
func (s *PromSink) RecordUnassign(day string, n int) error {
	s.unassigned.WithLabelValues(day).Add(float64(n))
	return nil
}

// RecordSeats sets the staffing gauges of a day.
func (s *PromSink) RecordSeats(ev coremetrics.SeatsEvent) error {
	s.filled.WithLabelValues(ev.Day).Set(float64(ev.Filled))
	s.needed.WithLabelValues(ev.Day).Set(float64(ev.Needed))
	return nil
}

// RecordMerge counts a smart merge decision.
func (s *PromSink) RecordMerge(ev coremetrics.MergeEvent) error {
	s.merges.WithLabelValues(ev.Kind, strconv.FormatBool(ev.Approved)).Inc()
	return nil
}
