package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/crewplan/config"
	"github.com/kilianp07/crewplan/core/allocation"
	"github.com/kilianp07/crewplan/core/journal"
	coremetrics "github.com/kilianp07/crewplan/core/metrics"
	"github.com/kilianp07/crewplan/core/reconcile"
	"github.com/kilianp07/crewplan/core/roster"
	"github.com/kilianp07/crewplan/core/schedule"
	"github.com/kilianp07/crewplan/infra/logger"
	"github.com/kilianp07/crewplan/infra/metrics"
)

// ErrNoRoster is returned when a command needs the roster but none is configured.
var ErrNoRoster = errors.New("roster path not configured")

// Service holds the collaborators shared by every command: the journal,
// the metrics sinks and the configuration they were built from.
type Service struct {
	Config  *config.Config
	Journal *journal.Journal
	Metrics coremetrics.Sink

	registry *prometheus.Registry
	log      logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	store, err := journal.New(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}

	svc := &Service{
		Config:  cfg,
		Journal: journal.NewJournal(store, logger.New("journal")),
		log:     logg,
	}
	sinks := []coremetrics.Sink{coremetrics.LogSink{Log: logger.New("metrics")}}
	if cfg.Metrics.Enabled() {
		reg := prometheus.NewRegistry()
		sink, err := metrics.NewPromSinkWithRegistry(reg)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		svc.registry = reg
		sinks = append(sinks, sink)
	}
	if len(sinks) == 1 {
		svc.Metrics = sinks[0]
	} else {
		svc.Metrics = coremetrics.NewMultiSink(sinks...)
	}
	return svc, nil
}

// Start serves metrics in the background when an address is configured.
// The server stops with ctx.
func (s *Service) Start(ctx context.Context) {
	addr := s.Config.Metrics.PrometheusAddr
	if addr == "" || s.registry == nil {
		return
	}
	go func() {
		if err := metrics.StartPromServer(ctx, addr, s.registry, logger.New("metrics")); err != nil {
			s.log.Errorf("prom server: %v", err)
		}
	}()
}

// Roster loads the configured roster.
func (s *Service) Roster() (*roster.Index, error) {
	if s.Config.Roster.Path == "" {
		return nil, ErrNoRoster
	}
	idx, err := roster.Load(s.Config.Roster.Path)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	s.log.Infof("roster %s: %d helpers, days %v", s.Config.Roster.Path, idx.Len(), idx.Days())
	if len(idx.Duplicates) > 0 {
		s.log.Warnf("roster %s: duplicate names %v, only the first column of each is used", s.Config.Roster.Path, idx.Duplicates)
	}
	return idx, nil
}

// LoadSchedule reads a schedule or assignment file with the configured crew title.
func (s *Service) LoadSchedule(path string) (*schedule.Store, error) {
	st, err := schedule.Load(path, schedule.Options{CrewTitle: s.Config.Session.CrewTitle})
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", path, err)
	}
	return st, nil
}

// SessionOptions returns the allocation options for day.
func (s *Service) SessionOptions(day string) allocation.Options {
	return allocation.Options{
		Day:     day,
		Logger:  logger.New("allocation"),
		Journal: s.Journal,
		Metrics: s.Metrics,
	}
}

// MergeOptions returns the reconcile options for day.
func (s *Service) MergeOptions(day string) reconcile.Options {
	return reconcile.Options{
		Day:     day,
		Logger:  logger.New("reconcile"),
		Journal: s.Journal,
		Metrics: s.Metrics,
	}
}

// Close writes the metrics textfile if configured and closes the journal.
func (s *Service) Close() error {
	var errs []error
	if path := s.Config.Metrics.Textfile; path != "" && s.registry != nil {
		if err := metrics.WriteTextfile(path, s.registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
		}
	}
	if err := s.Journal.Close(); err != nil {
		errs = append(errs, fmt.Errorf("journal: %w", err))
	}
	return errors.Join(errs...)
}
