// Package scheduler runs the periodic dependency probes behind /health.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const probeTimeout = 5 * time.Second

// Probe is one dependency check, e.g. a PostgreSQL or Redis ping.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// Scheduler wraps robfig/cron and keeps the last result of every probe.
type Scheduler struct {
	cron   *cron.Cron
	probes []Probe
	spec   string // cron spec, e.g. "@every 1m"

	first sync.WaitGroup

	mu   sync.RWMutex
	last map[string]error
}

// New creates a Scheduler that runs probes every intervalMinutes minutes.
func New(intervalMinutes int, probes ...Probe) *Scheduler {
	return newWithSpec(fmt.Sprintf("@every %dm", intervalMinutes), probes...)
}

func newWithSpec(spec string, probes ...Probe) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		probes: probes,
		spec:   spec,
		last:   make(map[string]error, len(probes)),
	}
}

// Start registers the probe cycle and starts the cron loop. One cycle also
// runs immediately so Status is populated before the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.runProbes(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	slog.Info("health scheduler started", "spec", s.spec, "probes", len(s.probes))

	s.first.Add(1)
	go func() {
		defer s.first.Done()
		s.runProbes(ctx)
	}()
	return nil
}

// Stop halts the cron loop and waits for running cycles, including the one
// started by Start, to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.first.Wait()
	slog.Info("health scheduler stopped")
}

// Status reports the last result of every probe that has run: "ok" or the
// error text.
func (s *Scheduler) Status() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.last))
	for name, err := range s.last {
		if err != nil {
			out[name] = err.Error()
			continue
		}
		out[name] = "ok"
	}
	return out
}

// Healthy is true once every probe has run and none failed last time.
func (s *Scheduler) Healthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.last) < len(s.probes) {
		return false
	}
	for _, err := range s.last {
		if err != nil {
			return false
		}
	}
	return true
}

func (s *Scheduler) runProbes(ctx context.Context) {
	for _, p := range s.probes {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := p.Check(pctx)
		cancel()

		if err != nil {
			slog.Warn("health probe failed", "probe", p.Name, "err", err)
		}

		s.mu.Lock()
		s.last[p.Name] = err
		s.mu.Unlock()
	}
}
