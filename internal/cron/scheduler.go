package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/seniordesign-sys/ideagen-backend/internal/logging"
)

// Sweeper evicts sessions that have been idle for longer than idle.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string
	idle    time.Duration
}

// NewScheduler runs the session sweep on spec, e.g. "@every 1m".
func NewScheduler(sweeper Sweeper, spec string, idle time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		spec:    spec,
		idle:    idle,
	}
}

// Start registers the sweep job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runSweep); err != nil {
		return fmt.Errorf("failed to create sweep job: %w", err)
	}

	logging.NewLogger(context.Background()).LogInfof("cron", "session sweeper started (%s, idle ttl %s)", s.spec, s.idle)
	s.cron.Start()
	return nil
}

// Stop halts scheduling and returns a context that is done once a running
// sweep has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runSweep() {
	if n := s.sweeper.Sweep(s.idle); n > 0 {
		logging.NewLogger(context.Background()).LogInfof("cron", "evicted %d idle wizard sessions", n)
	}
}
