package health

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Monitor runs a Checker on a cron schedule and logs the outcome.
type Monitor struct {
	checker *Checker
	cron    *cron.Cron
	logger  zerolog.Logger
}

// NewMonitor schedules checker every interval.
func NewMonitor(checker *Checker, interval time.Duration, logger *zerolog.Logger) (*Monitor, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("health monitor interval must be positive, got %s", interval)
	}

	m := &Monitor{
		checker: checker,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With().Str("component", "health_monitor").Logger(),
	}

	if _, err := m.cron.AddFunc("@every "+interval.String(), m.RunOnce); err != nil {
		return nil, fmt.Errorf("failed to schedule health monitor: %w", err)
	}

	return m, nil
}

// RunOnce runs every probe once.
func (m *Monitor) RunOnce() {
	start := time.Now()
	report := m.checker.Run(context.Background(), &m.logger)

	if !report.Healthy() {
		m.logger.Warn().
			Dur("total_duration", time.Since(start)).
			Interface("checks", report.Checks).
			Msg("periodic health check failed")
		return
	}

	m.logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("periodic health check passed")
}

// Start begins the schedule in its own goroutine.
func (m *Monitor) Start() {
	m.logger.Info().Msg("starting health monitor")
	m.cron.Start()
}

// Stop halts the schedule and waits for a running check to finish or ctx
// to end.
func (m *Monitor) Stop(ctx context.Context) {
	done := m.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
