// Package monitor periodically probes the language model so health checks
// can be answered without a round trip.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/interviewpartner/backend/internal/llm"
)

// ProbeTimeout bounds a single health probe.
const ProbeTimeout = 5 * time.Second

// Status is the outcome of the latest probe. Checked is false until the
// first probe has run.
type Status struct {
	Healthy   bool      `json:"llm_available"`
	Checked   bool      `json:"checked"`
	CheckedAt time.Time `json:"checked_at"`
}

type HealthMonitor struct {
	gateway llm.Gateway
	cron    *cron.Cron
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	status Status
}

// NewHealthMonitor schedules probes on a cron spec such as "@every 30s".
func NewHealthMonitor(g llm.Gateway, schedule string, logger *slog.Logger) (*HealthMonitor, error) {
	m := &HealthMonitor{
		gateway: g,
		cron:    cron.New(),
		logger:  logger,
		now:     time.Now,
	}
	if _, err := m.cron.AddFunc(schedule, func() { m.Probe(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid health check schedule %q: %w", schedule, err)
	}
	return m, nil
}

// Start probes once and then on schedule.
func (m *HealthMonitor) Start() {
	m.Probe(context.Background())
	m.cron.Start()
}

// Stop waits for a running probe to finish.
func (m *HealthMonitor) Stop() {
	<-m.cron.Stop().Done()
}

// Probe checks the model now and records the result.
func (m *HealthMonitor) Probe(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	healthy := m.gateway.HealthCheck(ctx)

	m.mu.Lock()
	prev := m.status
	m.status = Status{Healthy: healthy, Checked: true, CheckedAt: m.now()}
	st := m.status
	m.mu.Unlock()

	if !prev.Checked || prev.Healthy != healthy {
		if healthy {
			m.logger.Info("llm available")
		} else {
			m.logger.Warn("llm unavailable")
		}
	}
	return st
}

func (m *HealthMonitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
