package health

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/rcup/internal/log"
)

// DefaultTimeout bounds each check.
const DefaultTimeout = 5 * time.Second

// Manager runs checks concurrently, each under its own timeout.
type Manager struct {
	checkers []Checker
	timeout  time.Duration
	logger   *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout sets the per-check timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a Manager with no checks.
func NewManager(opts ...Option) *Manager {
	m := &Manager{timeout: DefaultTimeout, logger: log.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithComponent("health")
	return m
}

// Add registers checks. Results are reported in registration order.
func (m *Manager) Add(checkers ...Checker) {
	m.checkers = append(m.checkers, checkers...)
}

// Names returns the registered check names.
func (m *Manager) Names() []string {
	names := make([]string, len(m.checkers))
	for i, c := range m.checkers {
		names[i] = c.Name()
	}
	return names
}

// Report is the outcome of a Run.
type Report struct {
	Status  Status    `json:"status" yaml:"status"`
	Results []*Result `json:"results" yaml:"results"`
}

// Run executes every check and aggregates the results. A check that
// returns nil is reported unhealthy.
func (m *Manager) Run(ctx context.Context) Report {
	results := make([]*Result, len(m.checkers))

	var wg sync.WaitGroup
	for i, c := range m.checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()

			start := time.Now()
			r := c.Check(checkCtx)
			if r == nil {
				r = Unhealthy("check returned no result")
			}
			if r.Latency == 0 {
				r.Latency = time.Since(start)
			}
			r.Name = c.Name()
			results[i] = r
		}(i, c)
	}
	wg.Wait()

	for _, r := range results {
		m.logger.DebugContext(ctx, "health check finished", "check", r.Name, "status", r.Status, "latency", r.Latency)
	}
	return Report{Status: Overall(results), Results: results}
}

// Overall returns the worst status in results, or healthy when empty.
func Overall(results []*Result) Status {
	worst := StatusHealthy
	for _, r := range results {
		if r.Status.rank() > worst.rank() {
			worst = r.Status
		}
	}
	return worst
}
