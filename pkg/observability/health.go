package observability

import (
	"context"
	"sync"
	"time"
)

// HealthStatus is the state of one component or of the whole service.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// severity orders statuses so the worst one wins.
func (s HealthStatus) severity() int {
	switch s {
	case HealthStatusUnhealthy:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}

// HealthCheckResult is the outcome of one check.
type HealthCheckResult struct {
	Status    HealthStatus   `json:"status"`
	Message   string         `json:"message,omitempty"`
	Duration  time.Duration  `json:"duration_ns"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// HealthChecker probes one component.
type HealthChecker func(ctx context.Context) HealthCheckResult

// DefaultCheckTimeout bounds each check run by a HealthRegistry.
const DefaultCheckTimeout = 5 * time.Second

// HealthRegistry runs named checks concurrently and remembers the last round.
type HealthRegistry struct {
	timeout time.Duration

	mu       sync.RWMutex
	checkers map[string]HealthChecker
	last     map[string]HealthCheckResult
}

// NewHealthRegistry creates an empty registry using DefaultCheckTimeout.
func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{
		timeout:  DefaultCheckTimeout,
		checkers: make(map[string]HealthChecker),
		last:     make(map[string]HealthCheckResult),
	}
}

// WithCheckTimeout changes the per-check deadline.
func (r *HealthRegistry) WithCheckTimeout(d time.Duration) *HealthRegistry {
	r.timeout = d
	return r
}

// Register adds or replaces the checker for name.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Check runs every checker and returns the results by name.
func (r *HealthRegistry) Check(ctx context.Context) map[string]HealthCheckResult {
	r.mu.RLock()
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for name, c := range r.checkers {
		checkers[name] = c
	}
	r.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]HealthCheckResult, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := r.run(ctx, checker)
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	r.mu.Lock()
	r.last = results
	r.mu.Unlock()
	return results
}

// CheckOne runs the checker registered as name.
func (r *HealthRegistry) CheckOne(ctx context.Context, name string) (HealthCheckResult, bool) {
	r.mu.RLock()
	checker, ok := r.checkers[name]
	r.mu.RUnlock()
	if !ok {
		return HealthCheckResult{}, false
	}
	return r.run(ctx, checker), true
}

func (r *HealthRegistry) run(ctx context.Context, checker HealthChecker) HealthCheckResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	start := time.Now()
	res := checker(ctx)
	res.Duration = time.Since(start)
	res.Timestamp = time.Now().UTC()
	return res
}

// OverallStatus is the worst status of the last Check; healthy before any run.
func (r *HealthRegistry) OverallStatus() HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return worst(r.last)
}

func worst(results map[string]HealthCheckResult) HealthStatus {
	status := HealthStatusHealthy
	for _, res := range results {
		if res.Status.severity() > status.severity() {
			status = res.Status
		}
	}
	return status
}

// OverallHealth is the body of the health endpoint.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// GetOverallHealth runs all checks and summarizes them.
func (r *HealthRegistry) GetOverallHealth(ctx context.Context) OverallHealth {
	checks := r.Check(ctx)
	return OverallHealth{
		Status:    worst(checks),
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}
}

// DatabaseHealthChecker reports the profile store unhealthy when ping fails.
func DatabaseHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{Status: HealthStatusUnhealthy, Message: "database unreachable: " + err.Error()}
		}
		return HealthCheckResult{Status: HealthStatusHealthy, Message: "database reachable"}
	}
}

// ProviderHealthChecker reports a busy-event provider as degraded while its
// circuit breaker is not closed. Slot computation still works without it.
func ProviderHealthChecker(name string, state func() string) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		st := state()
		res := HealthCheckResult{
			Status:  HealthStatusHealthy,
			Message: name + " reachable",
			Details: map[string]any{"breaker_state": st},
		}
		if st != "closed" {
			res.Status = HealthStatusDegraded
			res.Message = name + " circuit breaker is " + st
		}
		return res
	}
}
