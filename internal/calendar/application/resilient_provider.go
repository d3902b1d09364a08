package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker around a provider.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state.
	Interval time.Duration
	// Timeout is the period of the open state.
	Timeout time.Duration
	// FailureThreshold trips the breaker after this many consecutive failures.
	FailureThreshold uint32
	// CallTimeout bounds each provider call.
	CallTimeout time.Duration
}

// DefaultBreakerConfig returns the production breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 3,
		CallTimeout:      10 * time.Second,
	}
}

// ResilientProvider guards a provider with a circuit breaker, a per-call
// timeout and metrics.
type ResilientProvider struct {
	name    string
	inner   BusyEventProvider
	breaker *gobreaker.CircuitBreaker[[]slots.CalendarBusyEvent]
	metrics observability.Metrics
	logger  *slog.Logger
	timeout time.Duration
}

// NewResilientProvider wraps inner. name labels logs and metrics.
func NewResilientProvider(name string, inner BusyEventProvider, cfg BreakerConfig, metrics observability.Metrics, logger *slog.Logger) *ResilientProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}

	p := &ResilientProvider{
		name:    name,
		inner:   inner,
		metrics: metrics,
		logger:  logger,
		timeout: cfg.CallTimeout,
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// caller cancellations say nothing about the provider
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"provider", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.Gauge(observability.MetricBreakerState, float64(to), observability.T("provider", name))
		},
	}
	p.breaker = gobreaker.NewCircuitBreaker[[]slots.CalendarBusyEvent](settings)
	return p
}

// BusyEvents calls the wrapped provider unless the breaker is open.
func (p *ResilientProvider) BusyEvents(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]slots.CalendarBusyEvent, error) {
	began := time.Now()
	tag := observability.T("provider", p.name)

	events, err := p.breaker.Execute(func() ([]slots.CalendarBusyEvent, error) {
		callCtx := ctx
		if p.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		return p.inner.BusyEvents(callCtx, userID, start, end)
	})

	p.metrics.Counter(observability.MetricProviderCalls, 1, tag)
	p.metrics.Timing(observability.MetricProviderDuration, time.Since(began), tag)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		p.metrics.Counter(observability.MetricProviderErrors, 1, tag)
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, p.name, err)
	}
	if err != nil {
		p.metrics.Counter(observability.MetricProviderErrors, 1, tag)
		p.logger.WarnContext(ctx, "busy event lookup failed", "provider", p.name, "error", err)
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}

	p.metrics.Counter(observability.MetricProviderEvents, int64(len(events)), tag)
	return events, nil
}

// Name returns the provider label.
func (p *ResilientProvider) Name() string {
	return p.name
}

// State reports the breaker state: closed, half-open or open.
func (p *ResilientProvider) State() string {
	return p.breaker.State().String()
}
