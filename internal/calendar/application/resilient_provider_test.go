package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

func failingProvider(calls *int) BusyEventProvider {
	return ProviderFunc(func(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]slots.CalendarBusyEvent, error) {
		*calls++
		return nil, errors.New("connection refused")
	})
}

func testBreakerConfig() BreakerConfig {
	cfg := DefaultBreakerConfig()
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Hour
	return cfg
}

func TestResilientProvider_PassesThrough(t *testing.T) {
	metrics := observability.NewInMemoryMetrics()
	inner := NewStaticProvider([]slots.CalendarBusyEvent{event(9, 10, slots.EventStatusConfirmed)})
	p := NewResilientProvider("static", inner, testBreakerConfig(), metrics, nil)

	got, err := p.BusyEvents(context.Background(), uuid.New(), monday, monday.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "closed", p.State())
	assert.Equal(t, "static", p.Name())

	tag := observability.T("provider", "static")
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricProviderCalls, tag))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricProviderEvents, tag))
}

func TestResilientProvider_OpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	metrics := observability.NewInMemoryMetrics()
	p := NewResilientProvider("caldav", failingProvider(&calls), testBreakerConfig(), metrics, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := p.BusyEvents(ctx, uuid.New(), monday, monday.Add(time.Hour))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrProviderUnavailable)
	}
	assert.Equal(t, "open", p.State())

	_, err := p.BusyEvents(ctx, uuid.New(), monday, monday.Add(time.Hour))
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 2, calls, "open breaker must not reach the provider")
	assert.Equal(t, int64(3), metrics.GetCounter(observability.MetricProviderErrors, observability.T("provider", "caldav")))
}

func TestResilientProvider_CallTimeout(t *testing.T) {
	slow := ProviderFunc(func(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]slots.CalendarBusyEvent, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := testBreakerConfig()
	cfg.CallTimeout = 10 * time.Millisecond
	p := NewResilientProvider("slow", slow, cfg, nil, nil)

	_, err := p.BusyEvents(context.Background(), uuid.New(), monday, monday.Add(time.Hour))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
