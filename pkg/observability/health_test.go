package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthy(context.Context) HealthCheckResult {
	return HealthCheckResult{Status: HealthStatusHealthy}
}

func TestHealthRegistry_OverallStatus(t *testing.T) {
	reg := NewHealthRegistry()
	assert.Equal(t, HealthStatusHealthy, reg.OverallStatus())

	reg.Register("profile_store", healthy)
	reg.Register("calendar", ProviderHealthChecker("caldav", func() string { return "open" }))

	results := reg.Check(context.Background())
	require.Len(t, results, 2)
	assert.Equal(t, HealthStatusDegraded, results["calendar"].Status)
	assert.Equal(t, "open", results["calendar"].Details["breaker_state"])
	assert.False(t, results["profile_store"].Timestamp.IsZero())
	assert.Equal(t, HealthStatusDegraded, reg.OverallStatus())

	reg.Register("profile_store", DatabaseHealthChecker(func(context.Context) error { return errors.New("locked") }))
	overall := reg.GetOverallHealth(context.Background())
	assert.Equal(t, HealthStatusUnhealthy, overall.Status)
	assert.Contains(t, overall.Checks["profile_store"].Message, "locked")
	assert.Equal(t, HealthStatusUnhealthy, reg.OverallStatus())
}

func TestHealthRegistry_CheckOne(t *testing.T) {
	reg := NewHealthRegistry()
	reg.Register("profile_store", DatabaseHealthChecker(func(context.Context) error { return nil }))

	res, ok := reg.CheckOne(context.Background(), "profile_store")
	require.True(t, ok)
	assert.Equal(t, HealthStatusHealthy, res.Status)

	_, ok = reg.CheckOne(context.Background(), "calendar")
	assert.False(t, ok)
}

func TestHealthRegistry_CheckTimeout(t *testing.T) {
	reg := NewHealthRegistry().WithCheckTimeout(20 * time.Millisecond)
	reg.Register("slow", DatabaseHealthChecker(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	res, ok := reg.CheckOne(context.Background(), "slow")
	require.True(t, ok)
	assert.Equal(t, HealthStatusUnhealthy, res.Status)
	assert.Contains(t, res.Message, "deadline exceeded")
}

func TestProviderHealthChecker_Closed(t *testing.T) {
	res := ProviderHealthChecker("ics", func() string { return "closed" })(context.Background())
	assert.Equal(t, HealthStatusHealthy, res.Status)
	assert.Equal(t, "ics reachable", res.Message)
}
