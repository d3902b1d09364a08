package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	shortVersion = false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	Version = "1.4.0"
	t.Cleanup(func() { Version = "dev" })

	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.4.0\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "slotwise 1.4.0 (commit ")
}

func TestBuildStamp_PrefersLdflags(t *testing.T) {
	Commit, BuildDate = "0123456789abcdef", "2025-01-06"
	t.Cleanup(func() { Commit, BuildDate = "", "" })

	commit, built := buildStamp()
	assert.Equal(t, "0123456789ab", commit)
	assert.Equal(t, "2025-01-06", built)
}

func TestHealthCommand(t *testing.T) {
	health := observability.NewHealthRegistry()
	health.Register("database", observability.DatabaseHealthChecker(func(context.Context) error { return nil }))
	health.Register("calendar", observability.ProviderHealthChecker("caldav", func() string { return "open" }))

	SetApp(&App{Health: health})
	t.Cleanup(func() { SetApp(nil) })

	out, err := execute(t, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "database")
	assert.Contains(t, out, "caldav circuit breaker is open")
	assert.Contains(t, out, "overall: degraded")
}

func TestHealthCommand_WithoutApp(t *testing.T) {
	SetApp(nil)
	_, err := execute(t, "health")
	assert.Error(t, err)
}

func TestRootCommand_StampsRequestContext(t *testing.T) {
	var correlation, request string
	probe := &cobra.Command{
		Use: "probe",
		Run: func(cmd *cobra.Command, args []string) {
			correlation = observability.CorrelationIDFromContext(cmd.Context())
			request = observability.RequestIDFromContext(cmd.Context())
		},
	}
	AddCommand(probe)
	t.Cleanup(func() { rootCmd.RemoveCommand(probe) })

	_, err := execute(t, "probe")
	require.NoError(t, err)
	assert.NotEmpty(t, correlation)
	assert.NotEmpty(t, request)
}
