package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/slotwise/adapter/cli"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

func registerCoreTools(srv *mcp.Server, t toolset) {
	srv.Tool("health").
		Description("Report database and calendar provider health").
		Handler(t.health)

	srv.Tool("version").
		Description("Get slotwise version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":    cli.Version,
				"commit":     cli.Commit,
				"build_date": cli.BuildDate,
			}, nil
		})
}

func (t toolset) health(ctx context.Context, _ struct{}) (observability.OverallHealth, error) {
	if t.app.Health == nil {
		return observability.OverallHealth{Status: observability.HealthStatusHealthy}, nil
	}
	return t.app.Health.GetOverallHealth(ctx), nil
}
