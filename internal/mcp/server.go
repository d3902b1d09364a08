// Package mcp runs the slotwise MCP server over streamable HTTP.
package mcp

import (
	"context"
	"errors"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"

	"github.com/felixgeelhaar/slotwise/adapter/cli"
	mcptools "github.com/felixgeelhaar/slotwise/adapter/mcp"
	"github.com/felixgeelhaar/slotwise/pkg/config"
)

// NewServer builds an MCP server with the slotwise tools registered.
func NewServer(app *cli.App) (*mcpgo.Server, error) {
	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    "slotwise",
		Version: cli.Version,
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	})
	if err := mcptools.RegisterTools(srv, mcptools.ToolDependencies{App: app}); err != nil {
		return nil, err
	}
	return srv, nil
}

// Serve listens on cfg.MCPAddr until ctx is cancelled. Requests need the
// bearer token from cfg.MCPAuthToken when one is set.
func Serve(ctx context.Context, cfg *config.Config, app *cli.App, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := NewServer(app)
	if err != nil {
		return err
	}

	adapter := mcpLogger{logger: logger}
	stack := middleware.DefaultStack(adapter)
	if cfg.MCPAuthToken != "" {
		authenticator := middleware.BearerTokenAuthenticator(middleware.StaticTokens(map[string]*middleware.Identity{
			cfg.MCPAuthToken: {ID: "slotwise", Name: "slotwise"},
		}))
		stack = append([]middleware.Middleware{middleware.Auth(authenticator, middleware.WithAuthLogger(adapter))}, stack...)
	} else {
		logger.Warn("SLOTWISE_MCP_AUTH_TOKEN not set; MCP requests are unauthenticated")
	}

	logger.Info("mcp server listening", "addr", cfg.MCPAddr)
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil, mcpgo.WithMiddleware(stack...))
}

// mcpLogger routes middleware logs to slog.
type mcpLogger struct {
	logger *slog.Logger
}

func (l mcpLogger) Debug(msg string, fields ...middleware.Field) { l.logger.Debug(msg, args(fields)...) }
func (l mcpLogger) Info(msg string, fields ...middleware.Field)  { l.logger.Info(msg, args(fields)...) }
func (l mcpLogger) Warn(msg string, fields ...middleware.Field)  { l.logger.Warn(msg, args(fields)...) }
func (l mcpLogger) Error(msg string, fields ...middleware.Field) { l.logger.Error(msg, args(fields)...) }

func args(fields []middleware.Field) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}
