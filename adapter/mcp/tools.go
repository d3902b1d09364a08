// Package mcp exposes slot computation and profile management as MCP tools.
package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/slotwise/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterTools registers the tools that mirror the suggest and profile commands.
func RegisterTools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	t := toolset{app: deps.App}
	registerCoreTools(srv, t)
	registerSlotTools(srv, t)
	registerProfileTools(srv, t)
	return nil
}

type toolset struct {
	app *cli.App
}
