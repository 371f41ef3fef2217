package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/termgate/termgate/internal/config"
	"github.com/termgate/termgate/internal/logging"
	"github.com/termgate/termgate/internal/provider"
)

// Server exposes the process provider over MCP stdio.
type Server struct {
	mcpServer *server.MCPServer
	provider  *provider.Provider
	log       *logging.Logger
}

// NewServer builds the MCP server and registers the configured tools.
func NewServer(cfg *config.Config, prov *provider.Provider, log *logging.Logger, version string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"termgate",
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		provider: prov,
		log:      log,
	}
	s.registerTools(cfg)
	return s
}

// Serve runs the stdio transport until the client disconnects.
func (s *Server) Serve() error {
	s.log.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// registerTools wires the enabled tools under their configured names.
// An empty name hides a tool; the terminate tool follows the terminal
// tool.
func (s *Server) registerTools(cfg *config.Config) {
	if cfg.Tools.ExecName != "" {
		s.mcpServer.AddTool(mcp.NewTool(cfg.Tools.ExecName,
			mcp.WithDescription(cfg.Tools.ExecDescription),
			mcp.WithString("input",
				mcp.Required(),
				mcp.Description(provider.ParamExecInput),
			),
			mcp.WithNumber("timeout",
				mcp.Description(provider.ParamExecTimeout),
			),
		), s.handle(provider.ToolExec))
	}
	if cfg.Tools.TerminalName != "" {
		s.mcpServer.AddTool(mcp.NewTool(cfg.Tools.TerminalName,
			mcp.WithDescription(cfg.Tools.TerminalDescription),
			mcp.WithString("input",
				mcp.Description(provider.ParamTerminalInput),
			),
			mcp.WithNumber("wait",
				mcp.Description(provider.ParamTerminalWait),
			),
		), s.handle(provider.ToolInteract))

		s.mcpServer.AddTool(mcp.NewTool(cfg.Tools.TerminateName,
			mcp.WithDescription(cfg.Tools.TerminateDescription),
		), s.handle(provider.ToolTerminate))
	}
}

// handle adapts one provider tool to an MCP handler. Operational
// failures come back as text the caller can read and react to; only
// dispatch faults surface as protocol errors.
func (s *Server) handle(toolID string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.provider.Execute(ctx, toolID, req.GetArguments())
		if err != nil {
			s.log.Error("tool execution failed",
				zap.String("tool", toolID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("tool %s: %w", toolID, err)
		}
		return mcp.NewToolResultText(result.Text()), nil
	}
}
