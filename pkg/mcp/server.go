package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/brandkit/pkg/mcplog"
	"github.com/gnana997/brandkit/pkg/service"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for brandkit, exposing extraction,
// assembly, contrast and export tools.
type Server struct {
	mcpServer *server.MCPServer
	svc       *service.Service
	logger    *mcplog.Logger // nil disables call logging
}

// NewServer creates a new MCP server backed by svc. When logger is non-nil
// every tool call is recorded to it.
func NewServer(svc *service.Service, logger *mcplog.Logger) *Server {
	s := &Server{svc: svc, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("brandkit", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: extractKitTool(), Handler: s.handleExtractKit},
		server.ServerTool{Tool: assembleKitTool(), Handler: s.handleAssembleKit},
		server.ServerTool{Tool: checkContrastTool(), Handler: s.handleCheckContrast},
		server.ServerTool{Tool: exportKitTool(), Handler: s.handleExportKit},
	)

	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
