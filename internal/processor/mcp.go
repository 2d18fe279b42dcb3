package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"partnerplane/internal/command"
	"partnerplane/pkg/logging"
)

// ServerName is the MCP server name announced to clients.
const ServerName = "partnerplane"

// argCommand is the tool argument holding the command line after the
// tool name.
const argCommand = "command"

// MCP exposes every top-level command as an MCP tool over streamable HTTP.
type MCP struct {
	registry  *command.Registry
	mcpServer *server.MCPServer
	address   string

	listener net.Listener
}

// NewMCP creates the MCP processor and registers one tool per command.
func NewMCP(registry *command.Registry, version, address string) *MCP {
	m := &MCP{
		registry: registry,
		mcpServer: server.NewMCPServer(
			ServerName,
			version,
			server.WithToolCapabilities(false),
		),
		address: address,
	}
	m.registerTools()
	return m
}

// Name implements Runner.
func (m *MCP) Name() string {
	return "mcp"
}

// Server returns the underlying MCP server.
func (m *MCP) Server() *server.MCPServer {
	return m.mcpServer
}

func (m *MCP) registerTools() {
	for _, cmd := range m.registry.Commands() {
		tool := mcp.NewTool(cmd.Name(),
			mcp.WithDescription(fmt.Sprintf("%s. Usage: %s", cmd.Description(), cmd.Usage())),
			mcp.WithString(argCommand,
				mcp.Required(),
				mcp.Description("Arguments of the command, e.g. \"list\" or \"view acme\""),
			),
		)
		m.mcpServer.AddTool(tool, m.handler(cmd))
	}
}

// handler runs cmd with the tokenized command argument. ERROR results
// become tool errors, never protocol errors.
func (m *MCP) handler(cmd command.Command) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		line, err := request.RequireString(argCommand)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res := cmd.Execute(ctx, command.Tokenize(line))
		logging.Debug(subsystemMCP, "Tool %s %q returned %s", cmd.Name(), line, res.Type)
		if !res.IsOK() {
			return mcp.NewToolResultError(res.Text()), nil
		}
		return mcp.NewToolResultText(res.Text()), nil
	}
}

// Listen binds the listen address. It is called by Run when needed.
func (m *MCP) Listen() error {
	if m.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", m.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", m.address, err)
	}
	m.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (m *MCP) Addr() net.Addr {
	if m.listener == nil {
		return nil
	}
	return m.listener.Addr()
}

// Run serves the streamable HTTP transport until ctx is cancelled.
func (m *MCP) Run(ctx context.Context) error {
	if err := m.Listen(); err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:           server.NewStreamableHTTPServer(m.mcpServer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info(subsystemMCP, "Serving MCP tools on http://%s/mcp", m.listener.Addr())
		errCh <- httpServer.Serve(m.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mcp server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(subsystemMCP, err, "Error shutting down MCP server")
	}
	logging.Info(subsystemMCP, "MCP processor stopped")
	return nil
}

// Stdio returns a runner serving the tools over in and out, for MCP
// clients that spawn the server as a subprocess.
func (m *MCP) Stdio(in io.Reader, out io.Writer) Runner {
	return &mcpStdio{mcp: m, in: in, out: out}
}

type mcpStdio struct {
	mcp *MCP
	in  io.Reader
	out io.Writer
}

func (s *mcpStdio) Name() string {
	return "mcp-stdio"
}

// Run serves until the client closes its input or ctx is cancelled.
func (s *mcpStdio) Run(ctx context.Context) error {
	logging.Info(subsystemMCP, "Serving MCP tools on stdio")
	err := server.NewStdioServer(s.mcp.mcpServer).Listen(ctx, s.in, s.out)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("mcp stdio server error: %w", err)
}
