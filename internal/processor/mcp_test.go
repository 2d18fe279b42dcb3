package processor

import (
	"bufio"
	"context"
	"io"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, m *MCP, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	cmd, ok := m.registry.Get(name)
	require.True(t, ok)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := m.handler(cmd)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestMCP_ToolCalls(t *testing.T) {
	reg, _ := newTestRegistry(t)
	m := NewMCP(reg, "test", "127.0.0.1:0")

	tests := []struct {
		name    string
		tool    string
		args    map[string]interface{}
		isError bool
		want    string
	}{
		{"partner list", "partner", map[string]interface{}{"command": "list"}, false, "acme\nglobex"},
		{"partnership list", "partnership", map[string]interface{}{"command": "list"}, false, "acme-to-globex"},
		{"quoted argument", "partner", map[string]interface{}{"command": `add "New Co" as2_id=NEW`}, false, "partner added: New Co"},
		{"command error", "partner", map[string]interface{}{"command": "view ghost"}, true, "unknown partner: ghost"},
		{"missing argument", "partnership", map[string]interface{}{}, true, "command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, m, tt.tool, tt.args)
			assert.Equal(t, tt.isError, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

func TestMCP_RunStops(t *testing.T) {
	reg, _ := newTestRegistry(t)
	m := NewMCP(reg, "test", "127.0.0.1:0")
	require.NoError(t, m.Listen())
	require.NotNil(t, m.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}

func TestMCP_Stdio(t *testing.T) {
	reg, _ := newTestRegistry(t)
	m := NewMCP(reg, "test", "127.0.0.1:0")

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	runner := m.Stdio(inR, outW)
	assert.Equal(t, "mcp-stdio", runner.Name())

	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	replies := bufio.NewReader(outR)
	send := func(msg string) string {
		_, err := io.WriteString(inW, msg+"\n")
		require.NoError(t, err)
		line, err := replies.ReadString('\n')
		require.NoError(t, err)
		return line
	}

	initReply := send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)
	assert.Contains(t, initReply, ServerName)

	tools := send(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	assert.Contains(t, tools, `"name":"partner"`)
	assert.Contains(t, tools, `"name":"partnership"`)

	cancel()
	_ = inW.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stdio runner did not stop")
	}
}
