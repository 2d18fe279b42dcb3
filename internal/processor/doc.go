// Package processor provides the command front-ends of the server.
//
// Each processor reads command lines from one transport, dispatches them
// through a command.Registry and writes the results back:
//
//   - Stream: an interactive console on stdin/stdout (readline)
//   - Socket: one XML request per TCP (optionally TLS) connection
//   - MCP: every top-level command exposed as an MCP tool
//
// All processors implement Runner so the application can start them in one
// errgroup and stop them by cancelling its context.
package processor

import "context"

// Runner is a front-end that serves until ctx is cancelled or its input ends.
type Runner interface {
	// Name identifies the processor in logs.
	Name() string

	// Run blocks until the processor stops. A cancelled context is a
	// normal shutdown and returns nil.
	Run(ctx context.Context) error
}

const (
	subsystemStream = "StreamProcessor"
	subsystemSocket = "SocketProcessor"
	subsystemMCP    = "MCPProcessor"
)
