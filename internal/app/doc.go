// Package app wires the partnership server together.
//
// NewApplication loads partnerplane.yaml, applies command line overrides,
// initializes logging and builds the Services: a partnership.Store with its
// metrics registry, the shared command.Registry and one processor.Runner per
// enabled front-end (console, socket, MCP, admin HTTP).
//
// Run performs the initial load of the partnership file and fails if it
// cannot be read or parsed. It then runs every front-end in one errgroup.
// The server stops on SIGINT or SIGTERM, on the first front-end error, or
// when any front-end returns, which is how the console's exit command shuts
// it down. The store and its watcher are closed last.
package app
