// Package command provides the operator command set of the server.
//
// Commands implement the Command interface and are collected in a Registry.
// Top-level commands such as "partner" and "partnership" are Groups that
// dispatch to subcommands. Every front-end (console, socket, MCP, admin
// HTTP) tokenizes a command line with Tokenize, looks the command up in the
// same registry and renders the returned Result.
package command
