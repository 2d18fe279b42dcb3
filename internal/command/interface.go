package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Command is an operator command that can be executed from any front-end.
type Command interface {
	// Name returns the primary name of the command
	Name() string

	// Execute runs the command with the given arguments. It never panics on
	// bad input; argument errors are returned as ERROR results.
	Execute(ctx context.Context, args []string) Result

	// Usage returns the usage string for the command
	Usage() string

	// Description returns a brief description of what the command does
	Description() string

	// Completions returns possible completions for the command
	// The input parameter is the current partial input for context
	Completions(input string) []string

	// Aliases returns alternative names for this command
	Aliases() []string
}

// Registry manages available commands. Names keep registration order.
type Registry struct {
	order    []string
	commands map[string]Command
	aliases  map[string]string // alias -> primary command name
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register adds a command to the registry. A command registered under an
// existing name replaces it.
func (r *Registry) Register(cmd Command) {
	name := strings.ToLower(cmd.Name())
	if _, exists := r.commands[name]; !exists {
		r.order = append(r.order, name)
	}
	r.commands[name] = cmd

	for _, alias := range cmd.Aliases() {
		r.aliases[strings.ToLower(alias)] = name
	}
}

// Get retrieves a command by name or alias, case-insensitively.
func (r *Registry) Get(name string) (Command, bool) {
	name = strings.ToLower(name)
	if cmd, exists := r.commands[name]; exists {
		return cmd, true
	}

	if primary, exists := r.aliases[name]; exists {
		if cmd, exists := r.commands[primary]; exists {
			return cmd, true
		}
	}

	return nil, false
}

// Names returns all registered command names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Commands returns all registered commands in registration order.
func (r *Registry) Commands() []Command {
	out := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// AllCompletions returns all command names and aliases, sorted.
func (r *Registry) AllCompletions() []string {
	completions := r.Names()
	for alias := range r.aliases {
		completions = append(completions, alias)
	}
	sort.Strings(completions)
	return completions
}

// Execute runs the named command. An unknown name yields an ERROR result.
func (r *Registry) Execute(ctx context.Context, name string, args []string) Result {
	cmd, ok := r.Get(name)
	if !ok {
		return Errorf("command not found: %s", name)
	}
	return cmd.Execute(ctx, args)
}

// ExecuteLine tokenizes line and runs the command it names.
func (r *Registry) ExecuteLine(ctx context.Context, line string) Result {
	name, args := Parse(line)
	if name == "" {
		return Errorf("empty command")
	}
	return r.Execute(ctx, name, args)
}

// baseCommand holds the metadata shared by all commands.
type baseCommand struct {
	name        string
	usage       string
	description string
	aliases     []string
}

func (b *baseCommand) Name() string        { return b.name }
func (b *baseCommand) Usage() string       { return b.usage }
func (b *baseCommand) Description() string { return b.description }
func (b *baseCommand) Aliases() []string   { return b.aliases }

func (b *baseCommand) Completions(input string) []string {
	return []string{}
}

// checkArgs validates the argument count. max < 0 means unbounded.
func (b *baseCommand) checkArgs(args []string, min, max int) (Result, bool) {
	if len(args) < min || (max >= 0 && len(args) > max) {
		return Errorf("usage: %s", b.usage), false
	}
	return Result{}, true
}

// Group is a command that dispatches to named subcommands, as in
// "partnership list".
type Group struct {
	baseCommand
	subs *Registry
}

// NewGroup creates a group command holding subs.
func NewGroup(name, description string, subs ...Command) *Group {
	g := &Group{
		baseCommand: baseCommand{name: name, description: description},
		subs:        NewRegistry(),
	}
	for _, sub := range subs {
		g.subs.Register(sub)
	}
	g.usage = fmt.Sprintf("%s <%s>", name, strings.Join(g.subs.Names(), "|"))
	return g
}

// Subcommands returns the registry of subcommands.
func (g *Group) Subcommands() *Registry {
	return g.subs
}

// Execute dispatches to the subcommand named by the first argument.
func (g *Group) Execute(ctx context.Context, args []string) Result {
	if len(args) == 0 {
		return Errorf("usage: %s", g.usage)
	}
	sub, ok := g.subs.Get(args[0])
	if !ok {
		return Errorf("unknown %s command: %s (usage: %s)", g.name, args[0], g.usage)
	}
	return sub.Execute(ctx, args[1:])
}

// Completions returns the subcommand names and aliases.
func (g *Group) Completions(input string) []string {
	return g.subs.AllCompletions()
}
