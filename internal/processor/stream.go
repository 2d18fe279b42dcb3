package processor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"

	"partnerplane/internal/command"
	"partnerplane/pkg/logging"
)

// Console protocol strings.
const (
	Prompt             = "#>"
	ExitCommand        = "exit"
	MsgCommandNotFound = "Error: command not found"
	MsgCommandError    = "Error executing command"
)

// LineReader is the input side of the console. *readline.Instance
// satisfies it.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Stream is the console processor.
type Stream struct {
	registry    *command.Registry
	in          LineReader
	out         io.Writer
	writePrompt bool
}

// NewStream creates a console reading from in and writing to out. The
// prompt is written by the console itself; use it for plain readers.
func NewStream(registry *command.Registry, in LineReader, out io.Writer) *Stream {
	return &Stream{registry: registry, in: in, out: out, writePrompt: true}
}

// NewReadlineStream creates a console on the process terminal with history
// and tab completion.
func NewReadlineStream(registry *command.Registry) (*Stream, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              Prompt + " ",
		HistoryFile:         filepath.Join(os.TempDir(), ".partnerplane_history"),
		AutoComplete:        newCompleter(registry),
		InterruptPrompt:     "^C",
		EOFPrompt:           ExitCommand,
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	return &Stream{registry: registry, in: rl, out: rl.Stdout()}, nil
}

// NewStdinStream returns a readline console when stdin is a terminal and a
// plain line console otherwise.
func NewStdinStream(registry *command.Registry) (*Stream, error) {
	if readline.IsTerminal(int(os.Stdin.Fd())) {
		return NewReadlineStream(registry)
	}
	return NewStream(registry, NewLineReader(os.Stdin), os.Stdout), nil
}

// Name implements Runner.
func (s *Stream) Name() string {
	return "stream"
}

// Run processes lines until exit, end of input or ctx cancellation.
func (s *Stream) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.in.Close()
		case <-done:
		}
	}()
	defer s.in.Close()

	logging.Info(subsystemStream, "Console ready, type '%s' to leave", ExitCommand)

	for {
		if ctx.Err() != nil {
			return nil
		}
		if s.writePrompt {
			fmt.Fprint(s.out, Prompt)
		}

		line, err := s.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("console read error: %w", err)
		}

		if s.HandleLine(ctx, line) {
			logging.Info(subsystemStream, "Console closed by %s command", ExitCommand)
			return nil
		}
	}
}

// HandleLine executes one console line. It reports whether the line was
// the exit command.
func (s *Stream) HandleLine(ctx context.Context, line string) bool {
	name, args := command.Parse(line)
	if name == "" {
		return false
	}
	if name == ExitCommand {
		return true
	}

	cmd, ok := s.registry.Get(name)
	if !ok {
		s.writeLine(MsgCommandNotFound + "> " + name)
		s.writeLine("List of commands:")
		s.writeLine(ExitCommand)
		for _, n := range s.registry.Names() {
			s.writeLine(n)
		}
		return false
	}

	res := cmd.Execute(ctx, args)
	if !res.IsOK() {
		s.writeLine(MsgCommandError)
	}
	for _, l := range res.Lines {
		s.writeLine(l)
	}
	return false
}

func (s *Stream) writeLine(line string) {
	fmt.Fprintln(s.out, line)
}

// lineReader adapts an io.Reader to LineReader.
type lineReader struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

// NewLineReader reads newline-terminated lines from r. Close closes r when
// it is an io.Closer.
func NewLineReader(r io.Reader) LineReader {
	lr := &lineReader{scanner: bufio.NewScanner(r)}
	if c, ok := r.(io.Closer); ok {
		lr.closer = c
	}
	return lr
}

func (l *lineReader) Readline() (string, error) {
	if l.scanner.Scan() {
		return l.scanner.Text(), nil
	}
	if err := l.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (l *lineReader) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// newCompleter builds tab completion from the registry: command names,
// group subcommands and their dynamic arguments.
func newCompleter(registry *command.Registry) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{readline.PcItem(ExitCommand)}
	for _, cmd := range registry.Commands() {
		group, ok := cmd.(*command.Group)
		if !ok {
			items = append(items, readline.PcItem(cmd.Name(), readline.PcItemDynamic(cmd.Completions)))
			continue
		}

		var subs []readline.PrefixCompleterInterface
		for _, sub := range group.Subcommands().Commands() {
			names := append([]string{sub.Name()}, sub.Aliases()...)
			for _, n := range names {
				subs = append(subs, readline.PcItem(n, readline.PcItemDynamic(sub.Completions)))
			}
		}
		items = append(items, readline.PcItem(group.Name(), subs...))
	}
	return readline.NewPrefixCompleter(items...)
}

// filterInput blocks ctrl+z, which would suspend the server.
func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
