package command

import (
	"fmt"
	"strings"
)

// ResultType is the outcome of a command.
type ResultType string

const (
	TypeOK    ResultType = "OK"
	TypeError ResultType = "ERROR"
)

// Result is the outcome of a command plus its text lines.
type Result struct {
	Type  ResultType `json:"type"`
	Lines []string   `json:"-"`
}

// OK returns a successful result.
func OK(lines ...string) Result {
	return Result{Type: TypeOK, Lines: lines}
}

// Errorf returns a failed result with a formatted message.
func Errorf(format string, args ...interface{}) Result {
	return Result{Type: TypeError, Lines: []string{fmt.Sprintf(format, args...)}}
}

// FromError returns a failed result holding err's text.
func FromError(err error) Result {
	return Result{Type: TypeError, Lines: []string{err.Error()}}
}

// IsOK reports whether the command succeeded.
func (r Result) IsOK() bool {
	return r.Type == TypeOK
}

// Text joins the result lines with newlines.
func (r Result) Text() string {
	return strings.Join(r.Lines, "\n")
}

// String implements fmt.Stringer.
func (r Result) String() string {
	return r.Text()
}
