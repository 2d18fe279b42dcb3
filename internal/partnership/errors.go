package partnership

import (
	"errors"
	"fmt"
)

// Kind classifies store errors.
type Kind string

const (
	// KindParse covers malformed XML, missing required attributes or
	// elements, duplicate partnership names and unresolved partners.
	KindParse Kind = "parse"

	// KindIO covers unreadable or unwritable partnership files.
	KindIO Kind = "io"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrParse matches every *Error of KindParse.
	ErrParse = errors.New("partnership parse error")

	// ErrIO matches every *Error of KindIO.
	ErrIO = errors.New("partnership io error")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("partnership store closed")

	// ErrNotFound is returned when a named partner or partnership does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExists is returned when adding a name that is already registered.
	ErrExists = errors.New("already exists")

	// ErrInUse is returned when deleting a partner still referenced by a partnership.
	ErrInUse = errors.New("in use")
)

// Error is a failed load or store attempt. It never implies a change of the
// published configuration.
type Error struct {
	Kind        Kind   // parse or io
	Path        string // file involved, empty when loading from a reader
	Partnership string // partnership being processed, if any
	Message     string // human-readable description
	Err         error  // underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Path != "" {
		return fmt.Sprintf("%s error in %s: %s", e.Kind, e.Path, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels ErrParse and ErrIO.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrParse:
		return e.Kind == KindParse
	case ErrIO:
		return e.Kind == KindIO
	}
	return false
}

func parseErrorf(partnershipName string, format string, args ...interface{}) *Error {
	return &Error{
		Kind:        KindParse,
		Partnership: partnershipName,
		Message:     fmt.Sprintf(format, args...),
	}
}

func ioError(path, message string, err error) *Error {
	return &Error{Kind: KindIO, Path: path, Message: message, Err: err}
}

// withPath returns err with its Path set when it is an *Error without one.
func withPath(err error, path string) error {
	var se *Error
	if errors.As(err, &se) && se.Path == "" {
		cp := *se
		cp.Path = path
		return &cp
	}
	return err
}
