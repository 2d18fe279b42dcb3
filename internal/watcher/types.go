package watcher

import "time"

// Operation describes what happened to the watched file.
type Operation string

const (
	// OperationModified indicates the file was written, created or replaced.
	OperationModified Operation = "Modified"

	// OperationRemoved indicates the file no longer exists.
	OperationRemoved Operation = "Removed"
)

// Source indicates which detection mechanism noticed the change.
type Source string

const (
	// SourceNotify is an fsnotify event on the file's directory.
	SourceNotify Source = "Notify"

	// SourcePoll is a modification time or size change seen by the poller.
	SourcePoll Source = "Poll"
)

// ChangeEvent represents a detected change of the watched file.
type ChangeEvent struct {
	// Path is the watched file.
	Path string

	// Operation describes the change.
	Operation Operation

	// ModTime is the file's modification time when the event was emitted.
	// It is zero for OperationRemoved.
	ModTime time.Time

	// Timestamp is when the event was emitted.
	Timestamp time.Time

	// Source is the mechanism that detected the change.
	Source Source
}
