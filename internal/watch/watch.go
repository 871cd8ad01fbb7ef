// Package watch reports changes to the files folio renders from.
//
// A Watcher tracks individual files. It watches each file's directory so that
// editors which save by writing a temporary file and renaming it over the
// original are still observed, and it coalesces the burst of events a single
// save produces into one Event per path.
package watch

import (
	"errors"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
)

// Op represents the file system operations folded into an Event.
type Op uint32

const (
	// OpCreate indicates the file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates the file was written to.
	OpWrite
	// OpRemove indicates the file was removed.
	OpRemove
	// OpRename indicates the file was renamed away.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	case 0:
		return "NONE"
	}
	var s string
	for _, o := range []Op{OpCreate, OpWrite, OpRemove, OpRename} {
		if op.Has(o) {
			if s != "" {
				s += "|"
			}
			s += o.String()
		}
	}
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return o != 0 && op&o == o
}

// Changed reports whether the file may have new content.
func (op Op) Changed() bool {
	return op.Has(OpWrite) || op.Has(OpCreate)
}

// Event is a coalesced change to one watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string

	// Op is the union of the operations seen during the debounce window.
	Op Op

	// Timestamp is when the last folded operation occurred.
	Timestamp time.Time
}

// Config holds watcher options.
type Config struct {
	// DebounceDelay is how long a path must stay quiet before its event is
	// delivered. Default: 100ms
	DebounceDelay time.Duration

	// BufferSize is the size of the event and error channels.
	// Default: 16
	BufferSize int
}

// DefaultConfig returns the default watcher options.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
		BufferSize:    16,
	}
}

// Option configures a Watcher.
type Option func(*Config)

// WithDebounceDelay sets the debounce delay.
func WithDebounceDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.DebounceDelay = d
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.BufferSize = size
		}
	}
}
