// Package transport provides byte channels to a reader: TCP, serial,
// and an in-memory emulator. The protocol engine only ever sees the
// Channel interface and never learns which medium carries the bytes.
package transport

import "time"

// Channel is a synchronous byte channel to one reader. A single
// timeout applies uniformly to writes and delimiter reads. After a
// timeout the stream position is undefined; the channel must be closed
// and reopened, there is no resynchronization.
type Channel interface {
	// Write sends raw bytes and returns how many were written.
	Write(p []byte) (int, error)

	// ReadUntil blocks until delim is observed or the timeout elapses
	// and returns everything read, including the delimiter.
	ReadUntil(delim byte) (string, error)

	// SetTimeout changes the deadline applied to each Write/ReadUntil.
	SetTimeout(d time.Duration)

	Close() error
}
