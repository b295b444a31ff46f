// Package channel provides the asynchronous message carriers that agents
// and consumers coordinate over.
//
// Two carriers are provided:
//   - Unbounded: an ordered FIFO with no capacity limit.
//   - Overwrite: a keep-latest carrier where each send replaces the
//     previous pending value.
//
// Both support non-blocking try-receive, blocking receive with an
// optional timeout, and Link, which permanently redirects all future
// sends to another sink. SelectReceive races a carrier against a
// cancellation token, with cancellation taking priority.
package channel

import (
	"errors"
	"time"
)

var (
	// ErrTimeout is returned by Receive and SelectReceive when the
	// timeout elapses before a value arrives.
	ErrTimeout = errors.New("channel: receive timed out")

	// ErrCancelled is returned by SelectReceive when cancellation is
	// observed before a value is extracted.
	ErrCancelled = errors.New("channel: receive cancelled")
)

// Sink accepts messages.
type Sink[T any] interface {
	// Send delivers a value to the sink. Send never blocks on either
	// carrier in this package.
	Send(v T)
}

// Source delivers messages.
type Source[T any] interface {
	// TryReceive extracts a pending value without blocking. It returns
	// false when nothing is pending.
	TryReceive() (T, bool)

	// Receive blocks until a value arrives or the timeout elapses.
	// A timeout <= 0 blocks indefinitely. Expiry returns ErrTimeout.
	Receive(timeout time.Duration) (T, error)

	// Len returns the number of pending values.
	Len() int

	// Ready returns an edge-triggered readiness signal. A receive on it
	// means a value may be pending; callers must confirm with
	// TryReceive and re-enter their wait loop on a miss.
	Ready() <-chan struct{}
}

// Channel is a carrier usable from both ends, whose delivery target can
// be rebound with Link.
type Channel[T any] interface {
	Sink[T]
	Source[T]

	// Link permanently redirects all future sends to target. Values
	// already queued at the moment of linking stay where they are and
	// are only observable through this carrier's receive operations.
	Link(target Sink[T])
}
