// Package cancel provides a write-once, multi-reader cancellation signal.
//
// A Source owns the signal and is the only writer. It can hand out any
// number of Token views, all sharing the same signal, so one Cancel call
// stops an entire group of cooperating workers:
//
//	src := cancel.NewSource()
//	go worker(src.Token())
//	go worker(src.Token())
//	src.Cancel()
//
// Cancellation is cooperative: readers either poll
// IsCancellationRequested or select on Done.
package cancel

import (
	"sync"
	"sync/atomic"
)

// Source owns a one-shot cancellation signal shared by every token it
// issues. The zero value is not usable; call NewSource.
type Source struct {
	done chan struct{}
	once sync.Once
}

// NewSource creates a Source with an unset signal.
func NewSource() *Source {
	return &Source{done: make(chan struct{})}
}

// Cancel sets the signal. It is safe to call from any goroutine, any
// number of times; only the first call has an effect.
func (s *Source) Cancel() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Token issues a new read-only view of the signal. Tokens may be issued
// before or after cancellation and all observe the same transition.
func (s *Source) Token() Token {
	return Token{done: s.done, seen: new(atomic.Bool)}
}

// IsCancellationRequested reports whether Cancel has been called.
func (s *Source) IsCancellationRequested() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Token is a read-only view of a Source's signal. Tokens are small and
// intended to be passed by value. The zero Token is valid and never
// reports cancellation.
type Token struct {
	done <-chan struct{}
	seen *atomic.Bool
}

// IsCancellationRequested reports whether the owning Source has been
// cancelled. Once it returns true for this token it keeps returning true
// from the token's own cache without touching the shared signal.
func (t Token) IsCancellationRequested() bool {
	if t.seen != nil && t.seen.Load() {
		return true
	}
	select {
	case <-t.done:
		if t.seen != nil {
			t.seen.Store(true)
		}
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when cancellation is requested.
// For the zero Token it returns nil, which never becomes ready in a
// select.
func (t Token) Done() <-chan struct{} {
	return t.done
}
