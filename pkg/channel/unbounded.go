package channel

import (
	"sync"
	"time"
)

// Unbounded is an ordered FIFO carrier with no capacity limit. Sends
// never block; receives observe values in send order. The zero value is
// not usable; call NewUnbounded.
type Unbounded[T any] struct {
	mu     sync.Mutex
	queue  []T
	target Sink[T]
	notify chan struct{}
}

// NewUnbounded creates an empty unbounded carrier.
func NewUnbounded[T any]() *Unbounded[T] {
	return &Unbounded[T]{notify: make(chan struct{}, 1)}
}

// Send enqueues a value, or forwards it when the carrier has been linked
// to another sink.
func (u *Unbounded[T]) Send(v T) {
	u.mu.Lock()
	if t := u.target; t != nil {
		u.mu.Unlock()
		t.Send(v)
		return
	}
	u.queue = append(u.queue, v)
	u.mu.Unlock()

	select {
	case u.notify <- struct{}{}:
	default:
	}
}

// TryReceive extracts the oldest pending value without blocking.
func (u *Unbounded[T]) TryReceive() (T, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var zero T
	if len(u.queue) == 0 {
		return zero, false
	}
	v := u.queue[0]
	u.queue[0] = zero
	u.queue = u.queue[1:]
	return v, true
}

// Receive blocks until a value arrives or the timeout elapses. A timeout
// <= 0 blocks indefinitely.
func (u *Unbounded[T]) Receive(timeout time.Duration) (T, error) {
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	for {
		if v, ok := u.TryReceive(); ok {
			return v, nil
		}
		select {
		case <-u.notify:
			// Readiness is edge-triggered and may be stale; loop.
		case <-timeoutCh:
			var zero T
			return zero, ErrTimeout
		}
	}
}

// Len returns the number of queued values.
func (u *Unbounded[T]) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.queue)
}

// Ready returns the carrier's readiness signal.
func (u *Unbounded[T]) Ready() <-chan struct{} {
	return u.notify
}

// Link permanently redirects all future sends to target. Already-queued
// values stay in this carrier.
func (u *Unbounded[T]) Link(target Sink[T]) {
	u.mu.Lock()
	u.target = target
	u.mu.Unlock()
}
