package channel

import (
	"sync"
	"time"
)

// Overwrite is a keep-latest carrier: every send replaces the pending
// value, so at most one value is ever queued. It backs the shared null
// sinks but can be used anywhere only the freshest message matters.
// The zero value is not usable; call NewOverwrite.
type Overwrite[T any] struct {
	mu     sync.Mutex
	value  T
	has    bool
	target Sink[T]
	notify chan struct{}
}

// NewOverwrite creates an empty keep-latest carrier.
func NewOverwrite[T any]() *Overwrite[T] {
	return &Overwrite[T]{notify: make(chan struct{}, 1)}
}

// Send stores a value, superseding any pending one, or forwards it when
// the carrier has been linked to another sink.
func (o *Overwrite[T]) Send(v T) {
	o.mu.Lock()
	if t := o.target; t != nil {
		o.mu.Unlock()
		t.Send(v)
		return
	}
	o.value = v
	o.has = true
	o.mu.Unlock()

	select {
	case o.notify <- struct{}{}:
	default:
	}
}

// TryReceive extracts the pending value without blocking.
func (o *Overwrite[T]) TryReceive() (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var zero T
	if !o.has {
		return zero, false
	}
	v := o.value
	o.value = zero
	o.has = false
	return v, true
}

// Latest returns the pending value without consuming it.
func (o *Overwrite[T]) Latest() (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value, o.has
}

// Receive blocks until a value arrives or the timeout elapses. A timeout
// <= 0 blocks indefinitely.
func (o *Overwrite[T]) Receive(timeout time.Duration) (T, error) {
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	for {
		if v, ok := o.TryReceive(); ok {
			return v, nil
		}
		select {
		case <-o.notify:
		case <-timeoutCh:
			var zero T
			return zero, ErrTimeout
		}
	}
}

// Len returns 1 when a value is pending, 0 otherwise.
func (o *Overwrite[T]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.has {
		return 1
	}
	return 0
}

// Ready returns the carrier's readiness signal.
func (o *Overwrite[T]) Ready() <-chan struct{} {
	return o.notify
}

// Link permanently redirects all future sends to target.
func (o *Overwrite[T]) Link(target Sink[T]) {
	o.mu.Lock()
	o.target = target
	o.mu.Unlock()
}
