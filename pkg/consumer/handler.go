package consumer

import "errors"

// ErrStop is returned by a Handler to end its consumer voluntarily.
// The loop treats it like any other fault for channel purposes (the
// channel is isolated and nothing further is drained) but reports it as
// a graceful stop in logs and metrics.
var ErrStop = errors.New("consumer: voluntary stop")

// Handler processes one message. Implementations choose the outcome
// through the return value: nil continues the loop, ErrStop ends the
// consumer gracefully, any other error ends it as a fault.
//
// The two ways to supply a Handler are equivalent to the loop: a named
// type implementing the interface (fixed behavior), or a HandlerFunc
// chosen at runtime (injected strategy).
type Handler[T any] interface {
	Consume(v T) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc[T any] func(v T) error

// Consume implements Handler.
func (f HandlerFunc[T]) Consume(v T) error {
	return f(v)
}
