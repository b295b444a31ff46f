package channel

import (
	"reflect"
	"sync"
)

// Registry hands out one shared keep-latest sink per message type. Sinks
// are created lazily on first request and live as long as the registry.
// They absorb messages after a consumer has faulted: producers keep
// sending, each send supersedes the previous one, and no consumer ever
// drains the sink, so an abandoned channel cannot grow without bound.
type Registry struct {
	mu    sync.Mutex
	sinks map[reflect.Type]any
}

// NewRegistry creates an empty sink registry.
func NewRegistry() *Registry {
	return &Registry{sinks: make(map[reflect.Type]any)}
}

// defaultRegistry backs NullSink. It lives for the process lifetime.
var defaultRegistry = NewRegistry()

// NullSinkIn returns the registry's shared keep-latest sink for T,
// creating it on first use.
func NullSinkIn[T any](r *Registry) *Overwrite[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sinks[key]; ok {
		return s.(*Overwrite[T])
	}
	s := NewOverwrite[T]()
	r.sinks[key] = s
	return s
}

// NullSink returns the process-wide shared keep-latest sink for T.
func NullSink[T any]() *Overwrite[T] {
	return NullSinkIn[T](defaultRegistry)
}
