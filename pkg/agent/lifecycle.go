package agent

import "sync"

// Lifecycle is the start/stop/wait surface the Supervisor drives. It is
// satisfied by *Agent and by the consumers built on top of it.
type Lifecycle interface {
	Start()
	Stop()
	Wait()
	StopAndWait()
}

// Supervisor decorates a Lifecycle with automatic start and teardown
// behaviors, each independently selectable at construction.
//
// Teardown hooks run exactly once, in reverse registration order; that
// order is fixed and part of the contract. Because a wait can only
// finish after the target has observed a stop, register wait-oriented
// hooks before stop-oriented ones:
//
//	s := agent.Supervise(a,
//	    agent.WithAutoStart(),
//	    agent.WithAutoWait(),
//	    agent.WithAutoStop(), // runs first on Close, then the wait
//	)
//	defer s.Close()
//
// or use WithAutoStopAndWait, which sequences the two internally.
type Supervisor struct {
	target    Lifecycle
	teardown  []func(Lifecycle)
	closeOnce sync.Once
}

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithAutoStart starts the target exactly once during Supervise.
func WithAutoStart() SupervisorOption {
	return func(s *Supervisor) {
		s.target.Start()
	}
}

// WithAutoStop registers a teardown hook that stops the target.
func WithAutoStop() SupervisorOption {
	return WithTeardown(Lifecycle.Stop)
}

// WithAutoWait registers a teardown hook that waits for the target.
func WithAutoWait() SupervisorOption {
	return WithTeardown(Lifecycle.Wait)
}

// WithAutoStopAndWait registers a teardown hook that stops the target,
// then waits for it.
func WithAutoStopAndWait() SupervisorOption {
	return WithTeardown(Lifecycle.StopAndWait)
}

// WithTeardown registers an arbitrary teardown hook. Hooks run in
// reverse registration order on Close.
func WithTeardown(fn func(Lifecycle)) SupervisorOption {
	return func(s *Supervisor) {
		if fn != nil {
			s.teardown = append(s.teardown, fn)
		}
	}
}

// Supervise wraps target with the given automatic behaviors. Options are
// applied in order, so WithAutoStart fires during this call, at its
// position in the option list.
func Supervise(target Lifecycle, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{target: target}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Target returns the supervised Lifecycle.
func (s *Supervisor) Target() Lifecycle {
	return s.target
}

// Close fires the registered teardown hooks exactly once, in reverse
// registration order. It always returns nil and exists to satisfy
// io.Closer.
func (s *Supervisor) Close() error {
	s.closeOnce.Do(func() {
		for i := len(s.teardown) - 1; i >= 0; i-- {
			s.teardown[i](s.target)
		}
	})
	return nil
}
