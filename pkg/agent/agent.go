// Package agent provides lifecycle-managed units of background work with
// start/stop/wait semantics and cooperative cancellation.
//
// An Agent wraps a body function that receives a cancellation token. The
// caller starts it, the executor runs the body concurrently, and the
// caller eventually stops it (requesting cancellation) and waits for it.
// The body stays responsive to Stop by polling the token or by racing it
// with channel.SelectReceive; cancellation is cooperative, never
// preemptive, and cannot prevent a scheduled body from beginning
// execution.
//
//	a := agent.New("counter", func(tok cancel.Token) {
//	    for !tok.IsCancellationRequested() {
//	        // work
//	    }
//	})
//	a.Start()
//	// ...
//	a.StopAndWait()
package agent

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gocrew/gocrew/pkg/cancel"
	"github.com/gocrew/gocrew/pkg/logger"
)

// Status is the lifecycle state of an agent.
type Status int32

const (
	// StatusCreated is the state of a constructed, unstarted agent.
	StatusCreated Status = iota
	// StatusRunnable means Start has scheduled the body on the executor.
	StatusRunnable
	// StatusStarted means the body is executing.
	StatusStarted
	// StatusCompleted means the body has returned and finalization ran.
	StatusCompleted
	// StatusStopped means Stop has requested cancellation.
	StatusStopped
	// StatusWaited means a Wait call has observed completion.
	StatusWaited
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusRunnable:
		return "runnable"
	case StatusStarted:
		return "started"
	case StatusCompleted:
		return "completed"
	case StatusStopped:
		return "stopped"
	case StatusWaited:
		return "waited"
	default:
		return "unknown"
	}
}

// Body is the work an agent performs. It runs once, concurrently with
// the caller, and is expected to poll the token to remain responsive to
// Stop.
type Body func(token cancel.Token)

// MetricsRecorder receives agent lifecycle events. Implementations must
// be safe for concurrent use.
type MetricsRecorder interface {
	AgentStarted(name string)
	AgentCompleted(name string, duration time.Duration)
	AgentPanicked(name string)
}

// nopMetrics is the default no-op recorder.
type nopMetrics struct{}

func (nopMetrics) AgentStarted(string)                  {}
func (nopMetrics) AgentCompleted(string, time.Duration) {}
func (nopMetrics) AgentPanicked(string)                 {}

// Agent is a lifecycle state machine around a single body execution.
// All methods are safe for concurrent use.
type Agent struct {
	id     string
	name   string
	body   Body
	source *cancel.Source
	exec   Executor

	status    atomic.Int32
	done      chan struct{}
	startOnce sync.Once
	doneOnce  sync.Once

	log     logger.Logger
	metrics MetricsRecorder
}

// Option configures an Agent.
type Option func(*Agent)

// WithExecutor sets the executor the body is scheduled on. The default
// runs the body on its own goroutine.
func WithExecutor(e Executor) Option {
	return func(a *Agent) {
		if e != nil {
			a.exec = e
		}
	}
}

// WithLogger sets the agent's logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.log = l
		}
	}
}

// WithMetrics sets the agent's metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(a *Agent) {
		if m != nil {
			a.metrics = m
		}
	}
}

// New creates an agent in StatusCreated. The body is required.
func New(name string, body Body, opts ...Option) *Agent {
	a := &Agent{
		id:      uuid.NewString(),
		name:    name,
		body:    body,
		source:  cancel.NewSource(),
		exec:    GoExecutor{},
		done:    make(chan struct{}),
		log:     logger.Global(),
		metrics: nopMetrics{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("agent", a.name, "id", a.id)
	return a
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() string {
	return a.id
}

// Name returns the agent's name.
func (a *Agent) Name() string {
	return a.name
}

// Status returns the current lifecycle state.
func (a *Agent) Status() Status {
	return Status(a.status.Load())
}

// Token issues a read-only view of the agent's cancellation signal.
func (a *Agent) Token() cancel.Token {
	return a.source.Token()
}

// Start schedules exactly one execution of the body with a fresh
// cancellation token. Subsequent calls are no-ops.
func (a *Agent) Start() {
	a.startOnce.Do(func() {
		a.setStatus(StatusRunnable)
		a.log.Debug("agent scheduled")
		a.exec.Schedule(a.run)
	})
}

// Stop requests cancellation. It never blocks, is idempotent, and is
// safe from any goroutine. A body that never polls its token runs to its
// own natural completion regardless.
func (a *Agent) Stop() {
	a.source.Cancel()
	a.setStatus(StatusStopped)
	a.log.Debug("agent stop requested")
}

// Wait blocks until the body has returned and finalization has run. It
// may be called concurrently by any number of goroutines; all unblock
// after the single finalization step.
func (a *Agent) Wait() {
	<-a.done
	a.setStatus(StatusWaited)
}

// StopAndWait requests cancellation, then blocks until completion. It is
// idempotent: repeated calls return without a second body execution.
func (a *Agent) StopAndWait() {
	a.Stop()
	a.Wait()
}

// run executes the body on the executor's goroutine.
func (a *Agent) run() {
	a.setStatus(StatusStarted)
	a.metrics.AgentStarted(a.name)
	a.log.Debug("agent started")
	started := time.Now()

	// Finalization must fire exactly once however the body ends, so it
	// is deferred before the panic guard.
	defer func() {
		a.finish(time.Since(started))
	}()
	defer func() {
		if r := recover(); r != nil {
			a.metrics.AgentPanicked(a.name)
			a.log.Error("agent body panicked", "panic", r)
		}
	}()

	a.body(a.source.Token())
}

// finish marks the agent completed and releases all waiters, exactly once.
func (a *Agent) finish(elapsed time.Duration) {
	a.doneOnce.Do(func() {
		a.setStatus(StatusCompleted)
		a.metrics.AgentCompleted(a.name, elapsed)
		a.log.Debug("agent completed", "elapsed", elapsed)
		close(a.done)
	})
}

// setStatus records a lifecycle transition. Transitions are driven by
// Start/Stop/Wait and by the body's own return; the body returning after
// a Stop deliberately lands the agent in StatusCompleted.
func (a *Agent) setStatus(s Status) {
	a.status.Store(int32(s))
}
