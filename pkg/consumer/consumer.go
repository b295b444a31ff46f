// Package consumer implements the channel-draining agent pattern:
// consume every message from an asynchronous channel until stopped,
// apply a drain policy to whatever is still queued, and contain handler
// faults by redirecting the channel to a shared null sink.
//
// A consumer is an agent; it starts, stops and waits like one and can be
// composed with agent.Supervise:
//
//	ch := channel.NewUnbounded[int]()
//	c := consumer.New("ints", ch, consumer.HandlerFunc[int](func(v int) error {
//	    fmt.Println("received:", v)
//	    return nil
//	}))
//	c.Start()
//	ch.Send(1)
//	c.StopAndWait()
package consumer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/gocrew/gocrew/pkg/agent"
	"github.com/gocrew/gocrew/pkg/cancel"
	"github.com/gocrew/gocrew/pkg/channel"
	"github.com/gocrew/gocrew/pkg/logger"
)

// MetricsRecorder receives consumer events. Implementations must be safe
// for concurrent use.
type MetricsRecorder interface {
	MessageConsumed(consumer string)
	MessagesDrained(consumer string, n int)
	MessagesAbandoned(consumer string, n int)
	ConsumerIsolated(consumer string, reason string)
}

type nopMetrics struct{}

func (nopMetrics) MessageConsumed(string)          {}
func (nopMetrics) MessagesDrained(string, int)     {}
func (nopMetrics) MessagesAbandoned(string, int)   {}
func (nopMetrics) ConsumerIsolated(string, string) {}

// Consumer runs a Handler against every message of one channel on its
// own agent. A consumer holds that one channel reference for its whole
// lifetime; the only rebinding ever performed is the permanent
// fault-isolation link to the fault sink.
type Consumer[T any] struct {
	agent   *agent.Agent
	ch      channel.Channel[T]
	handler Handler[T]

	drain   DrainPolicy
	sink    channel.Sink[T]
	limiter *rate.Limiter

	log       logger.Logger
	metrics   MetricsRecorder
	agentOpts []agent.Option
}

// Option configures a Consumer.
type Option[T any] func(*Consumer[T])

// WithDrainPolicy selects the drain behavior; the default is DrainRetain.
func WithDrainPolicy[T any](p DrainPolicy) Option[T] {
	return func(c *Consumer[T]) {
		c.drain = p
	}
}

// WithFaultSink sets the sink the channel is linked to on fault,
// replacing the shared per-type null sink.
func WithFaultSink[T any](s channel.Sink[T]) Option[T] {
	return func(c *Consumer[T]) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithRateLimit paces consumption to at most rps messages per second.
// Pacing applies only while racing for new messages, never while
// draining, so it cannot stretch shutdown.
func WithRateLimit[T any](rps float64) Option[T] {
	return func(c *Consumer[T]) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithExecutor sets the executor for the consumer's agent.
func WithExecutor[T any](e agent.Executor) Option[T] {
	return func(c *Consumer[T]) {
		c.agentOpts = append(c.agentOpts, agent.WithExecutor(e))
	}
}

// WithAgentOptions forwards options to the consumer's underlying agent.
func WithAgentOptions[T any](opts ...agent.Option) Option[T] {
	return func(c *Consumer[T]) {
		c.agentOpts = append(c.agentOpts, opts...)
	}
}

// WithLogger sets the consumer's logger.
func WithLogger[T any](l logger.Logger) Option[T] {
	return func(c *Consumer[T]) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics sets the consumer's metrics recorder.
func WithMetrics[T any](m MetricsRecorder) Option[T] {
	return func(c *Consumer[T]) {
		if m != nil {
			c.metrics = m
		}
	}
}

// New creates a consumer for ch in agent.StatusCreated. Nothing runs
// until Start.
func New[T any](name string, ch channel.Channel[T], h Handler[T], opts ...Option[T]) *Consumer[T] {
	c := &Consumer[T]{
		ch:      ch,
		handler: h,
		drain:   DrainRetain,
		sink:    channel.NullSink[T](),
		log:     logger.Global(),
		metrics: nopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("consumer", name)
	c.agent = agent.New(name, c.run, c.agentOpts...)
	return c
}

// Start begins consuming. Exactly one loop execution is scheduled.
func (c *Consumer[T]) Start() { c.agent.Start() }

// Stop requests cancellation of the loop. Non-blocking, idempotent.
func (c *Consumer[T]) Stop() { c.agent.Stop() }

// Wait blocks until the loop has finished and the agent is finalized.
func (c *Consumer[T]) Wait() { c.agent.Wait() }

// StopAndWait stops the loop, then waits for it.
func (c *Consumer[T]) StopAndWait() { c.agent.StopAndWait() }

// Status returns the lifecycle state of the consumer's agent.
func (c *Consumer[T]) Status() agent.Status { return c.agent.Status() }

// Agent returns the underlying agent.
func (c *Consumer[T]) Agent() *agent.Agent { return c.agent }

// run is the consumer's agent body: race the channel against the token,
// then drain, with fault containment in both phases.
func (c *Consumer[T]) run(token cancel.Token) {
	ctx, cancelPacing := c.pacingContext(token)
	defer cancelPacing()

	for {
		if c.limiter != nil {
			// Pace before extracting so a cancel during the wait
			// cannot strand an already-extracted message; a cancelled
			// wait falls through to the race, which reports it.
			_ = c.limiter.Wait(ctx)
		}

		v, err := channel.SelectReceive[T](c.ch, token, 0)
		if err != nil {
			// The only error an unbounded race can return is
			// cancellation: switch to the drain phase.
			break
		}
		if !c.deliver(v) {
			return
		}
	}

	c.drainQueued()
}

// drainQueued applies the drain policy to messages queued at
// cancellation time.
func (c *Consumer[T]) drainQueued() {
	switch c.drain {
	case DrainDrop:
		if n := c.ch.Len(); n > 0 {
			c.metrics.MessagesAbandoned(c.agent.Name(), n)
			c.log.Debug("dropping queued messages", "count", n)
		}
	case DrainRetain:
		drained := 0
		for {
			v, ok := c.ch.TryReceive()
			if !ok {
				break
			}
			if !c.deliver(v) {
				return
			}
			drained++
		}
		if drained > 0 {
			c.metrics.MessagesDrained(c.agent.Name(), drained)
			c.log.Debug("drained queued messages", "count", drained)
		}
	}
}

// deliver hands one message to the handler. It returns false when the
// consumer must end: the channel has already been isolated and queued
// messages must not be touched again.
func (c *Consumer[T]) deliver(v T) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.isolate("panic", fmt.Errorf("handler panicked: %v", r))
			ok = false
		}
	}()

	err := c.handler.Consume(v)
	switch {
	case err == nil:
		c.metrics.MessageConsumed(c.agent.Name())
		return true
	case errors.Is(err, ErrStop):
		c.isolate("stop", err)
		return false
	default:
		c.isolate("fault", err)
		return false
	}
}

// isolate permanently rebinds the consumer's channel to the fault sink.
// Producers keep sending; each send supersedes the last at the sink and
// nothing is ever drained from it, so the abandoned channel cannot grow
// without bound. The redirection is irreversible for the lifetime of
// this consumer.
func (c *Consumer[T]) isolate(reason string, err error) {
	if n := c.ch.Len(); n > 0 {
		c.metrics.MessagesAbandoned(c.agent.Name(), n)
	}
	c.ch.Link(c.sink)
	c.metrics.ConsumerIsolated(c.agent.Name(), reason)

	if reason == "stop" {
		c.log.Info("consumer stopped voluntarily")
		return
	}
	c.log.Error("consumer faulted, channel isolated", "reason", reason, "error", err)
}

// pacingContext derives a context that is cancelled when the token is,
// for use with the rate limiter. Without a limiter no watcher goroutine
// is spawned.
func (c *Consumer[T]) pacingContext(token cancel.Token) (context.Context, context.CancelFunc) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	if c.limiter == nil {
		return ctx, cancelCtx
	}
	go func() {
		select {
		case <-token.Done():
			cancelCtx()
		case <-ctx.Done():
		}
	}()
	return ctx, cancelCtx
}
