package agent

import (
	"sync"
	"sync/atomic"
)

// Executor schedules agent bodies for asynchronous execution. The
// caller's goroutine and the scheduled body run concurrently.
type Executor interface {
	// Schedule hands one unit of work to the executor. It may block
	// until the executor can accept it, but never runs the work inline.
	Schedule(fn func())
}

// GoExecutor runs each scheduled body on its own goroutine. It is the
// default executor and needs no lifecycle management.
type GoExecutor struct{}

// Schedule implements Executor.
func (GoExecutor) Schedule(fn func()) {
	go fn()
}

// PoolExecutor runs bodies on a fixed pool of goroutines. Agent bodies
// occupy a worker for their whole lifetime, so the pool must be sized
// for the number of concurrently running agents; an undersized pool
// delays later Starts until earlier bodies return.
type PoolExecutor struct {
	workers int
	jobCh   chan func()

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	scheduled atomic.Int64
}

// NewPoolExecutor creates a PoolExecutor with the given number of
// workers. Values below one are raised to one.
func NewPoolExecutor(workers int) *PoolExecutor {
	if workers < 1 {
		workers = 1
	}
	return &PoolExecutor{
		workers: workers,
		jobCh:   make(chan func()),
		stopCh:  make(chan struct{}),
	}
}

// Start launches the worker goroutines.
func (p *PoolExecutor) Start() {
	if p.running.Load() {
		return
	}
	p.running.Store(true)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop shuts the pool down and waits for all workers to finish their
// current work. Work still queued when Stop is called is executed before
// the workers exit.
func (p *PoolExecutor) Stop() {
	p.stopOnce.Do(func() {
		p.running.Store(false)
		close(p.stopCh)
		p.wg.Wait()
	})
}

// Schedule implements Executor. It blocks until a worker accepts the
// work; on a stopped pool it returns without scheduling.
func (p *PoolExecutor) Schedule(fn func()) {
	if !p.running.Load() {
		return
	}

	select {
	case p.jobCh <- fn:
		p.scheduled.Add(1)
	case <-p.stopCh:
	}
}

// Scheduled returns the total number of accepted units of work.
func (p *PoolExecutor) Scheduled() int64 {
	return p.scheduled.Load()
}

// IsRunning reports whether the pool is accepting work.
func (p *PoolExecutor) IsRunning() bool {
	return p.running.Load()
}

func (p *PoolExecutor) worker() {
	defer p.wg.Done()

	for {
		select {
		case fn := <-p.jobCh:
			fn()
		case <-p.stopCh:
			// Run anything already handed over before exiting.
			for {
				select {
				case fn := <-p.jobCh:
					fn()
				default:
					return
				}
			}
		}
	}
}
