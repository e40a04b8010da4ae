// Package executor provides the two execution contexts the search pipeline
// runs on: a bounded worker pool for slow IO and a single-goroutine loop that
// owns mutable state.
package executor

import (
	"errors"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrClosed is returned when work is submitted after Close
	ErrClosed = errors.New("executor closed")
	// ErrQueueFull is returned when the pool backlog is exhausted
	ErrQueueFull = errors.New("executor queue full")
)

// Executor runs tasks asynchronously
type Executor interface {
	Submit(task func()) error
}

// Pool runs submitted tasks on a fixed set of worker goroutines
type Pool struct {
	tasks     chan func()
	quit      chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	logger    zerolog.Logger
}

// NewPool starts workers goroutines sharing a backlog of queueSize tasks
func NewPool(workers, queueSize int, logger zerolog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	p := &Pool{
		tasks:  make(chan func(), queueSize),
		quit:   make(chan struct{}),
		logger: logger.With().Str("component", "pool").Logger(),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues task without blocking
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting work and waits for running tasks to return.
// Queued tasks no worker has started are dropped; a worker idle on an empty
// queue may still pick up a task submitted just before Close.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.quit)
	})
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		// close wins over queued work
		select {
		case <-p.quit:
			return
		default:
		}

		select {
		case task := <-p.tasks:
			run(task, p.logger)
		case <-p.quit:
			return
		}
	}
}

// Loop serialises every posted function onto one goroutine.
// Anything only touched from inside posted functions needs no locking.
type Loop struct {
	funcs     chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	logger    zerolog.Logger
}

// NewLoop starts the loop goroutine
func NewLoop(backlog int, logger zerolog.Logger) *Loop {
	if backlog < 1 {
		backlog = 1
	}
	l := &Loop{
		funcs:  make(chan func(), backlog),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "loop").Logger(),
	}
	go l.run()
	return l
}

// Submit posts fn to the loop, blocking while the backlog is full.
// It must not be called from inside the loop.
func (l *Loop) Submit(fn func()) error {
	select {
	case <-l.quit:
		return ErrClosed
	default:
	}
	select {
	case l.funcs <- fn:
		return nil
	case <-l.quit:
		return ErrClosed
	}
}

// Call runs fn on the loop and waits for it to finish
func (l *Loop) Call(fn func()) error {
	finished := make(chan struct{})
	if err := l.Submit(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		// the loop may have run fn just before stopping
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	}
}

// Close stops the loop once the function currently running returns
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.quit)
	})
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.funcs:
			run(fn, l.logger)
		case <-l.quit:
			return
		}
	}
}

func run(task func(), logger zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("task panic")
		}
	}()
	task()
}
