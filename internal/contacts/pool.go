package contacts

import (
	"sync"
	"time"

	"github.com/addrbook/contact-bridge-service/internal/errors"
)

const (
	// poolWorkersMax caps concurrently running workers; workers spawn
	// on demand starting from zero.
	poolWorkersMax = 10
	// poolQueueSize bounds the pending-task backlog.
	poolQueueSize = 1000
	// poolIdleTimeout retires a worker that saw no work for this long.
	poolIdleTimeout = 60 * time.Second
)

var (
	ErrPoolClosed = errors.Unavailable(
		errors.Message("contact: worker pool closed"),
	)
	ErrPoolSaturated = errors.Unavailable(
		errors.Message("contact: worker pool queue full"),
	)
)

// Pool runs storage-bound work off the caller's context. Workers are
// spawned on demand up to a fixed cap and exit after an idle period, so
// an idle service holds no worker goroutines.
type Pool struct {
	tasks chan func()
	sem   chan struct{}
	idle  time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewPool(workers, queue int, idle time.Duration) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		tasks: make(chan func(), queue),
		sem:   make(chan struct{}, workers),
		idle:  idle,
	}
}

// Submit queues run for execution. It never blocks: a closed pool or a
// full queue is reported as an error instead.
func (p *Pool) Submit(run func()) error {

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	select {
	case p.tasks <- run:
	default:
		p.mu.Unlock()
		return ErrPoolSaturated
	}
	p.mu.Unlock()

	p.spawn()
	return nil
}

func (p *Pool) spawn() {
	select {
	case p.sem <- struct{}{}:
	default:
		return // at capacity
	}
	p.wg.Add(1)
	go p.worker()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	defer func() { <-p.sem }()

	timer := time.NewTimer(p.idle)
	defer timer.Stop()

	for {
		select {
		case run, ok := <-p.tasks:
			if !ok {
				return
			}
			run()
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(p.idle)
		case <-timer.C:
			return
		}
	}
}

// Close stops intake and drains already-queued work, then waits for
// running workers to finish.
func (p *Pool) Close() {

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	// all workers may have idled out with tasks still queued
	p.spawn()
	p.wg.Wait()
}
