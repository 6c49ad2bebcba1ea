package contacts

import (
	"context"
	"sync"

	"github.com/addrbook/contact-bridge-service/internal/errors"
)

// ErrAbandoned reports service teardown before the result could be
// delivered; the caller never receives a stale value.
var ErrAbandoned = errors.Unavailable(
	errors.Message("contact: service detached before completion"),
)

type result[T any] struct {
	value T
	err   error
}

// Task is the one-shot handle of an async operation: the result is
// delivered exactly once, on the coordination loop, or never (service
// teardown abandons it).
type Task[T any] struct {
	done <-chan struct{} // service lifetime
	out  chan result[T]
}

func newTask[T any](done <-chan struct{}) *Task[T] {
	return &Task[T]{
		done: done,
		out:  make(chan result[T], 1),
	}
}

func (t *Task[T]) complete(value T, err error) {
	select {
	case t.out <- result[T]{value: value, err: err}:
	default:
		// already completed; drop
	}
}

// Await blocks for the single result. Teardown of the owning service
// yields ErrAbandoned; context cancellation yields the context error.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case res := <-t.out:
		return res.value, res.err
	case <-t.done:
		var zero T
		return zero, ErrAbandoned
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Loop is the coordination context: a single goroutine that is the only
// place results are delivered and external-UI launches occur.
type Loop struct {
	posts chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop() *Loop {
	l := &Loop{
		posts: make(chan func(), 128),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	for {
		select {
		case fn := <-l.posts:
			fn()
		case <-l.done:
			return
		}
	}
}

// Post schedules fn on the loop; after Close it is a no-op.
func (l *Loop) Post(fn func()) {
	select {
	case l.posts <- fn:
	case <-l.done:
	}
}

// Done closes when the loop stops; pending Task.Await calls unblock
// with ErrAbandoned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) Close() {
	l.once.Do(func() {
		close(l.done)
	})
}
