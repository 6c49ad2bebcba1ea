package contacts

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsSubmittedWork(t *testing.T) {

	pool := NewPool(4, 100, time.Second)
	defer pool.Close()

	var (
		n  atomic.Int32
		wg sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			n.Add(1)
		}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	wg.Wait()

	if got := n.Load(); got != 50 {
		t.Errorf("ran %d tasks, want 50", got)
	}
}

func TestPoolCloseDrainsQueued(t *testing.T) {

	pool := NewPool(1, 100, time.Second)

	var n atomic.Int32
	block := make(chan struct{})

	// occupy the only worker, then queue behind it
	_ = pool.Submit(func() { <-block })
	for i := 0; i < 10; i++ {
		if err := pool.Submit(func() { n.Add(1) }); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	close(block)

	pool.Close()

	if got := n.Load(); got != 10 {
		t.Errorf("drained %d queued tasks, want 10", got)
	}
	if err := pool.Submit(func() {}); err != ErrPoolClosed {
		t.Errorf("Submit() after close = %v, want ErrPoolClosed", err)
	}
}

func TestPoolSaturated(t *testing.T) {

	pool := NewPool(1, 1, time.Second)

	block := make(chan struct{})
	defer close(block)

	_ = pool.Submit(func() { <-block })

	// wait for the single worker to pick the blocker up, then fill
	// the one-slot queue
	deadline := time.Now().Add(time.Second)
	for {
		if err := pool.Submit(func() {}); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("worker never picked up the blocking task")
		}
		time.Sleep(time.Millisecond)
	}

	if err := pool.Submit(func() {}); err != ErrPoolSaturated {
		t.Errorf("Submit() = %v, want ErrPoolSaturated", err)
	}
}

func TestLoopDelivers(t *testing.T) {

	loop := NewLoop()
	defer loop.Close()

	done := make(chan struct{})
	loop.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted fn never ran")
	}
}

func TestTaskAbandoned(t *testing.T) {

	loop := NewLoop()
	task := newTask[int](loop.Done())
	loop.Close()

	ctx, cancel := contextWithTimeout(t)
	defer cancel()

	if _, err := task.Await(ctx); err != ErrAbandoned {
		t.Errorf("Await() error = %v, want ErrAbandoned", err)
	}
}
