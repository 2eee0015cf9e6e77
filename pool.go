package gofft

import (
	"fmt"
	"sync"

	"github.com/cwbudde/gofft/internal/mathutil"
)

// Pool is a fixed-size worker pool used to fan FFT decomposition passes out
// across goroutines. It implements the submit/wait contract from spec
// §4.A: Submit hands the pool a closure and gets back a Handle; Handle.Wait
// blocks until that closure has run. There is no work stealing and no
// fairness guarantee beyond first-come-first-served among queued items,
// which is sufficient because a transform's passes are strictly
// bulk-synchronous (a barrier separates each pass).
//
// A Pool is safe to use from any goroutine. It is constructed once and
// lives for the life of the process (or for as long as the caller needs
// it); there is no Close/Shutdown in the buffer-API contract.
type Pool struct {
	tasks chan func()
	size  int
}

// Handle is returned by Pool.Submit. Wait blocks until the submitted
// closure has returned (or panicked) and reports the outcome.
type Handle struct {
	done chan struct{}
	err  error
}

// NewPool creates a worker pool with the largest power-of-two number of
// goroutines not exceeding n. n < 1 is treated as 1.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}

	size := n
	if !mathutil.IsPowerOfTwo(size) {
		size = mathutil.PrevPowerOfTwo(size)
	}

	p := &Pool{
		tasks: make(chan func()),
		size:  size,
	}

	for i := 0; i < size; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for job := range p.tasks {
		job()
	}
}

// Size returns the pool's fixed worker count.
func (p *Pool) Size() int {
	return p.size
}

// Submit enqueues f for execution by a worker and returns a Handle that
// blocks the caller until f has finished. A panic inside f is recovered;
// it does not poison the pool, and the worker goes on to serve the next
// queued item. The failure is reported through Handle.Wait as
// ErrWorkerFailure instead of crashing the caller.
func (p *Pool) Submit(f func()) *Handle {
	h := &Handle{done: make(chan struct{})}

	p.tasks <- func() {
		defer func() {
			if r := recover(); r != nil {
				h.err = fmt.Errorf("%w: %v", ErrWorkerFailure, r)
			}

			close(h.done)
		}()

		f()
	}

	return h
}

// Wait blocks until the submitted closure has completed and returns its
// failure, if any.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

var (
	sharedPoolOnce sync.Once
	sharedPoolInst *Pool
)

// sharedPool returns the process-wide worker pool, creating it on first use
// sized to cfg's worker count. Mirroring ConcurrencyUtils's single static
// thread pool, every plan dispatches through the same pool regardless of
// which Config it was built with; resizing a Config's NumWorkers after the
// pool exists does not resize the pool (a fixed-cardinality pool cannot be
// resized in place — a caller that needs a different worker count can
// still build its own Pool and talk to it directly through RunAll).
func sharedPool(cfg *Config) *Pool {
	sharedPoolOnce.Do(func() {
		sharedPoolInst = NewPool(cfg.NumWorkers())
	})

	return sharedPoolInst
}

// RunAll submits every closure in fs to the pool and waits for all of them
// to complete, returning the first error encountered (if any). This is the
// fork/join idiom the 1-D and 2-D drivers use for a single parallel pass:
// all workers join here before the next pass begins.
func RunAll(p *Pool, fs []func()) error {
	handles := make([]*Handle, len(fs))
	for i, f := range fs {
		handles[i] = p.Submit(f)
	}

	var (
		once     sync.Once
		firstErr error
	)

	for _, h := range handles {
		if err := h.Wait(); err != nil {
			once.Do(func() { firstErr = err })
		}
	}

	return firstErr
}
