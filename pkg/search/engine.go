package search

import (
	"sync"
	"sync/atomic"

	"github.com/Zalathar/gecode/internal/support"
)

// Commands published by the engine to its workers. Transitions are
// totally ordered: WAIT and WORK alternate under the caller's control
// until TERMINATE ends the pool.
const (
	cmdWork int32 = iota
	cmdWait
	cmdTerminate
)

// dfsEngine coordinates a pool of dfsWorkers over one search tree and
// implements the blocking Next API. The engine holds mWait exactly while
// cmd is WAIT; workers observing WAIT run into the mutex and park until
// the caller releases it with the next command.
type dfsEngine struct {
	opt     Options
	workers []*dfsWorker

	cmd   atomic.Int32
	mWait sync.Mutex

	mTerminate     sync.Mutex
	nNotTerminated int
	eTerminate     *support.Event

	mSearch    sync.Mutex
	eSearch    *support.Event
	solutions  []Space
	nBusy      int
	hasStopped bool

	closed bool
	final  Statistics
}

// NewDFS builds a parallel depth-first engine exploring root with
// opt.Threads workers. The engine takes ownership of root. A nil opt
// selects DefaultOptions.
func NewDFS(root Space, opt *Options) (Engine, error) {
	if root == nil {
		return nil, ErrNoRoot
	}
	var o Options
	if opt == nil {
		o = *DefaultOptions()
	} else {
		o = *opt
	}
	if err := o.expand(); err != nil {
		return nil, err
	}

	e := &dfsEngine{
		opt:        o,
		eTerminate: support.NewEvent(),
		eSearch:    support.NewEvent(),
	}
	e.workers = make([]*dfsWorker, o.Threads)
	// The first worker gets the entire search tree.
	e.workers[0] = newDFSWorker(root, e, 0)
	for i := 1; i < o.Threads; i++ {
		e.workers[i] = newDFSWorker(nil, e, i)
	}

	e.nNotTerminated = o.Threads
	e.nBusy = o.Threads

	// Park all workers, then start them.
	e.block()
	for _, w := range e.workers {
		go w.run()
	}
	return e, nil
}

// block publishes WAIT and takes the wait gate, parking workers at their
// WAIT handler.
func (e *dfsEngine) block() {
	e.cmd.Store(cmdWait)
	e.mWait.Lock()
}

// release publishes c and opens the wait gate.
func (e *dfsEngine) release(c int32) {
	e.cmd.Store(c)
	e.mWait.Unlock()
}

// wait parks the calling worker while the engine holds the wait gate.
func (e *dfsEngine) wait() {
	e.mWait.Lock()
	//lint:ignore SA2001 the gate is a barrier, not a critical section
	e.mWait.Unlock()
}

// terminated registers one worker's exit; the last one wakes Close.
func (e *dfsEngine) terminated() {
	e.mTerminate.Lock()
	e.nNotTerminated--
	if e.nNotTerminated == 0 {
		e.eTerminate.Signal()
	}
	e.mTerminate.Unlock()
}

// signal reports, under mSearch, whether the current state is one the
// caller could be blocked on: no queued solution, workers still busy,
// no stop raised. Workers signal eSearch only when this held before
// their update, i.e. when the update turns a quiet state into a notable
// one.
func (e *dfsEngine) signal() bool {
	return len(e.solutions) == 0 && e.nBusy > 0 && !e.hasStopped
}

// solution enqueues a found solution.
func (e *dfsEngine) solution(s Space) {
	e.mSearch.Lock()
	bs := e.signal()
	e.solutions = append(e.solutions, s)
	if bs {
		e.eSearch.Signal()
	}
	e.mSearch.Unlock()
}

// idle registers a worker running out of work; the last busy worker
// going idle means the tree is exhausted.
func (e *dfsEngine) idle() {
	e.mSearch.Lock()
	bs := e.signal()
	e.nBusy--
	if bs && e.nBusy == 0 {
		e.eSearch.Signal()
	}
	e.mSearch.Unlock()
}

// busy registers a worker resuming work after a successful steal.
func (e *dfsEngine) busy() {
	e.mSearch.Lock()
	e.nBusy++
	e.mSearch.Unlock()
}

// stop records that a worker's stop policy fired. Sticky: duplicates
// from other workers are absorbed.
func (e *dfsEngine) stop() {
	e.mSearch.Lock()
	bs := e.signal()
	e.hasStopped = true
	if bs {
		e.eSearch.Signal()
	}
	e.mSearch.Unlock()
}

// Next returns the next solution, or nil once the tree is exhausted or
// the search stopped. Workers run only while a Next call is in flight:
// on return the pool is parked again, with any surplus solutions queued
// for subsequent calls.
func (e *dfsEngine) Next() Space {
	if e.closed {
		return nil
	}
	e.mSearch.Lock()
	if n := len(e.solutions); n > 0 {
		s := e.solutions[0]
		e.solutions = e.solutions[1:]
		e.mSearch.Unlock()
		return s
	}
	if e.nBusy == 0 || e.hasStopped {
		e.mSearch.Unlock()
		return nil
	}
	e.mSearch.Unlock()

	e.release(cmdWork)

	// The event may carry a stale wake from a previous round whose
	// solution has already been drained, so re-check until something
	// notable holds.
	for {
		e.eSearch.Wait()
		e.mSearch.Lock()
		if n := len(e.solutions); n > 0 {
			s := e.solutions[0]
			e.solutions = e.solutions[1:]
			e.mSearch.Unlock()
			e.block()
			return s
		}
		if e.nBusy == 0 || e.hasStopped {
			e.mSearch.Unlock()
			e.block()
			return nil
		}
		e.mSearch.Unlock()
	}
}

// Statistics sums the worker counters. Best-effort while workers run;
// exact between Next calls.
func (e *dfsEngine) Statistics() Statistics {
	if e.closed {
		return e.final
	}
	var s Statistics
	for _, w := range e.workers {
		s.Add(w.statistics())
	}
	return s
}

// Stopped reports whether any worker's stop policy fired.
func (e *dfsEngine) Stopped() bool {
	e.mSearch.Lock()
	defer e.mSearch.Unlock()
	return e.hasStopped
}

// Close publishes TERMINATE, waits for every worker goroutine to exit,
// and drops the pool. Must not be called concurrently with Next;
// idempotent.
func (e *dfsEngine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.release(cmdTerminate)
	e.eTerminate.Wait()
	// All goroutines have exited; the counters are final.
	for _, w := range e.workers {
		e.final.Add(w.statistics())
	}
	e.workers = nil
}
