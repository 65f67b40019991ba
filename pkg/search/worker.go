package search

import (
	"sync"
	"sync/atomic"
	"time"
)

// stealBackoff is how long an idle worker sleeps after an unsuccessful
// sweep over its peers before probing again.
const stealBackoff = 10 * time.Millisecond

// dfsWorker explores one path of the shared search tree. The mutex m
// guards path, cur and d; idle is atomic so peers can peek without
// locking. m is never held across a Status call, only around path
// operations and field transitions, keeping steal latency low.
type dfsWorker struct {
	eng *dfsEngine
	id  int

	m    sync.Mutex
	path path
	cur  Space
	d    int
	idle atomic.Bool

	node      atomic.Uint64
	fail      atomic.Uint64
	propagate atomic.Uint64
	depth     atomic.Uint64
}

// newDFSWorker builds a worker. The first worker receives the root space
// (taking ownership); all others start without work. A failed root is
// counted and dropped so the engine reports exhaustion immediately.
func newDFSWorker(s Space, e *dfsEngine, id int) *dfsWorker {
	w := &dfsWorker{eng: e, id: id}
	if s != nil {
		var ps Statistics
		if s.Status(&ps) == StatusFailed {
			w.fail.Add(1)
		} else {
			w.cur = s
		}
		w.propagate.Add(ps.Propagate)
	}
	return w
}

// run is the worker's goroutine body: observe the engine command and act
// until told to terminate.
func (w *dfsWorker) run() {
	for {
		switch w.eng.cmd.Load() {
		case cmdWait:
			w.eng.wait()
		case cmdTerminate:
			w.terminate()
			return
		case cmdWork:
			w.step()
		}
	}
}

// step performs one unit of work under the WORK command.
func (w *dfsWorker) step() {
	w.m.Lock()
	if w.idle.Load() {
		w.m.Unlock()
		w.find()
		return
	}
	if w.cur != nil {
		if s := w.eng.opt.Stop; s != nil && s.Stop(w.statistics(), w.path.size()) {
			w.m.Unlock()
			w.eng.stop()
			return
		}
		cur := w.cur
		w.m.Unlock()
		w.node.Add(1)
		w.explore(cur)
		return
	}
	// No current space: backtrack, or report idle when the path is done.
	if !w.path.next() {
		w.idle.Store(true)
		w.m.Unlock()
		w.eng.idle()
		return
	}
	w.cur = w.path.recompute(&w.d, w.eng.opt.AdaptDistance)
	w.m.Unlock()
}

// explore propagates cur and acts on the outcome. Runs without holding m;
// only the consequent path and field updates retake it.
func (w *dfsWorker) explore(cur Space) {
	var ps Statistics
	status := cur.Status(&ps)
	w.propagate.Add(ps.Propagate)

	switch status {
	case StatusFailed:
		w.fail.Add(1)
		w.m.Lock()
		w.cur = nil
		w.m.Unlock()

	case StatusSolved:
		// Discard any stale branching before handing the clone over.
		cur.Choice()
		s := cur.Clone()
		w.m.Lock()
		w.cur = nil
		w.m.Unlock()
		w.eng.solution(s)

	case StatusBranch:
		w.m.Lock()
		var snapshot Space
		if w.d == 0 || w.d >= w.eng.opt.CommitDistance {
			snapshot = cur.Clone()
			w.d = 1
		} else {
			w.d++
		}
		ch := w.path.push(cur, snapshot)
		cur.Commit(ch, 0)
		if dep := uint64(w.path.size()); dep > w.depth.Load() {
			w.depth.Store(dep)
		}
		w.m.Unlock()
	}
}

// steal is invoked by peer workers looking for work. The idle peek is
// deliberately lock-free: a worker that just went idle has nothing to
// give, and a stale answer only delays the thief one sweep.
func (w *dfsWorker) steal() Space {
	if w.idle.Load() {
		return nil
	}
	w.m.Lock()
	s := w.path.steal()
	w.m.Unlock()
	if s != nil {
		// One more busy worker, on behalf of the thief.
		w.eng.busy()
	}
	return s
}

// find sweeps the peer workers in index order for stealable work. On
// success the stolen space becomes the new current space and the clone
// distance resets so the first push snapshots. On a fruitless sweep the
// worker backs off briefly; the run loop re-enters find while WORK holds.
func (w *dfsWorker) find() {
	for _, peer := range w.eng.workers {
		if peer == w {
			continue
		}
		if s := peer.steal(); s != nil {
			w.m.Lock()
			w.idle.Store(false)
			w.cur = s
			w.d = 0
			w.m.Unlock()
			return
		}
	}
	time.Sleep(stealBackoff)
}

// terminate releases the worker's spaces and registers termination.
func (w *dfsWorker) terminate() {
	w.m.Lock()
	w.cur = nil
	w.path.clear()
	w.m.Unlock()
	w.eng.terminated()
}

// statistics snapshots this worker's counters. Callers other than the
// worker itself see a best-effort view. Path frame residency is reported
// as memory.
func (w *dfsWorker) statistics() Statistics {
	return Statistics{
		Node:      w.node.Load(),
		Fail:      w.fail.Load(),
		Propagate: w.propagate.Load(),
		Depth:     w.depth.Load(),
		Memory:    uint64(w.path.nframes.Load()),
	}
}
