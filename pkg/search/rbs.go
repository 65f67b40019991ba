package search

import (
	"sync/atomic"
)

// restartStop augments the user's stop policy with a per-restart failure
// budget. The budget fires a stop like any other, but the meta engine
// distinguishes it from a user stop and restarts instead of ending the
// search.
type restartStop struct {
	user      Stop
	limit     atomic.Uint64
	userFired atomic.Bool
}

// Stop implements the Stop interface.
func (r *restartStop) Stop(s Statistics, depth int) bool {
	if r.user != nil && r.user.Stop(s, depth) {
		r.userFired.Store(true)
		return true
	}
	return s.Fail >= r.limit.Load()
}

// rbsEngine is restart-based meta search: it repeatedly runs a DFS
// engine on a slave clone of the master space, granting each run a
// failure budget drawn from the cutoff sequence. Spaces that reshape
// themselves in Slave (randomized branching, nogood recording) make the
// successive runs explore differently.
type rbsEngine struct {
	opt    Options
	master Space
	cutoff Cutoff
	stop   *restartStop

	inner    Engine
	stats    Statistics
	restarts uint64

	done    bool
	stopped bool
	closed  bool
}

// NewRBS builds a restart-based engine around root. opt.Cutoff supplies
// the restart budgets and is required; opt.Stop keeps its usual meaning
// and ends the meta search when it fires. The engine takes ownership of
// root, which becomes the master space.
func NewRBS(root Space, opt *Options) (Engine, error) {
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
	if o.Cutoff == nil {
		return nil, ErrNoCutoff
	}

	e := &rbsEngine{
		opt:    o,
		cutoff: o.Cutoff,
		stop:   &restartStop{user: o.Stop},
	}

	var ps Statistics
	if root.Status(&ps) == StatusFailed {
		e.stats.Fail = 1
		e.stats.Propagate = ps.Propagate
		e.done = true
		return e, nil
	}
	e.stats.Propagate = ps.Propagate
	e.master = root
	if err := e.launch(); err != nil {
		return nil, err
	}
	return e, nil
}

// launch starts a DFS run on a fresh slave clone of the master with the
// next failure budget.
func (e *rbsEngine) launch() error {
	slave := e.master.Clone()
	slave.Slave(e.restarts)
	e.stop.limit.Store(e.cutoff.Next())

	inner := e.opt
	inner.Stop = e.stop
	inner.Cutoff = nil
	eng, err := NewDFS(slave, &inner)
	if err != nil {
		return err
	}
	e.inner = eng
	return nil
}

// harvest folds the finished inner engine's statistics into the running
// totals and releases it. Reports whether the run was cut short by a
// stop (budget or user).
func (e *rbsEngine) harvest() bool {
	stoppedRun := e.inner.Stopped()
	e.stats.Add(e.inner.Statistics())
	e.inner.Close()
	e.inner = nil
	return stoppedRun
}

// Next returns the next solution of the current run, restarting on an
// exhausted budget, or nil when the master is failed, the tree is
// exhausted, or the user stop fired.
func (e *rbsEngine) Next() Space {
	for !e.done && !e.closed {
		if s := e.inner.Next(); s != nil {
			return s
		}
		stoppedRun := e.harvest()
		if e.stop.userFired.Load() {
			e.stopped = true
			e.done = true
			break
		}
		if !stoppedRun {
			// The run completed the whole tree: the search is over.
			e.done = true
			break
		}
		// Budget exhausted: restart with the next cutoff.
		e.restarts++
		e.stats.Restart++
		if err := e.launch(); err != nil {
			e.done = true
			break
		}
	}
	return nil
}

// Statistics returns the totals accumulated across restarts, including
// the run in flight.
func (e *rbsEngine) Statistics() Statistics {
	s := e.stats
	if e.inner != nil {
		s.Add(e.inner.Statistics())
	}
	return s
}

// Stopped reports whether the user's stop policy ended the meta search.
// Budget stops are internal and not reported.
func (e *rbsEngine) Stopped() bool {
	if e.stopped {
		return true
	}
	return e.stop.userFired.Load()
}

// Close releases the engine and any run in flight.
func (e *rbsEngine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.done = true
	if e.inner != nil {
		e.stats.Add(e.inner.Statistics())
		e.inner.Close()
		e.inner = nil
	}
	e.master = nil
}
