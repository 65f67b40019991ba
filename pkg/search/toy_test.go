package search

// Scripted spaces for engine and path tests: a complete k-ary tree of
// fixed depth whose leaves are solved or failed according to a set, and
// a trace space recording every commit for recomputation checks.

type fakeChoice struct {
	k int
}

func (c fakeChoice) Alternatives() int { return c.k }

// treeSpace is a complete tree of branch^levels leaves. A leaf's id is
// its left-to-right position; ids in solved are solutions, all other
// leaves fail.
type treeSpace struct {
	levels int
	branch int
	solved map[int]bool

	depth int
	id    int
}

func newTreeSpace(levels, branch int, solved ...int) *treeSpace {
	m := make(map[int]bool, len(solved))
	for _, id := range solved {
		m[id] = true
	}
	return &treeSpace{levels: levels, branch: branch, solved: m}
}

func (t *treeSpace) Status(stats *Statistics) Status {
	if stats != nil {
		stats.Propagate++
	}
	if t.depth == t.levels {
		if t.solved[t.id] {
			return StatusSolved
		}
		return StatusFailed
	}
	return StatusBranch
}

func (t *treeSpace) Choice() Choice {
	if t.depth == t.levels {
		return nil
	}
	return fakeChoice{k: t.branch}
}

func (t *treeSpace) Clone() Space {
	cp := *t
	return &cp
}

func (t *treeSpace) Commit(ch Choice, alt int) {
	t.id = t.id*t.branch + alt
	t.depth++
}

func (t *treeSpace) Slave(restart uint64) {}

// leafIDs extracts the leaf ids of the solutions delivered by an engine
// run to completion.
func leafIDs(e Engine) []int {
	var ids []int
	for s := e.Next(); s != nil; s = e.Next() {
		ids = append(ids, s.(*treeSpace).id)
	}
	return ids
}

// failedSpace fails immediately.
type failedSpace struct{}

func (failedSpace) Status(*Statistics) Status { return StatusFailed }
func (failedSpace) Choice() Choice            { return nil }
func (failedSpace) Clone() Space              { return failedSpace{} }
func (failedSpace) Commit(Choice, int)        {}
func (failedSpace) Slave(uint64)              {}

// solvedSpace is solved as it stands.
type solvedSpace struct{}

func (solvedSpace) Status(*Statistics) Status { return StatusSolved }
func (solvedSpace) Choice() Choice            { return nil }
func (solvedSpace) Clone() Space              { return solvedSpace{} }
func (solvedSpace) Commit(Choice, int)        {}
func (solvedSpace) Slave(uint64)              {}

// traceSpace records every commit made on it, for observing exactly how
// a path reconstructs spaces.
type traceSpace struct {
	k     int
	trace []int
}

func (t *traceSpace) Status(*Statistics) Status { return StatusBranch }

func (t *traceSpace) Choice() Choice { return fakeChoice{k: t.k} }

func (t *traceSpace) Clone() Space {
	trace := make([]int, len(t.trace))
	copy(trace, t.trace)
	return &traceSpace{k: t.k, trace: trace}
}

func (t *traceSpace) Commit(ch Choice, alt int) {
	t.trace = append(t.trace, alt)
}

func (t *traceSpace) Slave(uint64) {}
