package search

// Statistics accumulates search effort counters. Workers keep their own
// instance and the engine sums them on demand; while a search is running
// the sums are best-effort since worker counters advance concurrently.
type Statistics struct {
	// Node is the number of nodes expanded.
	Node uint64
	// Fail is the number of failed nodes encountered.
	Fail uint64
	// Propagate is the number of propagation steps performed by spaces.
	Propagate uint64
	// Depth is the peak depth of any worker's path.
	Depth uint64
	// Memory is the number of path frames currently resident across
	// workers, a proxy for recomputation memory.
	Memory uint64
	// Restart is the number of restarts performed by meta search.
	Restart uint64
}

// Add merges other into s. Counters are summed; Depth takes the maximum.
func (s *Statistics) Add(other Statistics) {
	s.Node += other.Node
	s.Fail += other.Fail
	s.Propagate += other.Propagate
	s.Memory += other.Memory
	s.Restart += other.Restart
	if other.Depth > s.Depth {
		s.Depth = other.Depth
	}
}
