package fd

import (
	"github.com/Zalathar/gecode/pkg/search"
)

// Var identifies a variable within its space.
type Var int

// Space is a finite-domain constraint space implementing search.Space.
// Domains are immutable values replaced on narrowing, so a clone shares
// nothing mutable with its origin. Propagators are frozen once a search
// starts; posting happens only while modeling.
type Space struct {
	domains []Domain
	props   []propagator
	failed  bool
	pending *choice
}

// NewSpace returns an empty space ready for modeling.
func NewSpace() *Space {
	return &Space{}
}

// NewVar adds a variable with domain {lo..hi} and returns its handle.
func (s *Space) NewVar(lo, hi int) Var {
	s.domains = append(s.domains, NewDomain(lo, hi))
	return Var(len(s.domains) - 1)
}

// Domain returns the current domain of x.
func (s *Space) Domain(x Var) Domain {
	return s.domains[x]
}

// Failed reports whether the space is known inconsistent.
func (s *Space) Failed() bool {
	return s.failed
}

// fail marks the space inconsistent.
func (s *Space) fail() {
	s.failed = true
}

// tell narrows the domain of x to d, failing the space when d is empty.
// Reports whether the domain actually changed.
func (s *Space) tell(x Var, d Domain) bool {
	old := s.domains[x]
	if d.Count() == 0 {
		s.failed = true
		s.domains[x] = d
		return true
	}
	if d.Count() == old.Count() {
		return false
	}
	s.domains[x] = d
	return true
}

// Assignment extracts the values of the given variables; valid on a
// solved space.
func (s *Space) Assignment(vars []Var) []int {
	vals := make([]int, len(vars))
	for i, x := range vars {
		vals[i] = s.domains[x].Value()
	}
	return vals
}

// Status runs propagation to fixpoint and classifies the space. On
// StatusBranch a pending choice over the values of the first-fail
// variable (smallest domain, lowest index) is installed for Choice to
// consume.
func (s *Space) Status(stats *search.Statistics) search.Status {
	s.pending = nil
	if s.failed {
		return search.StatusFailed
	}
	for changed := true; changed; {
		changed = false
		for _, p := range s.props {
			if stats != nil {
				stats.Propagate++
			}
			if p.propagate(s) {
				changed = true
			}
			if s.failed {
				return search.StatusFailed
			}
		}
	}

	branchVar := -1
	for i, d := range s.domains {
		if n := d.Count(); n > 1 {
			if branchVar < 0 || n < s.domains[branchVar].Count() {
				branchVar = i
			}
		}
	}
	if branchVar < 0 {
		return search.StatusSolved
	}
	s.pending = &choice{variable: Var(branchVar), values: s.domains[branchVar].Values()}
	return search.StatusBranch
}

// Choice consumes and returns the pending branching; nil when none is
// pending (in particular after StatusSolved).
func (s *Space) Choice() search.Choice {
	ch := s.pending
	s.pending = nil
	if ch == nil {
		return nil
	}
	return ch
}

// Clone returns a deep copy. Domains are immutable and shared; the
// domain slice itself is copied so narrowing diverges. Propagators are
// immutable after posting and shared.
func (s *Space) Clone() search.Space {
	domains := make([]Domain, len(s.domains))
	copy(domains, s.domains)
	return &Space{
		domains: domains,
		props:   s.props,
		failed:  s.failed,
		pending: s.pending,
	}
}

// Commit narrows the choice's variable to its alt-th candidate value.
func (s *Space) Commit(ch search.Choice, alt int) {
	c := ch.(*choice)
	v := c.values[alt]
	if !s.domains[c.variable].Has(v) {
		s.failed = true
		return
	}
	s.domains[c.variable] = Singleton(v)
}

// Slave is the restart hook; finite-domain spaces restart unchanged.
func (s *Space) Slave(restart uint64) {}

// choice is the branching artifact: try each candidate value of one
// variable in ascending order.
type choice struct {
	variable Var
	values   []int
}

// Alternatives implements search.Choice.
func (c *choice) Alternatives() int {
	return len(c.values)
}
