package search

import "time"

// Stop decides whether a search should be terminated early. The engine
// consults the policy at every node with the statistics of the asking
// worker and the current depth of its path. Implementations must be cheap
// and safe for concurrent use: every worker calls them.
type Stop interface {
	Stop(s Statistics, depth int) bool
}

// NodeStop fires once the number of expanded nodes reaches a limit.
type NodeStop struct {
	Limit uint64
}

// Stop implements the Stop interface.
func (n NodeStop) Stop(s Statistics, depth int) bool {
	return s.Node >= n.Limit
}

// FailStop fires once the number of failed nodes reaches a limit.
type FailStop struct {
	Limit uint64
}

// Stop implements the Stop interface.
func (f FailStop) Stop(s Statistics, depth int) bool {
	return s.Fail >= f.Limit
}

// TimeStop fires once a wall-clock budget has elapsed, measured from
// construction.
type TimeStop struct {
	deadline time.Time
}

// NewTimeStop returns a stop policy firing d after now.
func NewTimeStop(d time.Duration) *TimeStop {
	return &TimeStop{deadline: time.Now().Add(d)}
}

// Stop implements the Stop interface.
func (t *TimeStop) Stop(s Statistics, depth int) bool {
	return !time.Now().Before(t.deadline)
}

// Or combines stop policies; it fires as soon as any member fires.
// Nil members are permitted and never fire.
type Or []Stop

// Stop implements the Stop interface.
func (o Or) Stop(s Statistics, depth int) bool {
	for _, p := range o {
		if p != nil && p.Stop(s, depth) {
			return true
		}
	}
	return false
}
