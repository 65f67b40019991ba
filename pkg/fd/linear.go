package fd

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// RelType is the relation of a linear constraint sum(a_i*x_i) rel c.
type RelType int

const (
	// Eq is =.
	Eq RelType = iota
	// Nq is ≠.
	Nq
	// Lq is ≤.
	Lq
	// Le is <.
	Le
	// Gq is ≥.
	Gq
	// Gr is >.
	Gr
)

// Term is one summand of a linear constraint.
type Term struct {
	A int
	X Var
}

// ErrOverflow is returned when a linear constraint's bounds cannot be
// represented without overflow.
var ErrOverflow = errors.New("fd: linear constraint overflows")

// PostLinear posts sum(terms) rel c. Strict and ≥ relations are
// rewritten to their canonical ≤ form, duplicate variables are merged,
// zero coefficients dropped, and degenerate constraints (no or one
// variable left) are resolved directly on the domains; only genuinely
// n-ary constraints become propagators.
func (s *Space) PostLinear(terms []Term, rel RelType, c int) error {
	// Canonicalize the relation to Eq, Nq or Lq.
	switch rel {
	case Le:
		rel, c = Lq, c-1
	case Gq:
		rel, c = Lq, -c
		terms = negate(terms)
	case Gr:
		rel, c = Lq, -c-1
		terms = negate(terms)
	}

	as, xs := normalize(terms)

	if err := checkPrecision(s, as, xs, c); err != nil {
		return err
	}

	switch len(as) {
	case 0:
		sat := false
		switch rel {
		case Eq:
			sat = c == 0
		case Nq:
			sat = c != 0
		case Lq:
			sat = c >= 0
		}
		if !sat {
			s.fail()
		}
		return nil
	case 1:
		return s.postUnary(as[0], xs[0], rel, int64(c))
	}

	switch rel {
	case Eq:
		s.props = append(s.props, &linearEq{as: as, xs: xs, c: int64(c)})
	case Nq:
		s.props = append(s.props, &linearNq{as: as, xs: xs, c: int64(c)})
	case Lq:
		s.props = append(s.props, &linearLq{as: as, xs: xs, c: int64(c)})
	}
	return nil
}

// postUnary resolves a*x rel c directly on x's domain.
func (s *Space) postUnary(a int, x Var, rel RelType, c int64) error {
	d := s.domains[x]
	switch rel {
	case Eq:
		if c%int64(a) != 0 {
			s.fail()
			return nil
		}
		v := int(c / int64(a))
		if !d.Has(v) {
			s.fail()
			return nil
		}
		s.domains[x] = Singleton(v)
	case Nq:
		if c%int64(a) == 0 {
			s.tell(x, d.Remove(int(c/int64(a))))
		}
	case Lq:
		if a > 0 {
			s.tell(x, d.RemoveAbove(int(floorDiv(c, int64(a)))))
		} else {
			s.tell(x, d.RemoveBelow(int(ceilDiv(c, int64(a)))))
		}
	}
	return nil
}

// negate flips the sign of every coefficient.
func negate(terms []Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Term{A: -t.A, X: t.X}
	}
	return out
}

// normalize merges duplicate variables, drops zero coefficients, and
// orders terms by variable.
func normalize(terms []Term) (as []int, xs []Var) {
	sorted := make([]Term, len(terms))
	copy(sorted, terms)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	for _, t := range sorted {
		if n := len(xs); n > 0 && xs[n-1] == t.X {
			as[n-1] += t.A
			continue
		}
		as = append(as, t.A)
		xs = append(xs, t.X)
	}
	// Drop merged-away terms.
	oa, ox := as, xs
	as, xs = as[:0], xs[:0]
	for i, a := range oa {
		if a != 0 {
			as = append(as, a)
			xs = append(xs, ox[i])
		}
	}
	return as, xs
}

// checkPrecision rejects constraints whose bound sums, plus |c|, exceed
// math.MaxInt32 in magnitude.
func checkPrecision(s *Space, as []int, xs []Var, c int) error {
	var mag int64
	for i, a := range as {
		d := s.domains[xs[i]]
		am := int64(a)
		if am < 0 {
			am = -am
		}
		vm := int64(d.Min())
		if vm < 0 {
			vm = -vm
		}
		if h := int64(d.Max()); h > vm {
			vm = h
		} else if h < 0 && -h > vm {
			vm = -h
		}
		mag += am * vm
		if mag > math.MaxInt32 {
			return fmt.Errorf("%w: sum magnitude exceeds %d", ErrOverflow, math.MaxInt32)
		}
	}
	cm := int64(c)
	if cm < 0 {
		cm = -cm
	}
	if mag+cm > math.MaxInt32 {
		return fmt.Errorf("%w: sum magnitude exceeds %d", ErrOverflow, math.MaxInt32)
	}
	return nil
}
