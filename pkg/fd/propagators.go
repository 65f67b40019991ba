package fd

// propagator narrows domains toward a fixpoint. Propagate reports
// whether it changed any domain; inconsistency is recorded on the space.
// Propagators are immutable after posting and shared across clones.
type propagator interface {
	propagate(s *Space) bool
}

// allDifferent eliminates assigned values from the other variables of
// the group (value consistency).
type allDifferent struct {
	vars []Var
}

// PostAllDifferent constrains the variables to take pairwise distinct
// values.
func (s *Space) PostAllDifferent(vars []Var) {
	if len(vars) > 1 {
		s.props = append(s.props, &allDifferent{vars: vars})
	}
}

func (p *allDifferent) propagate(s *Space) bool {
	changed := false
	for i, x := range p.vars {
		d := s.domains[x]
		if !d.IsSingleton() {
			continue
		}
		v := d.Value()
		for j, y := range p.vars {
			if j == i {
				continue
			}
			dy := s.domains[y]
			if dy.IsSingleton() && dy.Value() == v {
				s.fail()
				return true
			}
			if s.tell(y, dy.Remove(v)) {
				changed = true
				if s.failed {
					return true
				}
			}
		}
	}
	return changed
}

// linearEq enforces sum(a_i * x_i) = c with bounds consistency.
type linearEq struct {
	as []int
	xs []Var
	c  int64
}

// linearLq enforces sum(a_i * x_i) <= c with bounds consistency.
type linearLq struct {
	as []int
	xs []Var
	c  int64
}

// linearNq enforces sum(a_i * x_i) != c; it only acts once at most one
// variable remains unassigned.
type linearNq struct {
	as []int
	xs []Var
	c  int64
}

// termBounds returns the smallest and largest value a*x can take.
func termBounds(a int, d Domain) (lo, hi int64) {
	if a >= 0 {
		return int64(a) * int64(d.Min()), int64(a) * int64(d.Max())
	}
	return int64(a) * int64(d.Max()), int64(a) * int64(d.Min())
}

// floorDiv and ceilDiv round toward -inf and +inf for any sign mix.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}

// clampTerm narrows x so that lo <= a*x <= hi, dividing with the proper
// rounding for the sign of a.
func clampTerm(s *Space, a int, x Var, lo, hi int64) bool {
	d := s.domains[x]
	var vlo, vhi int64
	if a > 0 {
		vlo, vhi = ceilDiv(lo, int64(a)), floorDiv(hi, int64(a))
	} else {
		vlo, vhi = ceilDiv(hi, int64(a)), floorDiv(lo, int64(a))
	}
	changed := false
	if vlo > int64(d.Min()) {
		d = d.RemoveBelow(int(vlo))
		changed = true
	}
	if d.Count() > 0 && vhi < int64(d.Max()) {
		d = d.RemoveAbove(int(vhi))
		changed = true
	}
	if changed {
		return s.tell(x, d)
	}
	return false
}

func (p *linearEq) propagate(s *Space) bool {
	var smin, smax int64
	for i, a := range p.as {
		lo, hi := termBounds(a, s.domains[p.xs[i]])
		smin += lo
		smax += hi
	}
	if p.c < smin || p.c > smax {
		s.fail()
		return true
	}
	changed := false
	for i, a := range p.as {
		lo, hi := termBounds(a, s.domains[p.xs[i]])
		restMin, restMax := smin-lo, smax-hi
		// a*x must lie within [c-restMax, c-restMin].
		if clampTerm(s, a, p.xs[i], p.c-restMax, p.c-restMin) {
			changed = true
			if s.failed {
				return true
			}
		}
	}
	return changed
}

func (p *linearLq) propagate(s *Space) bool {
	var smin int64
	for i, a := range p.as {
		lo, _ := termBounds(a, s.domains[p.xs[i]])
		smin += lo
	}
	if smin > p.c {
		s.fail()
		return true
	}
	changed := false
	for i, a := range p.as {
		lo, _ := termBounds(a, s.domains[p.xs[i]])
		// a*x <= c - (smin - lo); the lower side is unconstrained.
		if clampTerm(s, a, p.xs[i], lo, p.c-(smin-lo)) {
			changed = true
			if s.failed {
				return true
			}
		}
	}
	return changed
}

func (p *linearNq) propagate(s *Space) bool {
	free := -1
	var sum int64
	for i, a := range p.as {
		d := s.domains[p.xs[i]]
		if d.IsSingleton() {
			sum += int64(a) * int64(d.Value())
			continue
		}
		if free >= 0 {
			return false
		}
		free = i
	}
	if free < 0 {
		if sum == p.c {
			s.fail()
			return true
		}
		return false
	}
	a := int64(p.as[free])
	rest := p.c - sum
	if rest%a != 0 {
		return false
	}
	x := p.xs[free]
	return s.tell(x, s.domains[x].Remove(int(rest/a)))
}
