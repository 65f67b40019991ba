package fd

// Model bundles a space with the variables of interest so callers can
// decode solutions.
type Model struct {
	Space *Space
	Vars  []Var
}

// Queens models the n-queens problem: one variable per column holding
// the queen's row, all rows distinct, and no two queens on a common
// diagonal (posted as binary linear disequalities).
func Queens(n int) *Model {
	s := NewSpace()
	q := make([]Var, n)
	for i := range q {
		q[i] = s.NewVar(1, n)
	}
	s.PostAllDifferent(q)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// q[i] - q[j] != j-i and q[i] - q[j] != i-j.
			_ = s.PostLinear([]Term{{1, q[i]}, {-1, q[j]}}, Nq, j-i)
			_ = s.PostLinear([]Term{{1, q[i]}, {-1, q[j]}}, Nq, i-j)
		}
	}
	return &Model{Space: s, Vars: q}
}

// SendMoreMoney models the classic cryptarithm SEND+MORE=MONEY with
// distinct digits and non-zero leading letters. Vars are ordered
// S,E,N,D,M,O,R,Y.
func SendMoreMoney() *Model {
	s := NewSpace()
	letters := make([]Var, 8)
	for i := range letters {
		letters[i] = s.NewVar(0, 9)
	}
	S, E, N, D := letters[0], letters[1], letters[2], letters[3]
	M, O, R, Y := letters[4], letters[5], letters[6], letters[7]

	s.PostAllDifferent(letters)
	_ = s.PostLinear([]Term{{1, S}}, Gq, 1)
	_ = s.PostLinear([]Term{{1, M}}, Gq, 1)
	_ = s.PostLinear([]Term{
		{1000, S}, {100, E}, {10, N}, {1, D},
		{1000, M}, {100, O}, {10, R}, {1, E},
		{-10000, M}, {-1000, O}, {-100, N}, {-10, E}, {-1, Y},
	}, Eq, 0)
	return &Model{Space: s, Vars: letters}
}
