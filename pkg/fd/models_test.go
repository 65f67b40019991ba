package fd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zalathar/gecode/pkg/search"
)

// solveAll drains an engine over the model and returns the assignments.
func solveAll(t *testing.T, m *Model, opt *search.Options) [][]int {
	t.Helper()
	e, err := search.NewDFS(m.Space, opt)
	require.NoError(t, err)
	defer e.Close()

	var out [][]int
	for s := e.Next(); s != nil; s = e.Next() {
		out = append(out, s.(*Space).Assignment(m.Vars))
	}
	return out
}

func validQueens(t *testing.T, rows []int) {
	t.Helper()
	for i := range rows {
		for j := i + 1; j < len(rows); j++ {
			assert.NotEqual(t, rows[i], rows[j], "same row")
			assert.NotEqual(t, j-i, rows[i]-rows[j], "same diagonal")
			assert.NotEqual(t, i-j, rows[i]-rows[j], "same diagonal")
		}
	}
}

func TestQueensSixHasFourSolutions(t *testing.T) {
	sols := solveAll(t, Queens(6), &search.Options{Threads: 1, CommitDistance: 2, AdaptDistance: 2})
	require.Len(t, sols, 4)
	for _, s := range sols {
		validQueens(t, s)
	}
}

func TestQueensParallelMatchesSequential(t *testing.T) {
	seq := solveAll(t, Queens(7), &search.Options{Threads: 1, CommitDistance: 4, AdaptDistance: 2})
	par := solveAll(t, Queens(7), &search.Options{Threads: 4, CommitDistance: 4, AdaptDistance: 2})

	require.Equal(t, len(seq), len(par))
	assert.ElementsMatch(t, seq, par)
}

func TestQueensTwoIsUnsatisfiable(t *testing.T) {
	e, err := search.NewDFS(Queens(2).Space, &search.Options{Threads: 1, CommitDistance: 1, AdaptDistance: 1})
	require.NoError(t, err)
	defer e.Close()
	assert.Nil(t, e.Next())
	assert.False(t, e.Stopped())
}

func BenchmarkQueensEight(b *testing.B) {
	for i := 0; i < b.N; i++ {
		m := Queens(8)
		e, err := search.NewDFS(m.Space, &search.Options{Threads: 4, CommitDistance: 8, AdaptDistance: 2})
		if err != nil {
			b.Fatal(err)
		}
		n := 0
		for s := e.Next(); s != nil; s = e.Next() {
			n++
		}
		e.Close()
		if n != 92 {
			b.Fatalf("expected 92 solutions, got %d", n)
		}
	}
}

func TestSendMoreMoney(t *testing.T) {
	sols := solveAll(t, SendMoreMoney(), &search.Options{Threads: 2, CommitDistance: 4, AdaptDistance: 2})
	require.Len(t, sols, 1)
	// S,E,N,D,M,O,R,Y.
	assert.Equal(t, []int{9, 5, 6, 7, 1, 0, 8, 2}, sols[0])
}
