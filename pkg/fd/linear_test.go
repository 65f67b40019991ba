package fd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zalathar/gecode/pkg/search"
)

func TestPostLinearDegenerate(t *testing.T) {
	s := NewSpace()
	require.NoError(t, s.PostLinear(nil, Eq, 0))
	assert.False(t, s.Failed())

	require.NoError(t, s.PostLinear(nil, Lq, -1))
	assert.True(t, s.Failed())
}

func TestPostLinearMergesDuplicateTerms(t *testing.T) {
	s := NewSpace()
	x := s.NewVar(1, 10)
	// 2x - 2x = 5 has no variables left and is unsatisfiable.
	require.NoError(t, s.PostLinear([]Term{{2, x}, {-2, x}}, Eq, 5))
	assert.True(t, s.Failed())
}

func TestPostLinearUnary(t *testing.T) {
	s := NewSpace()
	x := s.NewVar(1, 10)
	// 3x = 9 narrows immediately, without a propagator.
	require.NoError(t, s.PostLinear([]Term{{3, x}}, Eq, 9))
	assert.Empty(t, s.props)
	assert.Equal(t, 3, s.Domain(x).Value())

	s = NewSpace()
	y := s.NewVar(1, 10)
	require.NoError(t, s.PostLinear([]Term{{2, y}}, Lq, 7))
	assert.Equal(t, 3, s.Domain(y).Max())

	s = NewSpace()
	z := s.NewVar(1, 10)
	require.NoError(t, s.PostLinear([]Term{{3, z}}, Eq, 10))
	assert.True(t, s.Failed(), "3z = 10 has no integer solution")
}

func TestPostLinearStrictRewrites(t *testing.T) {
	s := NewSpace()
	x := s.NewVar(1, 10)
	require.NoError(t, s.PostLinear([]Term{{1, x}}, Le, 5))
	assert.Equal(t, 4, s.Domain(x).Max())

	require.NoError(t, s.PostLinear([]Term{{1, x}}, Gr, 2))
	assert.Equal(t, 3, s.Domain(x).Min())

	require.NoError(t, s.PostLinear([]Term{{1, x}}, Gq, 4))
	assert.Equal(t, 4, s.Domain(x).Min())
}

func TestLinearEqBoundsPropagation(t *testing.T) {
	s := NewSpace()
	x := s.NewVar(1, 9)
	y := s.NewVar(1, 9)
	require.NoError(t, s.PostLinear([]Term{{1, x}, {1, y}}, Eq, 4))

	require.Equal(t, search.StatusBranch, s.Status(nil))
	assert.Equal(t, 3, s.Domain(x).Max())
	assert.Equal(t, 3, s.Domain(y).Max())
}

func TestLinearEqNegativeCoefficients(t *testing.T) {
	s := NewSpace()
	x := s.NewVar(1, 9)
	y := s.NewVar(1, 9)
	// x - y = 3.
	require.NoError(t, s.PostLinear([]Term{{1, x}, {-1, y}}, Eq, 3))
	require.Equal(t, search.StatusBranch, s.Status(nil))
	assert.Equal(t, 4, s.Domain(x).Min())
	assert.Equal(t, 6, s.Domain(y).Max())
}

func TestLinearNqForbidsLastValue(t *testing.T) {
	s := NewSpace()
	x := s.NewVar(2, 2)
	y := s.NewVar(1, 3)
	// x + y != 4 removes 2 from y once x is fixed.
	require.NoError(t, s.PostLinear([]Term{{1, x}, {1, y}}, Nq, 4))
	require.Equal(t, search.StatusBranch, s.Status(nil))
	assert.Equal(t, []int{1, 3}, s.Domain(y).Values())
}

func TestLinearNqFailsOnEqualSum(t *testing.T) {
	s := NewSpace()
	x := s.NewVar(2, 2)
	y := s.NewVar(2, 2)
	require.NoError(t, s.PostLinear([]Term{{1, x}, {1, y}}, Nq, 4))
	assert.Equal(t, search.StatusFailed, s.Status(nil))
}

func TestLinearLqPropagation(t *testing.T) {
	s := NewSpace()
	x := s.NewVar(1, 9)
	y := s.NewVar(1, 9)
	require.NoError(t, s.PostLinear([]Term{{2, x}, {1, y}}, Lq, 8))
	require.Equal(t, search.StatusBranch, s.Status(nil))
	// 2x <= 8 - min(y) = 7.
	assert.Equal(t, 3, s.Domain(x).Max())
	assert.Equal(t, 6, s.Domain(y).Max())
}

func TestPostLinearOverflow(t *testing.T) {
	s := NewSpace()
	x := s.NewVar(1, 1<<20)
	y := s.NewVar(1, 1<<20)
	err := s.PostLinear([]Term{{1 << 20, x}, {1 << 20, y}}, Eq, 0)
	assert.ErrorIs(t, err, ErrOverflow)
}
