package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantCutoff(t *testing.T) {
	c := &ConstantCutoff{Budget: 7}
	for i := 0; i < 3; i++ {
		assert.Equal(t, uint64(7), c.Next())
	}
}

func TestGeometricCutoff(t *testing.T) {
	c := NewGeometricCutoff(10, 2.0)
	assert.Equal(t, uint64(10), c.Next())
	assert.Equal(t, uint64(20), c.Next())
	assert.Equal(t, uint64(40), c.Next())
	assert.Equal(t, uint64(80), c.Next())
}

func TestLubyCutoff(t *testing.T) {
	c := NewLubyCutoff(1)
	want := []uint64{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	var got []uint64
	for range want {
		got = append(got, c.Next())
	}
	assert.Equal(t, want, got)
}

func TestLubyCutoffScaled(t *testing.T) {
	c := NewLubyCutoff(100)
	assert.Equal(t, uint64(100), c.Next())
	assert.Equal(t, uint64(100), c.Next())
	assert.Equal(t, uint64(200), c.Next())
}
