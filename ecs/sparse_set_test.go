package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseSetSwapRemove(t *testing.T) {
	var s SparseSet[string]
	s.Set(3, "c")
	s.Set(1, "a")
	s.Set(7, "g")
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []int{3, 1, 7}, s.IDs())

	s.Set(1, "A")
	v, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "A", v)

	assert.True(t, s.Remove(3))
	assert.False(t, s.Remove(3))
	assert.Equal(t, []int{7, 1}, s.IDs())
	assert.False(t, s.Has(3))

	v, ok = s.Get(7)
	require.True(t, ok)
	assert.Equal(t, "g", v)
}

func TestSparseSetIgnoresInvalidIDs(t *testing.T) {
	var s SparseSet[int]
	s.Set(0, 1)
	s.Set(-4, 1)
	assert.Zero(t, s.Len())
	assert.False(t, s.Has(99))
	_, ok := s.Get(99)
	assert.False(t, ok)

	var nilSet *SparseSet[int]
	assert.Zero(t, nilSet.Len())
	assert.False(t, nilSet.Remove(1))
	assert.Nil(t, nilSet.IDs())
}
