package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenRowMajor(t *testing.T) {
	// The last listed dimension must vary fastest.
	dims := []int{2, 3}
	assert.Equal(t, 0, flattenIndex([]int{0, 0}, dims))
	assert.Equal(t, 1, flattenIndex([]int{0, 1}, dims))
	assert.Equal(t, 2, flattenIndex([]int{0, 2}, dims))
	assert.Equal(t, 3, flattenIndex([]int{1, 0}, dims))
	assert.Equal(t, 5, flattenIndex([]int{1, 2}, dims))
}

func TestFlattenUnflattenBijection(t *testing.T) {
	for _, dims := range [][]int{{2, 3}, {8, 2, 2, 6}, {4, 4, 2, 2, 6}, {1, 5}, {7}} {
		total := stateCount(dims)
		seen := make([]bool, total)
		for index := 0; index < total; index++ {
			coords := unflattenIndex(index, dims)
			back := flattenIndex(coords, dims)
			require.Equal(t, index, back, "dims %v", dims)
			require.False(t, seen[back], "dims %v index %d hit twice", dims, back)
			seen[back] = true
		}
	}
}

func TestFlattenContractViolationsPanic(t *testing.T) {
	assert.Panics(t, func() { flattenIndex([]int{1, 2, 3}, []int{2, 3}) })
	assert.Panics(t, func() { flattenIndex([]int{0, 3}, []int{2, 3}) })
	assert.Panics(t, func() { flattenIndex([]int{-1, 0}, []int{2, 3}) })
}

func TestSensorEncoding(t *testing.T) {
	enc, err := NewSensorEncoding(5)
	require.NoError(t, err)
	// Flash axis is maxFlash+1 wide so the full-pack state is representable.
	assert.Equal(t, []int{2, 2, 6}, enc.Dims())
	assert.Equal(t, 24, enc.States())

	obs := Observation{X: 3, Y: 1, Smell: 1, Breeze: 0, Flash: 5}
	// Position is ignored: (1,0,5) → 1*2*6 + 0*6 + 5.
	assert.Equal(t, 17, enc.Index(Up, obs))
	assert.Equal(t, 17, enc.Index(FlashLeft, Observation{X: 0, Y: 0, Smell: 1, Flash: 5}))
}

func TestActionSensorEncoding(t *testing.T) {
	enc, err := NewActionSensorEncoding(5)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 2, 2, 6}, enc.Dims())
	assert.Equal(t, 192, enc.States())

	obs := Observation{Smell: 0, Breeze: 1, Flash: 2}
	// The previous action is the leading (slowest) axis.
	low := enc.Index(Up, obs)
	high := enc.Index(FlashRight, obs)
	assert.Equal(t, 24*7, high-low)
}

func TestPositionEncoding(t *testing.T) {
	enc, err := NewPositionEncoding(4, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 2, 2, 6}, enc.Dims())
	assert.Equal(t, 384, enc.States())

	origin := enc.Index(Up, Observation{X: 0, Y: 0, Flash: 5})
	shifted := enc.Index(Up, Observation{X: 1, Y: 0, Flash: 5})
	assert.Equal(t, 96, shifted-origin)
}

func TestNewEncodingValidation(t *testing.T) {
	_, err := NewEncoding("nonsense", 4, 4, 5)
	assert.Error(t, err)

	_, err = NewSensorEncoding(-1)
	assert.Error(t, err)

	_, err = NewPositionEncoding(0, 4, 5)
	assert.Error(t, err)

	for _, name := range []string{EncodingSensor, EncodingActionSensor, EncodingPosition} {
		enc, err := NewEncoding(name, 4, 4, 5)
		require.NoError(t, err)
		require.NotNil(t, enc)
	}
}
