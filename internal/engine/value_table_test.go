package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValueTableValidation(t *testing.T) {
	_, err := NewValueTable(0, 8, 1)
	assert.Error(t, err)
	_, err = NewValueTable(24, 0, 1)
	assert.Error(t, err)
	_, err = NewValueTable(24, 8, -1)
	assert.Error(t, err)

	table, err := NewValueTable(24, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, 24, table.States())
	assert.Equal(t, 8, table.Actions())
}

func TestMeanAfterSingleUpdate(t *testing.T) {
	table, err := NewValueTable(4, 8, 1)
	require.NoError(t, err)

	table.Update(2, Left, 10)

	// One prior visit plus the update: mean is reward / (visitInit + 1).
	means := table.MeanValues(2)
	assert.InDelta(t, 5.0, means[Left], 1e-12)
	assert.Zero(t, means[Right])
	assert.Equal(t, 9.0, table.TotalVisits(2))
}

func TestZeroVisitMeanIsGuarded(t *testing.T) {
	table, err := NewValueTable(4, 8, 0)
	require.NoError(t, err)

	for _, m := range table.MeanValues(1) {
		assert.False(t, math.IsNaN(m))
		assert.Zero(t, m)
	}

	table.Update(1, Up, -1)
	means := table.MeanValues(1)
	assert.Equal(t, -1.0, means[Up])
	assert.Zero(t, means[Down])
}

func TestVisitsReturnsCopy(t *testing.T) {
	table, err := NewValueTable(2, 8, 1)
	require.NoError(t, err)

	visits := table.Visits(0)
	visits[0] = 99
	assert.Equal(t, 1.0, table.Visits(0)[0])
}

func TestUpdatesAccumulate(t *testing.T) {
	table, err := NewValueTable(2, 8, 1)
	require.NoError(t, err)

	table.Update(0, Up, 3)
	table.Update(0, Up, 3)
	table.Update(0, Up, 3)

	// 9 cumulative reward over 1+3 visits.
	assert.InDelta(t, 2.25, table.MeanValues(0)[Up], 1e-12)
	assert.Equal(t, 4.0, table.Visits(0)[Up])
}
