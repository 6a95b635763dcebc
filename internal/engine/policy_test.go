package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, visitInit float64) *ValueTable {
	t.Helper()
	table, err := NewValueTable(24, NumActions, visitInit)
	require.NoError(t, err)
	return table
}

func TestEpsilonOneIsUniform(t *testing.T) {
	table := newTestTable(t, 1)
	// A strongly preferred action must not matter at epsilon 1.
	table.Update(0, Right, 1000)

	p := &epsilonGreedyPolicy{table: table, epsilon: 1}
	rng := rand.New(rand.NewSource(7))

	const trials = 8000
	counts := make([]int, NumActions)
	for i := 0; i < trials; i++ {
		counts[p.choose(rng, 0, Observation{})]++
	}

	// Mean 1000 per action, sd ~30; five sigma on either side.
	for a, n := range counts {
		assert.Greater(t, n, 850, "action %d", a)
		assert.Less(t, n, 1150, "action %d", a)
	}
}

func TestEpsilonZeroIsGreedyAndStable(t *testing.T) {
	table := newTestTable(t, 1)
	table.Update(3, Down, 4)

	p := &epsilonGreedyPolicy{table: table, epsilon: 0}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		assert.Equal(t, Down, p.choose(rng, 3, Observation{}))
	}
}

func TestArgmaxBreaksTiesOnFirstIndex(t *testing.T) {
	assert.Equal(t, Up, argmaxAction([]float64{2, 2, 2, 2, 1, 1, 1, 1}))
	assert.Equal(t, Left, argmaxAction([]float64{0, 0, 3, 3, 0, 0, 0, 0}))
	assert.Equal(t, Up, argmaxAction(make([]float64, NumActions)))
}

func TestSoftmaxWeightsNormalizedAndShiftInvariant(t *testing.T) {
	values := []float64{1, -2, 0.5, 3, 0, 0, -1, 2}

	weights := softmaxWeights(values, 1)
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	shifted := make([]float64, len(values))
	for i, v := range values {
		shifted[i] = v + 1e6
	}
	shiftedWeights := softmaxWeights(shifted, 1)
	for i := range weights {
		assert.InDelta(t, weights[i], shiftedWeights[i], 1e-9)
	}
}

func TestSoftmaxTemperatureFlattens(t *testing.T) {
	values := []float64{0, 1, 0, 0, 0, 0, 0, 0}

	cold := softmaxWeights(values, 0.1)
	hot := softmaxWeights(values, 100)

	assert.Greater(t, cold[1], 0.99)
	assert.InDelta(t, 1.0/NumActions, hot[1], 0.01)
}

func TestSampleCategoricalFollowsWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	weights := []float64{1, 0, 0, 3, 0, 0, 0, 0}

	counts := make([]int, NumActions)
	const trials = 4000
	for i := 0; i < trials; i++ {
		counts[sampleCategorical(rng, weights)]++
	}

	assert.Zero(t, counts[Down])
	assert.InDelta(t, trials/4, counts[Up], 150)
	assert.InDelta(t, 3*trials/4, counts[Right], 150)
}

func TestUCBPrefersUnvisited(t *testing.T) {
	table := newTestTable(t, 0)
	p := &ucbPolicy{table: table, lambda: 1, normalize: func(r float64) float64 { return r }}

	// Give every action but one a high mean; the untouched one still wins.
	for a := 0; a < NumActions; a++ {
		if Action(a) == FlashLeft {
			continue
		}
		p.observe(0, Action(a), 1)
	}
	assert.Equal(t, FlashLeft, p.choose(nil, 0, Observation{}))
}

func TestUCBBonusFavorsRarelyTried(t *testing.T) {
	table := newTestTable(t, 0)
	p := &ucbPolicy{table: table, lambda: 1, normalize: func(r float64) float64 { return r }}

	// Equal means everywhere, but Down has been tried far more often.
	for a := 0; a < NumActions; a++ {
		p.observe(0, Action(a), 0.5)
	}
	for i := 0; i < 50; i++ {
		p.observe(0, Down, 0.5)
	}

	chosen := p.choose(nil, 0, Observation{})
	assert.NotEqual(t, Down, chosen)
}

func TestUCBScoreIsNeverNaN(t *testing.T) {
	table := newTestTable(t, 0)
	p := &ucbPolicy{table: table, lambda: 1, normalize: func(r float64) float64 { return r }}

	means := table.MeanValues(5)
	for _, m := range means {
		require.False(t, math.IsNaN(m))
	}
	// All-unvisited state: any action is fine, but it must not panic or NaN.
	assert.Equal(t, Up, p.choose(nil, 5, Observation{}))
}

func TestUCBNormalizesRewardsBeforeWriting(t *testing.T) {
	table := newTestTable(t, 0)
	normalize := func(r float64) float64 { return (r + 1) / 101 }
	p := &ucbPolicy{table: table, lambda: 1, normalize: normalize}

	p.observe(0, Up, 100)
	assert.InDelta(t, 1.0, table.MeanValues(0)[Up], 1e-12)

	p.observe(1, Up, -1)
	assert.InDelta(t, 0.0, table.MeanValues(1)[Up], 1e-12)
}

func TestEngineeredPolicyFlashGating(t *testing.T) {
	p := engineeredPolicy{}
	rng := rand.New(rand.NewSource(3))

	// No smell: flashing is pointless, only moves come out.
	for i := 0; i < 500; i++ {
		a := p.choose(rng, 0, Observation{Smell: 0, Flash: 5})
		require.True(t, a.IsMove())
	}
	// Out of units: same.
	for i := 0; i < 500; i++ {
		a := p.choose(rng, 0, Observation{Smell: 1, Flash: 0})
		require.True(t, a.IsMove())
	}

	// Smell and units left: flashes show up.
	flashed := false
	for i := 0; i < 500; i++ {
		if p.choose(rng, 0, Observation{Smell: 1, Flash: 5}).IsFlash() {
			flashed = true
			break
		}
	}
	assert.True(t, flashed)
}

func TestRandomPolicyCoversAllActions(t *testing.T) {
	p := randomPolicy{}
	rng := rand.New(rand.NewSource(5))

	seen := make(map[Action]bool)
	for i := 0; i < 1000; i++ {
		seen[p.choose(rng, 0, Observation{})] = true
	}
	assert.Len(t, seen, NumActions)
}
