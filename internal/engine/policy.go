package engine

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	PolicyRandom        = "random"
	PolicyEngineered    = "engineered"
	PolicyGreedy        = "greedy"
	PolicyEpsilonGreedy = "epsilon-greedy"
	PolicySoftmax       = "softmax"
	PolicyUCB           = "ucb"
)

// Policies returns the selectable policy names.
func Policies() []string {
	return []string{PolicyRandom, PolicyEngineered, PolicyGreedy, PolicyEpsilonGreedy, PolicySoftmax, PolicyUCB}
}

// policy is one action-selection rule. choose picks an action for the
// current state; observe folds the reward for the previous (state, action)
// pair into the table. Non-learning policies ignore observe.
type policy interface {
	choose(rng *rand.Rand, state int, obs Observation) Action
	observe(state int, action Action, reward float64)
}

type randomPolicy struct{}

func (randomPolicy) choose(rng *rand.Rand, _ int, _ Observation) Action {
	return Action(rng.Intn(NumActions))
}

func (randomPolicy) observe(int, Action, float64) {}

// engineeredPolicy is the hand-coded baseline: move at random, and only
// consider firing the flash when something smells and units remain.
type engineeredPolicy struct{}

func (engineeredPolicy) choose(rng *rand.Rand, _ int, obs Observation) Action {
	if obs.Smell == 1 && obs.Flash > 0 {
		return Action(rng.Intn(NumActions))
	}
	return Action(rng.Intn(NumMoves))
}

func (engineeredPolicy) observe(int, Action, float64) {}

type epsilonGreedyPolicy struct {
	table   *ValueTable
	epsilon float64
}

func (p *epsilonGreedyPolicy) choose(rng *rand.Rand, state int, _ Observation) Action {
	if rng.Float64() < p.epsilon {
		return Action(rng.Intn(NumActions))
	}
	return argmaxAction(p.table.MeanValues(state))
}

func (p *epsilonGreedyPolicy) observe(state int, action Action, reward float64) {
	p.table.Update(state, action, reward)
}

type softmaxPolicy struct {
	table       *ValueTable
	temperature float64
}

func (p *softmaxPolicy) choose(rng *rand.Rand, state int, _ Observation) Action {
	return sampleCategorical(rng, softmaxWeights(p.table.MeanValues(state), p.temperature))
}

// softmaxWeights turns values into a categorical distribution at the given
// temperature. Subtracting the max before exponentiating keeps the
// normalization stable, and makes the result invariant to shifting every
// value by a constant.
func softmaxWeights(values []float64, temperature float64) []float64 {
	weights := make([]float64, len(values))
	copy(weights, values)
	floats.Scale(1/temperature, weights)
	max := floats.Max(weights)
	for i, w := range weights {
		weights[i] = math.Exp(w - max)
	}
	floats.Scale(1/floats.Sum(weights), weights)
	return weights
}

func (p *softmaxPolicy) observe(state int, action Action, reward float64) {
	p.table.Update(state, action, reward)
}

type ucbPolicy struct {
	table     *ValueTable
	lambda    float64
	normalize func(float64) float64
}

func (p *ucbPolicy) choose(_ *rand.Rand, state int, _ Observation) Action {
	means := p.table.MeanValues(state)
	visits := p.table.Visits(state)
	total := floats.Sum(visits)
	scores := make([]float64, len(means))
	for a := range scores {
		if visits[a] == 0 {
			// Never tried here: unbounded priority, explored before any
			// visited action regardless of its mean.
			scores[a] = math.Inf(1)
			continue
		}
		scores[a] = means[a] + p.lambda*math.Sqrt(2*math.Log(1+total)/(1+visits[a]))
	}
	return argmaxAction(scores)
}

func (p *ucbPolicy) observe(state int, action Action, reward float64) {
	p.table.Update(state, action, p.normalize(reward))
}

// argmaxAction returns the first index attaining the maximum, so ties break
// deterministically and stably.
func argmaxAction(values []float64) Action {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return Action(best)
}

// sampleCategorical draws an index proportionally to weights, which must be
// non-negative with a positive sum.
func sampleCategorical(rng *rand.Rand, weights []float64) Action {
	total := floats.Sum(weights)
	draw := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if draw < cumulative {
			return Action(i)
		}
	}
	return Action(len(weights) - 1)
}
