package engine

import "fmt"

// ValueTable holds per-(state, action) cumulative reward and visit counts,
// dense over the full state space. Mean value is cumulative/visits. Visit
// counts start at visitInit in every cell: a strictly positive default keeps
// the quotient defined before a state is ever updated, while UCB tables start
// at zero and handle the unvisited case in the scoring rule instead.
type ValueTable struct {
	states  int
	actions int
	rewards [][]float64
	visits  [][]float64
}

func NewValueTable(states, actions int, visitInit float64) (*ValueTable, error) {
	if states <= 0 || actions <= 0 {
		return nil, fmt.Errorf("engine: value table dimensions must be positive (got %dx%d)", states, actions)
	}
	if visitInit < 0 {
		return nil, fmt.Errorf("engine: visitInit must be >= 0 (got %g)", visitInit)
	}
	rewards := make([][]float64, states)
	visits := make([][]float64, states)
	for s := 0; s < states; s++ {
		rewards[s] = make([]float64, actions)
		visits[s] = make([]float64, actions)
		if visitInit != 0 {
			for a := 0; a < actions; a++ {
				visits[s][a] = visitInit
			}
		}
	}
	return &ValueTable{states: states, actions: actions, rewards: rewards, visits: visits}, nil
}

func (t *ValueTable) States() int  { return t.states }
func (t *ValueTable) Actions() int { return t.actions }

// MeanValues returns cumulative reward divided by visit count for every
// action in state. A zero visit count yields zero rather than NaN; callers
// that need "never tried" to dominate (UCB) look at Visits directly.
func (t *ValueTable) MeanValues(state int) []float64 {
	means := make([]float64, t.actions)
	for a := 0; a < t.actions; a++ {
		if t.visits[state][a] > 0 {
			means[a] = t.rewards[state][a] / t.visits[state][a]
		}
	}
	return means
}

// Update adds reward to the cumulative total and counts one more visit.
func (t *ValueTable) Update(state int, action Action, reward float64) {
	t.rewards[state][action] += reward
	t.visits[state][action]++
}

// Visits returns a copy of the per-action visit counts for state.
func (t *ValueTable) Visits(state int) []float64 {
	visits := make([]float64, t.actions)
	copy(visits, t.visits[state])
	return visits
}

// TotalVisits sums the visit counts over all actions in state.
func (t *ValueTable) TotalVisits(state int) float64 {
	total := 0.0
	for a := 0; a < t.actions; a++ {
		total += t.visits[state][a]
	}
	return total
}
