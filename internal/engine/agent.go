package engine

import (
	"fmt"
	"math/rand"
)

// DefaultVisitInit is the visit-count prior for learning policies other than
// UCB. Starting at one keeps every mean-value quotient defined before the
// first update.
const DefaultVisitInit = 1.0

// AgentConfig selects a policy and its knobs. Policies are picked by name at
// construction, not by subclassing.
type AgentConfig struct {
	Policy      string
	Epsilon     float64
	Temperature float64
	Lambda      float64
	VisitInit   float64
	// Normalize rescales rewards before UCB table writes. UCB assumes
	// rewards in [0,1]; the simulator's native range is wider, so the
	// mapping is injected here rather than baked into the policy.
	Normalize func(float64) float64
}

// Agent runs the observe→act→reward cycle for one policy over one table.
// It tracks the episode-local context: whether the first reward of the
// episode has arrived yet, the last chosen action, and the state index that
// action was chosen under. The table itself survives across episodes.
type Agent struct {
	rng      *rand.Rand
	encoding Encoding
	table    *ValueTable
	policy   policy

	obs        Observation
	lastAction Action
	lastState  int
	firstVisit bool
}

// NewAgent builds an agent for cfg. encoding may be nil for the non-learning
// policies (random, engineered), which never index a table.
func NewAgent(cfg AgentConfig, encoding Encoding, rng *rand.Rand) (*Agent, error) {
	a := &Agent{rng: rng, encoding: encoding, firstVisit: true}

	needsTable := false
	switch cfg.Policy {
	case PolicyRandom, PolicyEngineered:
	case PolicyGreedy, PolicyEpsilonGreedy, PolicySoftmax, PolicyUCB:
		needsTable = true
	default:
		return nil, fmt.Errorf("engine: unknown policy %q", cfg.Policy)
	}

	if needsTable {
		if encoding == nil {
			return nil, fmt.Errorf("engine: policy %q requires an encoding", cfg.Policy)
		}
		visitInit := cfg.VisitInit
		if visitInit == 0 && cfg.Policy != PolicyUCB {
			visitInit = DefaultVisitInit
		}
		if cfg.Policy == PolicyUCB {
			// Zero-visit actions must score as unexplored.
			visitInit = 0
		}
		table, err := NewValueTable(encoding.States(), NumActions, visitInit)
		if err != nil {
			return nil, err
		}
		a.table = table
	}

	switch cfg.Policy {
	case PolicyRandom:
		a.policy = randomPolicy{}
	case PolicyEngineered:
		a.policy = engineeredPolicy{}
	case PolicyGreedy:
		a.policy = &epsilonGreedyPolicy{table: a.table, epsilon: 0}
	case PolicyEpsilonGreedy:
		if cfg.Epsilon < 0 || cfg.Epsilon > 1 {
			return nil, fmt.Errorf("engine: epsilon must be in [0,1] (got %g)", cfg.Epsilon)
		}
		a.policy = &epsilonGreedyPolicy{table: a.table, epsilon: cfg.Epsilon}
	case PolicySoftmax:
		if cfg.Temperature <= 0 {
			return nil, fmt.Errorf("engine: temperature must be positive (got %g)", cfg.Temperature)
		}
		a.policy = &softmaxPolicy{table: a.table, temperature: cfg.Temperature}
	case PolicyUCB:
		if cfg.Lambda < 0 {
			return nil, fmt.Errorf("engine: lambda must be >= 0 (got %g)", cfg.Lambda)
		}
		normalize := cfg.Normalize
		if normalize == nil {
			normalize = func(r float64) float64 { return r }
		}
		a.policy = &ucbPolicy{table: a.table, lambda: cfg.Lambda, normalize: normalize}
	}

	a.StartEpisode()
	return a, nil
}

// Table exposes the learned values, or nil for non-learning policies.
func (a *Agent) Table() *ValueTable { return a.table }

// StartEpisode resets the episode-local context. The seed action stands in
// for "the previous action" until a real one exists; the value table is
// deliberately left alone so learning accumulates across episodes.
func (a *Agent) StartEpisode() {
	a.firstVisit = true
	a.lastAction = Action(a.rng.Intn(NumActions))
	a.lastState = 0
}

// SelectAction picks the next action under the current observation and
// remembers the (state, action) pair for the upcoming reward.
func (a *Agent) SelectAction() Action {
	state := 0
	if a.table != nil {
		state = a.encoding.Index(a.lastAction, a.obs)
	}
	action := a.policy.choose(a.rng, state, a.obs)
	a.lastState = state
	a.lastAction = action
	return action
}

// OnReward delivers the observation that followed the last action together
// with the reward for that transition. The very first call of an episode
// only installs the starting observation: there is no previous state/action
// pair to credit yet.
func (a *Agent) OnReward(obs Observation, reward float64) {
	if a.firstVisit {
		a.firstVisit = false
	} else {
		a.policy.observe(a.lastState, a.lastAction, reward)
	}
	a.obs = obs
}
