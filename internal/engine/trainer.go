package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	StatusRunning         = "running"
	StatusEpisodeComplete = "episode_complete"
	StatusDone            = "done"
	StatusCancelled       = "cancelled"
)

type Config struct {
	Episodes    int
	Seed        int64
	MaxSteps    int
	StepDelayMs int

	Policy      string
	Encoding    string
	Epsilon     float64
	Temperature float64
	Lambda      float64
	VisitInit   float64
	Normalize   func(float64) float64

	// Grid geometry the encoding needs; must match the environment.
	GridWidth  int
	GridHeight int
	FlashUnits int

	RunID  string
	Logger *logrus.Logger
}

type Snapshot struct {
	RunID             string
	Step              int
	Episode           int
	EpisodeSteps      int
	EpisodeReward     float64
	Reward            float64
	Observation       Observation
	Events            []StepEvent
	SuccessCount      int
	DeathCount        int
	TimeoutCount      int
	EpisodesCompleted int
	TotalReward       float64
	TotalSteps        int
	// Outcome is treasure, death or timeout; set on episode_complete only.
	Outcome string
	Status  string
}

// Trainer drives one agent against one environment for a budget of episodes,
// streaming a snapshot per tick.
type Trainer struct {
	cfg   Config
	env   Environment
	agent *Agent
	log   *logrus.Entry

	step              int
	successCount      int
	deathCount        int
	timeoutCount      int
	episodesCompleted int
	totalReward       float64
	totalSteps        int
}

func NewTrainer(cfg Config, env Environment) (*Trainer, error) {
	if env == nil {
		return nil, fmt.Errorf("engine: trainer requires an environment")
	}
	if cfg.Episodes <= 0 {
		cfg.Episodes = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 1000
	}
	if cfg.StepDelayMs < 0 {
		cfg.StepDelayMs = 0
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyEpsilonGreedy
	}
	if cfg.Encoding == "" {
		cfg.Encoding = EncodingSensor
	}
	if cfg.Epsilon == 0 && cfg.Policy == PolicyEpsilonGreedy {
		cfg.Epsilon = 0.1
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 1
	}
	if cfg.Lambda == 0 {
		cfg.Lambda = 1
	}
	if cfg.GridWidth <= 0 {
		cfg.GridWidth = 4
	}
	if cfg.GridHeight <= 0 {
		cfg.GridHeight = 4
	}
	if cfg.FlashUnits < 0 {
		cfg.FlashUnits = 0
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	var encoding Encoding
	switch cfg.Policy {
	case PolicyRandom, PolicyEngineered:
		// no table, no encoding
	default:
		var err error
		encoding, err = NewEncoding(cfg.Encoding, cfg.GridWidth, cfg.GridHeight, cfg.FlashUnits)
		if err != nil {
			return nil, err
		}
	}

	agent, err := NewAgent(AgentConfig{
		Policy:      cfg.Policy,
		Epsilon:     cfg.Epsilon,
		Temperature: cfg.Temperature,
		Lambda:      cfg.Lambda,
		VisitInit:   cfg.VisitInit,
		Normalize:   cfg.Normalize,
	}, encoding, rng)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger.WithFields(logrus.Fields{
		"run_id": cfg.RunID,
		"policy": cfg.Policy,
	})

	return &Trainer{cfg: cfg, env: env, agent: agent, log: log}, nil
}

func (t *Trainer) Config() Config { return t.cfg }
func (t *Trainer) Agent() *Agent  { return t.agent }

// Run trains for the configured episode budget, emitting one snapshot per
// step plus per-episode and terminal status snapshots. The channel closes
// when training finishes or ctx is cancelled.
func (t *Trainer) Run(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot)
	go func() {
		defer close(out)
		for episode := 1; episode <= t.cfg.Episodes; episode++ {
			if !t.runEpisode(ctx, episode, out) {
				return
			}
		}
		out <- t.snapshot(StatusDone, t.cfg.Episodes, 0, 0, 0, nil)
	}()
	return out
}

// runEpisode plays one episode to termination or the step cap. Returns false
// if the context was cancelled mid-episode.
func (t *Trainer) runEpisode(ctx context.Context, episode int, out chan<- Snapshot) bool {
	obs := t.env.Reset()
	t.agent.StartEpisode()
	t.agent.OnReward(obs, 0)

	steps := 0
	episodeReward := 0.0
	lastReward := 0.0
	outcome := "timeout"

	for {
		select {
		case <-ctx.Done():
			out <- t.snapshot(StatusCancelled, episode, steps, episodeReward, lastReward, nil)
			return false
		default:
		}

		action := t.agent.SelectAction()
		next, reward, done := t.env.Step(action)
		t.agent.OnReward(next, reward)

		steps++
		t.step++
		episodeReward += reward
		lastReward = reward

		var events []StepEvent
		if src, ok := t.env.(EventSource); ok {
			events = src.LastEvents()
		}
		out <- t.snapshot(StatusRunning, episode, steps, episodeReward, reward, events)

		if t.cfg.StepDelayMs > 0 {
			select {
			case <-ctx.Done():
				out <- t.snapshot(StatusCancelled, episode, steps, episodeReward, lastReward, nil)
				return false
			case <-time.After(time.Duration(t.cfg.StepDelayMs) * time.Millisecond):
			}
		}

		if done {
			// Terminal rewards dominate the step cost: a positive final
			// reward means the treasure, a negative one means a death.
			if reward > 0 {
				t.successCount++
				outcome = "treasure"
			} else {
				t.deathCount++
				outcome = "death"
			}
			break
		}
		if steps >= t.cfg.MaxSteps {
			t.timeoutCount++
			break
		}
	}

	t.episodesCompleted++
	t.totalReward += episodeReward
	t.totalSteps += steps

	t.log.WithFields(logrus.Fields{
		"episode": episode,
		"steps":   steps,
		"reward":  episodeReward,
		"outcome": outcome,
	}).Info("episode complete")

	snap := t.snapshot(StatusEpisodeComplete, episode, steps, episodeReward, lastReward, nil)
	snap.Outcome = outcome
	out <- snap
	return true
}

func (t *Trainer) snapshot(status string, episode, episodeSteps int, episodeReward, reward float64, events []StepEvent) Snapshot {
	return Snapshot{
		RunID:             t.cfg.RunID,
		Step:              t.step,
		Episode:           episode,
		EpisodeSteps:      episodeSteps,
		EpisodeReward:     episodeReward,
		Reward:            reward,
		Observation:       t.agent.obs,
		Events:            events,
		SuccessCount:      t.successCount,
		DeathCount:        t.deathCount,
		TimeoutCount:      t.timeoutCount,
		EpisodesCompleted: t.episodesCompleted,
		TotalReward:       t.totalReward,
		TotalSteps:        t.totalSteps,
		Status:            status,
	}
}
