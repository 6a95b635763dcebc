package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"wumpus-rl-go/internal/engine"
	"wumpus-rl-go/internal/history"
	"wumpus-rl-go/internal/world"
)

type runOptions struct {
	gridSize    int
	flashUnits  int
	torus       bool
	wumpusDyn   bool
	episodes    int
	maxSteps    int
	stepDelayMs int
	policy      string
	encoding    string
	epsilon     float64
	temperature float64
	lambda      float64
	seed        int64
	watch       bool
	dbPath      string
	configPath  string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train one agent in the Wumpus world",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraining(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.gridSize, "grid-size", 4, "board side length")
	flags.IntVar(&opts.flashUnits, "n-flash", 5, "flash units per episode")
	flags.BoolVar(&opts.torus, "tore", true, "wrap the board at the edges")
	flags.BoolVar(&opts.wumpusDyn, "wumpus-dyn", false, "let the wumpus wander (beware!)")
	flags.IntVar(&opts.episodes, "episodes", 100, "episode budget")
	flags.IntVar(&opts.maxSteps, "max-steps", 1000, "per-episode step cap")
	flags.IntVar(&opts.stepDelayMs, "step-delay", 0, "delay between steps in milliseconds")
	flags.StringVar(&opts.policy, "policy", engine.PolicyEpsilonGreedy, fmt.Sprintf("action policy %v", engine.Policies()))
	flags.StringVar(&opts.encoding, "encoding", engine.EncodingSensor, "state encoding (sensor, action-sensor, position)")
	flags.Float64Var(&opts.epsilon, "epsilon", 0.1, "exploration rate for epsilon-greedy")
	flags.Float64Var(&opts.temperature, "temperature", 1, "softmax temperature")
	flags.Float64Var(&opts.lambda, "lambda", 1, "UCB exploration weight")
	flags.Int64Var(&opts.seed, "seed", 1, "deterministic seed")
	flags.BoolVar(&opts.watch, "watch", false, "render the board every step")
	flags.StringVar(&opts.dbPath, "db", "", "history database path (or WUMPUS_DB)")
	flags.StringVar(&opts.configPath, "config", "", "YAML config file; explicit flags win")

	return cmd
}

// applyFileConfig overlays file values onto opts for every flag the user did
// not set explicitly.
func applyFileConfig(cmd *cobra.Command, opts *runOptions, fc *fileConfig) {
	changed := cmd.Flags().Changed
	if fc.GridSize > 0 && !changed("grid-size") {
		opts.gridSize = fc.GridSize
	}
	if fc.FlashUnits > 0 && !changed("n-flash") {
		opts.flashUnits = fc.FlashUnits
	}
	if fc.Torus != nil && !changed("tore") {
		opts.torus = *fc.Torus
	}
	if fc.WumpusDyn != nil && !changed("wumpus-dyn") {
		opts.wumpusDyn = *fc.WumpusDyn
	}
	if fc.Episodes > 0 && !changed("episodes") {
		opts.episodes = fc.Episodes
	}
	if fc.MaxSteps > 0 && !changed("max-steps") {
		opts.maxSteps = fc.MaxSteps
	}
	if fc.Policy != "" && !changed("policy") {
		opts.policy = fc.Policy
	}
	if fc.Encoding != "" && !changed("encoding") {
		opts.encoding = fc.Encoding
	}
	if fc.Epsilon != 0 && !changed("epsilon") {
		opts.epsilon = fc.Epsilon
	}
	if fc.Temperature != 0 && !changed("temperature") {
		opts.temperature = fc.Temperature
	}
	if fc.Lambda != 0 && !changed("lambda") {
		opts.lambda = fc.Lambda
	}
	if fc.Seed != 0 && !changed("seed") {
		opts.seed = fc.Seed
	}
}

func runTraining(cmd *cobra.Command, opts *runOptions) error {
	if opts.configPath != "" {
		fc, err := loadFileConfig(opts.configPath)
		if err != nil {
			return err
		}
		applyFileConfig(cmd, opts, fc)
	}

	env, err := world.New(world.Config{
		Width:         opts.gridSize,
		Height:        opts.gridSize,
		FlashUnits:    opts.flashUnits,
		Torus:         opts.torus,
		DynamicWumpus: opts.wumpusDyn,
		Seed:          opts.seed,
	})
	if err != nil {
		return err
	}

	trainer, err := engine.NewTrainer(engine.Config{
		Episodes:    opts.episodes,
		Seed:        opts.seed,
		MaxSteps:    opts.maxSteps,
		StepDelayMs: opts.stepDelayMs,
		Policy:      opts.policy,
		Encoding:    opts.encoding,
		Epsilon:     opts.epsilon,
		Temperature: opts.temperature,
		Lambda:      opts.lambda,
		Normalize:   world.NormalizeReward,
		GridWidth:   opts.gridSize,
		GridHeight:  opts.gridSize,
		FlashUnits:  opts.flashUnits,
	}, env)
	if err != nil {
		return err
	}

	var store *history.Store
	if path := defaultDBPath(opts.dbPath); path != "" {
		store, err = history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.InsertRun(history.Run{
			ID:         trainer.Config().RunID,
			Policy:     opts.policy,
			Encoding:   opts.encoding,
			Seed:       opts.seed,
			GridWidth:  opts.gridSize,
			GridHeight: opts.gridSize,
			FlashUnits: opts.flashUnits,
		}); err != nil {
			return err
		}
	}

	renderer := world.NewRenderer()
	visits := make([][]int, opts.gridSize)
	for x := range visits {
		visits[x] = make([]int, opts.gridSize)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var rewards []float64
	var final engine.Snapshot
	for snap := range trainer.Run(ctx) {
		final = snap
		switch snap.Status {
		case engine.StatusRunning:
			visits[snap.Observation.X][snap.Observation.Y]++
			if opts.watch {
				for _, ev := range snap.Events {
					fmt.Printf(" ---- %s ----\n", ev.Message)
				}
				fmt.Println(renderer.Board(env))
			}
		case engine.StatusEpisodeComplete:
			rewards = append(rewards, snap.EpisodeReward)
			if store != nil {
				if err := store.InsertEpisode(history.Episode{
					RunID:   snap.RunID,
					Number:  snap.Episode,
					Steps:   snap.EpisodeSteps,
					Reward:  snap.EpisodeReward,
					Outcome: snap.Outcome,
				}); err != nil {
					logrus.WithError(err).Warn("journal episode")
				}
			}
		}
	}

	if store != nil {
		if err := store.FinishRun(final.RunID, final.EpisodesCompleted,
			final.SuccessCount, final.DeathCount, final.TimeoutCount,
			final.TotalReward, final.TotalSteps); err != nil {
			logrus.WithError(err).Warn("finish run")
		}
	}

	printRunSummary(opts, final, rewards)
	if opts.watch {
		fmt.Println("visit heatmap:")
		fmt.Print(renderer.Heatmap(visits))
	}
	return nil
}

func printRunSummary(opts *runOptions, final engine.Snapshot, rewards []float64) {
	fmt.Printf("run %s: policy=%s encoding=%s episodes=%d\n",
		final.RunID, opts.policy, opts.encoding, final.EpisodesCompleted)
	fmt.Printf("  treasures=%d deaths=%d timeouts=%d\n",
		final.SuccessCount, final.DeathCount, final.TimeoutCount)
	if len(rewards) > 0 {
		mean, std := stat.MeanStdDev(rewards, nil)
		fmt.Printf("  reward mean=%.2f stddev=%.2f total=%.2f avg_steps=%.1f\n",
			mean, std, final.TotalReward,
			float64(final.TotalSteps)/float64(len(rewards)))
	}
}
