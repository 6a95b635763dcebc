package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"wumpus-rl-go/internal/engine"
	"wumpus-rl-go/internal/world"
)

type compareOptions struct {
	gridSize   int
	flashUnits int
	torus      bool
	wumpusDyn  bool
	episodes   int
	maxSteps   int
	encoding   string
	seed       int64
	policies   []string
}

func newCompareCmd() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Train every policy on the same world and compare outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComparison(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.gridSize, "grid-size", 4, "board side length")
	flags.IntVar(&opts.flashUnits, "n-flash", 5, "flash units per episode")
	flags.BoolVar(&opts.torus, "tore", true, "wrap the board at the edges")
	flags.BoolVar(&opts.wumpusDyn, "wumpus-dyn", false, "let the wumpus wander")
	flags.IntVar(&opts.episodes, "episodes", 200, "episode budget per policy")
	flags.IntVar(&opts.maxSteps, "max-steps", 1000, "per-episode step cap")
	flags.StringVar(&opts.encoding, "encoding", engine.EncodingSensor, "state encoding")
	flags.Int64Var(&opts.seed, "seed", 1, "deterministic seed shared by all runs")
	flags.StringSliceVar(&opts.policies, "policies", engine.Policies(), "policies to compare")

	return cmd
}

type compareResult struct {
	policy string
	final  engine.Snapshot
}

// runComparison trains one agent per policy concurrently. Each run owns its
// world, table and RNG, so the runs never share mutable state.
func runComparison(cmd *cobra.Command, opts *compareOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var mu sync.Mutex
	results := make([]compareResult, 0, len(opts.policies))

	g, ctx := errgroup.WithContext(ctx)
	for _, policy := range opts.policies {
		policy := policy
		g.Go(func() error {
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
				Episodes:   opts.episodes,
				Seed:       opts.seed,
				MaxSteps:   opts.maxSteps,
				Policy:     policy,
				Encoding:   opts.encoding,
				Normalize:  world.NormalizeReward,
				GridWidth:  opts.gridSize,
				GridHeight: opts.gridSize,
				FlashUnits: opts.flashUnits,
			}, env)
			if err != nil {
				return fmt.Errorf("%s: %w", policy, err)
			}

			var final engine.Snapshot
			for snap := range trainer.Run(ctx) {
				final = snap
			}
			mu.Lock()
			results = append(results, compareResult{policy: policy, final: final})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].final.SuccessCount > results[j].final.SuccessCount
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POLICY\tTREASURES\tDEATHS\tTIMEOUTS\tAVG REWARD\tAVG STEPS")
	for _, r := range results {
		episodes := r.final.EpisodesCompleted
		if episodes == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\t%.1f\n",
			r.policy, r.final.SuccessCount, r.final.DeathCount, r.final.TimeoutCount,
			r.final.TotalReward/float64(episodes),
			float64(r.final.TotalSteps)/float64(episodes))
	}
	return w.Flush()
}
