package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "wumpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunAndEpisodeRoundTrip(t *testing.T) {
	store := openTestStore(t)

	run := Run{
		ID:         "run-1",
		Policy:     "epsilon-greedy",
		Encoding:   "sensor",
		Seed:       7,
		GridWidth:  4,
		GridHeight: 4,
		FlashUnits: 5,
	}
	require.NoError(t, store.InsertRun(run))

	require.NoError(t, store.InsertEpisode(Episode{RunID: "run-1", Number: 1, Steps: 12, Reward: 88, Outcome: "treasure"}))
	require.NoError(t, store.InsertEpisode(Episode{RunID: "run-1", Number: 2, Steps: 4, Reward: -14, Outcome: "death"}))
	require.NoError(t, store.FinishRun("run-1", 2, 1, 1, 0, 74, 16))

	episodes, err := store.RunEpisodes("run-1")
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, 1, episodes[0].Number)
	assert.Equal(t, "treasure", episodes[0].Outcome)
	assert.Equal(t, -14.0, episodes[1].Reward)
}

func TestSummariesAggregatePerPolicy(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.InsertRun(Run{ID: "a", Policy: "ucb", Seed: 1, GridWidth: 4, GridHeight: 4, FlashUnits: 5}))
	require.NoError(t, store.InsertRun(Run{ID: "b", Policy: "ucb", Seed: 2, GridWidth: 4, GridHeight: 4, FlashUnits: 5}))
	require.NoError(t, store.InsertRun(Run{ID: "c", Policy: "random", Seed: 3, GridWidth: 4, GridHeight: 4, FlashUnits: 5}))

	require.NoError(t, store.InsertEpisode(Episode{RunID: "a", Number: 1, Steps: 10, Reward: 90, Outcome: "treasure"}))
	require.NoError(t, store.InsertEpisode(Episode{RunID: "a", Number: 2, Steps: 30, Reward: -30, Outcome: "timeout"}))
	require.NoError(t, store.InsertEpisode(Episode{RunID: "b", Number: 1, Steps: 20, Reward: 80, Outcome: "treasure"}))
	require.NoError(t, store.InsertEpisode(Episode{RunID: "c", Number: 1, Steps: 5, Reward: -15, Outcome: "death"}))

	summaries, err := store.Summaries()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Most successful policy first.
	ucb := summaries[0]
	assert.Equal(t, "ucb", ucb.Policy)
	assert.Equal(t, 2, ucb.Runs)
	assert.Equal(t, 3, ucb.Episodes)
	assert.Equal(t, 2, ucb.Successes)
	assert.Equal(t, 1, ucb.Timeouts)
	assert.InDelta(t, 2.0/3.0, ucb.SuccessRate, 1e-9)
	assert.InDelta(t, (90-30+80)/3.0, ucb.MeanReward, 1e-9)

	random := summaries[1]
	assert.Equal(t, "random", random.Policy)
	assert.Equal(t, 1, random.Deaths)
	assert.Zero(t, random.SuccessRate)
}

func TestEmptySummaries(t *testing.T) {
	store := openTestStore(t)
	summaries, err := store.Summaries()
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
