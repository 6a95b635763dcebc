// Package history journals training runs and episode outcomes to SQLite so
// runs can be compared after the fact. Learned value tables are not stored;
// only the episode-level results are.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Run is one trainer invocation.
type Run struct {
	ID         string
	Policy     string
	Encoding   string
	Seed       int64
	GridWidth  int
	GridHeight int
	FlashUnits int
	StartedAt  time.Time
	EndedAt    *time.Time
	Episodes   int
	Successes  int
	Deaths     int
	Timeouts   int
	TotalReward float64
	TotalSteps  int
}

// Episode is one reset-to-terminal stretch within a run.
type Episode struct {
	ID      int64
	RunID   string
	Number  int
	Steps   int
	Reward  float64
	Outcome string // treasure, death or timeout
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		policy TEXT NOT NULL,
		encoding TEXT NOT NULL DEFAULT '',
		seed INTEGER NOT NULL,
		grid_width INTEGER NOT NULL,
		grid_height INTEGER NOT NULL,
		flash_units INTEGER NOT NULL,
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		ended_at DATETIME,
		episodes INTEGER DEFAULT 0,
		successes INTEGER DEFAULT 0,
		deaths INTEGER DEFAULT 0,
		timeouts INTEGER DEFAULT 0,
		total_reward REAL DEFAULT 0,
		total_steps INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS episodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		number INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		reward REAL NOT NULL,
		outcome TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_episodes_run ON episodes(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertRun records the start of a run.
func (s *Store) InsertRun(run Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, policy, encoding, seed, grid_width, grid_height, flash_units, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Policy, run.Encoding, run.Seed,
		run.GridWidth, run.GridHeight, run.FlashUnits, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun fills in the final tallies of a run.
func (s *Store) FinishRun(id string, episodes, successes, deaths, timeouts int, totalReward float64, totalSteps int) error {
	_, err := s.db.Exec(`
		UPDATE runs
		SET ended_at = ?, episodes = ?, successes = ?, deaths = ?, timeouts = ?, total_reward = ?, total_steps = ?
		WHERE id = ?`,
		time.Now().UTC(), episodes, successes, deaths, timeouts, totalReward, totalSteps, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// InsertEpisode records one completed episode.
func (s *Store) InsertEpisode(ep Episode) error {
	_, err := s.db.Exec(`
		INSERT INTO episodes (run_id, number, steps, reward, outcome)
		VALUES (?, ?, ?, ?, ?)`,
		ep.RunID, ep.Number, ep.Steps, ep.Reward, ep.Outcome)
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}
	return nil
}

// PolicySummary aggregates runs per policy.
type PolicySummary struct {
	Policy      string
	Runs        int
	Episodes    int
	Successes   int
	Deaths      int
	Timeouts    int
	MeanReward  float64
	MeanSteps   float64
	SuccessRate float64
}

// Summaries aggregates the journal per policy, most successful first.
func (s *Store) Summaries() ([]PolicySummary, error) {
	rows, err := s.db.Query(`
		SELECT r.policy,
		       COUNT(DISTINCT r.id),
		       COUNT(e.id),
		       SUM(CASE WHEN e.outcome = 'treasure' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN e.outcome = 'death' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN e.outcome = 'timeout' THEN 1 ELSE 0 END),
		       AVG(e.reward),
		       AVG(e.steps)
		FROM runs r
		JOIN episodes e ON e.run_id = r.id
		GROUP BY r.policy
		ORDER BY SUM(CASE WHEN e.outcome = 'treasure' THEN 1 ELSE 0 END) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []PolicySummary
	for rows.Next() {
		var ps PolicySummary
		if err := rows.Scan(&ps.Policy, &ps.Runs, &ps.Episodes, &ps.Successes, &ps.Deaths, &ps.Timeouts, &ps.MeanReward, &ps.MeanSteps); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		if ps.Episodes > 0 {
			ps.SuccessRate = float64(ps.Successes) / float64(ps.Episodes)
		}
		summaries = append(summaries, ps)
	}
	return summaries, rows.Err()
}

// RunEpisodes lists the episodes of one run in order.
func (s *Store) RunEpisodes(runID string) ([]Episode, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, number, steps, reward, outcome
		FROM episodes WHERE run_id = ? ORDER BY number`, runID)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var ep Episode
		if err := rows.Scan(&ep.ID, &ep.RunID, &ep.Number, &ep.Steps, &ep.Reward, &ep.Outcome); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, ep)
	}
	return episodes, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
