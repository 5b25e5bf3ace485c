package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// EvalRun is the persisted summary of one evaluation run.
type EvalRun struct {
	RunID       string
	EnvID       string
	Policy      string
	RewardMode  string
	Episodes    int
	BaseSeed    int64
	MeanReward  float64
	StdReward   float64
	MeanScore   float64
	MaxScore    int
	MeanSteps   float64
	CrashRate   float64
	TimeoutRate float64
	CreatedAt   time.Time
}

// EvalEpisode is one episode of an evaluation run.
type EvalEpisode struct {
	EpisodeID   string
	Seed        int64
	Steps       int
	TotalReward float64
	Score       int
	Length      int
	Terminated  bool
	Truncated   bool
}

// SaveEvalRun stores a run and its episodes in a single transaction.
func (s *Store) SaveEvalRun(run EvalRun, episodes []EvalEpisode) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.Exec(
		`INSERT INTO eval_runs
		 (run_id, env_id, policy, reward_mode, episodes, base_seed, mean_reward, std_reward,
		  mean_score, max_score, mean_steps, crash_rate, timeout_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.EnvID, run.Policy, run.RewardMode, run.Episodes, run.BaseSeed,
		run.MeanReward, run.StdReward, run.MeanScore, run.MaxScore, run.MeanSteps,
		run.CrashRate, run.TimeoutRate,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save eval run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO eval_episodes
		 (run_id, episode_id, seed, steps, total_reward, score, length, terminated, truncated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare episode insert: %w", err)
	}
	defer stmt.Close()

	for _, ep := range episodes {
		if _, err := stmt.Exec(run.RunID, ep.EpisodeID, ep.Seed, ep.Steps, ep.TotalReward,
			ep.Score, ep.Length, ep.Terminated, ep.Truncated); err != nil {
			return fmt.Errorf("storage: cannot save eval episode: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit eval run: %w", err)
	}
	return nil
}

// RecentEvalRuns returns the latest runs for an environment, newest first.
// An empty envID returns runs for every environment.
func (s *Store) RecentEvalRuns(envID string, limit int) ([]EvalRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT run_id, env_id, policy, reward_mode, episodes, base_seed, mean_reward, std_reward,
		        mean_score, max_score, mean_steps, crash_rate, timeout_rate, created_at
		 FROM eval_runs
		 WHERE ? = '' OR env_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		envID, envID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query eval runs: %w", err)
	}
	defer rows.Close()

	var runs []EvalRun
	for rows.Next() {
		var r EvalRun
		var createdAt any
		if err := rows.Scan(&r.RunID, &r.EnvID, &r.Policy, &r.RewardMode, &r.Episodes, &r.BaseSeed,
			&r.MeanReward, &r.StdReward, &r.MeanScore, &r.MaxScore, &r.MeanSteps,
			&r.CrashRate, &r.TimeoutRate, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// EvalRunByID retrieves a run by its run ID. Returns ErrNotFound if absent.
func (s *Store) EvalRunByID(runID string) (*EvalRun, error) {
	var r EvalRun
	var createdAt any
	err := s.db.QueryRow(
		`SELECT run_id, env_id, policy, reward_mode, episodes, base_seed, mean_reward, std_reward,
		        mean_score, max_score, mean_steps, crash_rate, timeout_rate, created_at
		 FROM eval_runs WHERE run_id = ?`,
		runID,
	).Scan(&r.RunID, &r.EnvID, &r.Policy, &r.RewardMode, &r.Episodes, &r.BaseSeed,
		&r.MeanReward, &r.StdReward, &r.MeanScore, &r.MaxScore, &r.MeanSteps,
		&r.CrashRate, &r.TimeoutRate, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query eval run: %w", err)
	}

	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// EvalEpisodes returns the episodes of a run ordered by seed.
func (s *Store) EvalEpisodes(runID string) ([]EvalEpisode, error) {
	rows, err := s.db.Query(
		`SELECT episode_id, seed, steps, total_reward, score, length, terminated, truncated
		 FROM eval_episodes
		 WHERE run_id = ?
		 ORDER BY seed`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query eval episodes: %w", err)
	}
	defer rows.Close()

	var episodes []EvalEpisode
	for rows.Next() {
		var ep EvalEpisode
		if err := rows.Scan(&ep.EpisodeID, &ep.Seed, &ep.Steps, &ep.TotalReward,
			&ep.Score, &ep.Length, &ep.Terminated, &ep.Truncated); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		episodes = append(episodes, ep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return episodes, nil
}
