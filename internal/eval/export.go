package eval

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vovakirdan/arcade-gym/internal/envs/catcher"
	"github.com/vovakirdan/arcade-gym/internal/envs/snake"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

// RunSaver persists evaluation runs. *storage.Store implements it.
type RunSaver interface {
	SaveEvalRun(run storage.EvalRun, episodes []storage.EvalEpisode) error
}

// Save stores the report summary and every episode.
func Save(s RunSaver, r *Report) error {
	mode := r.Config.Env.Overrides.RewardMode
	if mode == "" {
		mode = "default"
	}
	run := storage.EvalRun{
		RunID:       r.RunID,
		EnvID:       r.Config.EnvID,
		Policy:      r.Config.Policy,
		RewardMode:  mode,
		Episodes:    r.Summary.Episodes,
		BaseSeed:    r.Config.BaseSeed,
		MeanReward:  r.Summary.MeanReward,
		StdReward:   r.Summary.StdReward,
		MeanScore:   r.Summary.MeanScore,
		MaxScore:    r.Summary.MaxScore,
		MeanSteps:   r.Summary.MeanSteps,
		CrashRate:   r.Summary.CrashRate,
		TimeoutRate: r.Summary.TimeoutRate,
	}

	episodes := make([]storage.EvalEpisode, len(r.Episodes))
	for i, ep := range r.Episodes {
		episodes[i] = storage.EvalEpisode{
			EpisodeID:   ep.EpisodeID,
			Seed:        ep.Seed,
			Steps:       ep.Steps,
			TotalReward: ep.Return,
			Score:       ep.Score,
			Length:      ep.Length,
			Terminated:  ep.Terminated,
			Truncated:   ep.Truncated,
		}
	}

	if err := s.SaveEvalRun(run, episodes); err != nil {
		return fmt.Errorf("eval: save run %s: %w", r.RunID, err)
	}
	return nil
}

// WriteCSV writes one row per episode.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	header := []string{
		"episode", "seed", "reward", "score", "length", "steps",
		"hits", "misses", "crashed", "truncated",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, ep := range r.Episodes {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(ep.Seed, 10),
			strconv.FormatFloat(ep.Return, 'f', 4, 64),
			strconv.Itoa(ep.Score),
			strconv.Itoa(ep.Length),
			strconv.Itoa(ep.Steps),
			strconv.Itoa(ep.Hits),
			strconv.Itoa(ep.Misses),
			bit(ep.Terminated),
			bit(ep.Truncated),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ActionNames labels the discrete actions of an environment for reports.
func ActionNames(envID string) []string {
	switch envID {
	case catcher.ID:
		return []string{"LEFT", "RIGHT", "UP", "DOWN", "POWER", "STAY"}
	case snake.ID:
		return []string{"UP", "DOWN", "LEFT", "RIGHT"}
	}
	return nil
}
