package eval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

// ErrNoEpisodes is returned when a run asks for fewer than one episode.
var ErrNoEpisodes = errors.New("eval: episodes must be positive")

// Config describes one evaluation run.
type Config struct {
	EnvID    string
	Policy   string
	Episodes int
	// Workers is the number of concurrent environments. Zero uses GOMAXPROCS.
	Workers int
	// Episode i is reset with seed BaseSeed+i.
	BaseSeed int64
	Env      registry.Options
}

// EpisodeResult holds the outcome of a single episode.
type EpisodeResult struct {
	EpisodeID  string
	Seed       int64
	Steps      int
	Return     float64
	Score      int
	Length     int
	Hits       int
	Misses     int
	Terminated bool
	Truncated  bool

	// ActionCounts indexes discrete actions; nil for continuous spaces.
	ActionCounts []int
	// AxisVariance is the per-axis variance of continuous actions.
	AxisVariance []float64
}

// Report is the full result of a run.
type Report struct {
	RunID    string
	Config   Config
	Episodes []EpisodeResult // Ordered by seed
	Summary  Summary
}

// Run executes cfg.Episodes episodes across cfg.Workers workers. Each worker
// owns its own environment instance; results do not depend on scheduling.
func Run(ctx context.Context, cfg Config, logger *log.Logger) (*Report, error) {
	if cfg.Episodes <= 0 {
		return nil, ErrNoEpisodes
	}
	if !registry.Exists(cfg.EnvID) {
		return nil, fmt.Errorf("eval: unknown env %q", cfg.EnvID)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, cfg.Episodes)

	logger = orDiscard(logger)
	runID := uuid.NewString()
	logger.Info("starting evaluation",
		"run", runID, "env", cfg.EnvID, "policy", cfg.Policy,
		"episodes", cfg.Episodes, "workers", workers, "base_seed", cfg.BaseSeed)

	results := make([]EpisodeResult, cfg.Episodes)
	jobs := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range cfg.Episodes {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := range workers {
		g.Go(func() error {
			env, err := registry.Create(cfg.EnvID, cfg.Env)
			if err != nil {
				return err
			}
			defer env.Close()

			for i := range jobs {
				seed := cfg.BaseSeed + int64(i)
				policy, err := NewPolicy(cfg.Policy, cfg.EnvID, env.Spec(), seed)
				if err != nil {
					return err
				}
				res, err := runEpisode(ctx, env, policy, seed)
				if err != nil {
					return fmt.Errorf("eval: episode %d: %w", i, err)
				}
				results[i] = res
				logger.Debug("episode done",
					"worker", w, "seed", seed, "score", res.Score,
					"steps", res.Steps, "return", res.Return)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:    runID,
		Config:   cfg,
		Episodes: results,
		Summary:  Summarize(results),
	}
	logger.Info("evaluation finished",
		"run", runID, "mean_reward", report.Summary.MeanReward,
		"mean_score", report.Summary.MeanScore, "crash_rate", report.Summary.CrashRate)
	return report, nil
}

// runEpisode plays one episode to completion.
func runEpisode(ctx context.Context, env core.Env, policy Policy, seed int64) (EpisodeResult, error) {
	obs, info, err := env.Reset(core.Seed(seed))
	if err != nil {
		return EpisodeResult{}, err
	}

	spec := env.Spec()
	res := EpisodeResult{EpisodeID: info.EpisodeID, Seed: seed}
	var axes axisStats
	if spec.ActionKind == core.ActionDiscrete {
		res.ActionCounts = make([]int, spec.ActionCount)
	} else {
		axes = newAxisStats(spec.ActionDims)
	}

	for {
		if res.Steps%512 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		a := policy.Act(obs)
		if a.Kind == core.ActionDiscrete {
			if a.Index >= 0 && a.Index < len(res.ActionCounts) {
				res.ActionCounts[a.Index]++
			}
		} else {
			axes.add(a)
		}

		step, err := env.Step(a)
		if err != nil {
			return res, err
		}
		res.Steps++
		res.Return += step.Reward
		obs = step.Observation

		if step.Done() {
			res.Score = step.Info.Score
			res.Length = step.Info.Length
			res.Hits = step.Info.Hits
			res.Misses = step.Info.Misses
			res.Terminated = step.Terminated
			res.Truncated = step.Truncated
			res.AxisVariance = axes.variance()
			return res, nil
		}
	}
}

// axisStats accumulates per-axis mean and variance with Welford's method.
type axisStats struct {
	n    int
	mean []float64
	m2   []float64
}

func newAxisStats(dims int) axisStats {
	return axisStats{mean: make([]float64, dims), m2: make([]float64, dims)}
}

func (s *axisStats) add(a core.Action) {
	s.n++
	for i := range s.mean {
		x := a.Axis(i)
		delta := x - s.mean[i]
		s.mean[i] += delta / float64(s.n)
		s.m2[i] += delta * (x - s.mean[i])
	}
}

func (s axisStats) variance() []float64 {
	if s.mean == nil {
		return nil
	}
	out := make([]float64, len(s.m2))
	if s.n < 2 {
		return out
	}
	for i, m := range s.m2 {
		out[i] = m / float64(s.n)
	}
	return out
}

func orDiscard(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(io.Discard)
}
