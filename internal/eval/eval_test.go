package eval

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/envs/catcher"
	"github.com/vovakirdan/arcade-gym/internal/envs/snake"
	"github.com/vovakirdan/arcade-gym/internal/registry"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

func maxSteps(n int) registry.Options {
	return registry.Options{Overrides: config.Overrides{MaxSteps: &n}}
}

func stripIDs(r *Report) []EpisodeResult {
	out := make([]EpisodeResult, len(r.Episodes))
	for i, ep := range r.Episodes {
		ep.EpisodeID = ""
		out[i] = ep
	}
	return out
}

func TestSummarize(t *testing.T) {
	results := []EpisodeResult{
		{Return: 1, Score: 25, Length: 10, Steps: 40, Hits: 3, Misses: 1, Terminated: true, ActionCounts: []int{1, 2}},
		{Return: 3, Score: 12, Length: 6, Steps: 10, Hits: 1, Misses: 3, Truncated: true, ActionCounts: []int{3, 0}},
		{Return: 2, Score: 7, Length: 8, Steps: 30, Terminated: true, ActionCounts: []int{0, 5}},
		{Return: 2, Score: 0, Length: 4, Steps: 20, Terminated: true, ActionCounts: []int{2, 2}},
	}

	s := Summarize(results)

	if s.Episodes != 4 || s.MeanReward != 2 {
		t.Errorf("episodes=%d mean reward=%v", s.Episodes, s.MeanReward)
	}
	if math.Abs(s.StdReward-math.Sqrt(0.5)) > 1e-12 {
		t.Errorf("std reward = %v", s.StdReward)
	}
	if s.MaxScore != 25 || s.MeanScore != 11 || s.MaxLength != 10 || s.MeanLength != 7 {
		t.Errorf("score/length stats wrong: %+v", s)
	}
	if s.MeanSteps != 25 || s.MaxSteps != 40 {
		t.Errorf("steps mean=%v max=%d", s.MeanSteps, s.MaxSteps)
	}
	// sorted steps: 10 20 30 40
	if s.Q1Steps != 20 || s.MedianSteps != 30 || s.Q3Steps != 40 {
		t.Errorf("quartiles = %d/%d/%d", s.Q1Steps, s.MedianSteps, s.Q3Steps)
	}
	if s.CrashRate != 0.75 || s.TimeoutRate != 0.25 {
		t.Errorf("crash=%v timeout=%v", s.CrashRate, s.TimeoutRate)
	}
	if s.Accuracy != 0.5 {
		t.Errorf("accuracy = %v", s.Accuracy)
	}
	if s.Tiers != (Tiers{Expert: 1, Good: 1, Moderate: 1, Beginner: 1}) {
		t.Errorf("tiers = %+v", s.Tiers)
	}
	if !reflect.DeepEqual(s.ActionCounts, []int{6, 9}) {
		t.Errorf("action counts = %v", s.ActionCounts)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil); s.Episodes != 0 || s.MeanReward != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestRunIndependentOfWorkerCount(t *testing.T) {
	run := func(workers int) *Report {
		r, err := Run(context.Background(), Config{
			EnvID:    snake.ID,
			Policy:   PolicyRandom,
			Episodes: 6,
			Workers:  workers,
			BaseSeed: 100,
			Env:      maxSteps(300),
		}, nil)
		if err != nil {
			t.Fatalf("Run(workers=%d) failed: %v", workers, err)
		}
		return r
	}

	one, four := run(1), run(4)
	if !reflect.DeepEqual(stripIDs(one), stripIDs(four)) {
		t.Error("results differ between 1 and 4 workers")
	}
	if !reflect.DeepEqual(one.Summary, four.Summary) {
		t.Error("summaries differ between 1 and 4 workers")
	}
	for i, ep := range one.Episodes {
		if ep.Seed != 100+int64(i) {
			t.Errorf("episode %d seed = %d", i, ep.Seed)
		}
		if ep.EpisodeID == "" {
			t.Errorf("episode %d has no id", i)
		}
		if !ep.Terminated && !ep.Truncated {
			t.Errorf("episode %d did not finish", i)
		}
	}
	if one.RunID == four.RunID {
		t.Error("each run needs its own id")
	}
}

func TestHeuristicAimNeverMisses(t *testing.T) {
	r, err := Run(context.Background(), Config{
		EnvID:    "aim",
		Policy:   PolicyHeuristic,
		Episodes: 3,
		Workers:  2,
		BaseSeed: 1,
		Env:      maxSteps(100),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, ep := range r.Episodes {
		if ep.Misses != 0 || ep.Score != 100 || !ep.Truncated {
			t.Errorf("seed %d: score=%d misses=%d truncated=%v", ep.Seed, ep.Score, ep.Misses, ep.Truncated)
		}
		if len(ep.AxisVariance) != 2 || ep.ActionCounts != nil {
			t.Errorf("continuous run should track axis variance only: %+v", ep)
		}
	}
	if r.Summary.Accuracy != 1 {
		t.Errorf("accuracy = %v", r.Summary.Accuracy)
	}
}

func TestHeuristicSnakeEats(t *testing.T) {
	r, err := Run(context.Background(), Config{
		EnvID:    snake.ID,
		Policy:   PolicyHeuristic,
		Episodes: 4,
		BaseSeed: 7,
		Env:      maxSteps(500),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, ep := range r.Episodes {
		if ep.Score < 1 {
			t.Errorf("seed %d: greedy snake ate nothing", ep.Seed)
		}
	}
}

func TestSnakePolicyAvoidsDanger(t *testing.T) {
	obs := make([]float64, snake.ObservationSize)
	obs[4], obs[5] = 0.8, 0.5 // food to the right
	obs[6+int(core.DirRight)] = 1
	obs[11+int(core.DirRight)] = 1

	a := snakePolicy{}.Act(obs)
	if a.Index == int(core.DirRight) || a.Index == int(core.DirLeft) {
		t.Errorf("policy chose %v into danger or reversal", core.Direction(a.Index))
	}
}

func TestCatcherPolicyTracksLowestFruit(t *testing.T) {
	// two fruits, basket, cooldown, power
	obs := []float64{0.1, 0.2, 0.8, 0.9, 0.4, 0.9, 0, 0}
	if a := (catcherPolicy{}).Act(obs); a.Index != catcher.ActionRight {
		t.Errorf("expected RIGHT toward the lowest fruit, got %d", a.Index)
	}

	obs[7] = 0
	obs[6] = 1 // power-up ready, basket far behind
	if a := (catcherPolicy{}).Act(obs); a.Index != catcher.ActionPowerUp {
		t.Errorf("expected power-up, got %d", a.Index)
	}
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := Run(ctx, Config{EnvID: "snake", Policy: PolicyRandom}, nil); !errors.Is(err, ErrNoEpisodes) {
		t.Errorf("expected ErrNoEpisodes, got %v", err)
	}
	if _, err := Run(ctx, Config{EnvID: "tetris", Policy: PolicyRandom, Episodes: 1}, nil); err == nil {
		t.Error("unknown env should fail")
	}
	if _, err := Run(ctx, Config{EnvID: "snake", Policy: "ppo", Episodes: 1}, nil); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("expected ErrUnknownPolicy, got %v", err)
	}

	bad := registry.Options{Overrides: config.Overrides{RewardMode: "greedy"}}
	if _, err := Run(ctx, Config{EnvID: "snake", Policy: PolicyRandom, Episodes: 1, Env: bad}, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{EnvID: catcher.ID, Policy: PolicyRandom, Episodes: 8, Workers: 2}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSaveAndCSV(t *testing.T) {
	r, err := Run(context.Background(), Config{
		EnvID:    catcher.ID,
		Policy:   PolicyHeuristic,
		Episodes: 3,
		BaseSeed: 11,
		Env:      maxSteps(200),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	store, err := storage.Open(filepath.Join(t.TempDir(), "eval.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := Save(store, r); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	run, err := store.EvalRunByID(r.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if run.EnvID != catcher.ID || run.Episodes != 3 || run.RewardMode != "default" {
		t.Errorf("stored run = %+v", run)
	}
	eps, err := store.EvalEpisodes(r.RunID)
	if err != nil || len(eps) != 3 {
		t.Fatalf("stored episodes = %d, %v", len(eps), err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, r); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 || rows[0][0] != "episode" || rows[1][1] != "11" {
		t.Errorf("csv rows = %v", rows)
	}

	var out strings.Builder
	r.Print(&out, ActionNames(catcher.ID))
	if !strings.Contains(out.String(), "STAY") || !strings.Contains(out.String(), "Crash Rate") {
		t.Errorf("report missing sections:\n%s", out.String())
	}
}
