package episode

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
)

// scriptSim is a minimal Sim whose outcomes are driven by the test.
type scriptSim struct {
	ticks     int
	draw      float64
	reward    float64
	terminate int // Tick number that terminates, 0 = never
	truncate  int // Tick number that truncates, 0 = never
	obs       []float64
	rendered  int
}

func (s *scriptSim) Reset(rng *rand.Rand) {
	s.ticks = 0
	s.draw = rng.Float64()
}

func (s *scriptSim) Tick(a core.Action) Outcome {
	s.ticks++
	var out Outcome
	out.Reward.Add(core.CompSurvival, s.reward)
	out.Terminated = s.terminate > 0 && s.ticks == s.terminate
	out.Truncated = s.truncate > 0 && s.ticks == s.truncate
	return out
}

func (s *scriptSim) Observe(dst []float64) {
	copy(dst, s.obs)
	dst[0] = s.draw
}

func (s *scriptSim) Stats() core.Stats       { return core.Stats{Score: s.ticks} }
func (s *scriptSim) Render(dst *core.Screen) { s.rendered++ }

func newTestEnv(sim *scriptSim, maxSteps int) *Env {
	if sim.obs == nil {
		sim.obs = make([]float64, 3)
	}
	cfg := config.EpisodeConfig{MaxSteps: maxSteps, RewardClip: 5, Seed: 1, Render: true}
	desc := Descriptor{ID: "test", Title: "Test", Spec: core.Spec{ObservationSize: 3}}
	return New(desc, sim, cfg)
}

func TestStepBeforeResetFails(t *testing.T) {
	sim := &scriptSim{}
	env := newTestEnv(sim, 10)

	if env.Phase() != core.PhaseReady {
		t.Fatalf("new env phase = %v, expected ready", env.Phase())
	}
	if _, err := env.Step(core.Discrete(0)); !errors.Is(err, core.ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
	if sim.ticks != 0 {
		t.Error("Step outside running must not touch the simulation")
	}
}

func TestTruncationAtMaxSteps(t *testing.T) {
	sim := &scriptSim{}
	env := newTestEnv(sim, 4)
	if _, _, err := env.Reset(nil); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 4; i++ {
		res, err := env.Step(core.Discrete(0))
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if i < 4 && res.Done() {
			t.Fatalf("episode ended early at step %d", i)
		}
		if i == 4 && (!res.Truncated || res.Terminated) {
			t.Fatalf("step 4: truncated=%v terminated=%v", res.Truncated, res.Terminated)
		}
		if res.Info.Step != i {
			t.Errorf("Info.Step = %d, expected %d", res.Info.Step, i)
		}
	}

	if env.Phase() != core.PhaseTruncated {
		t.Errorf("phase = %v, expected truncated", env.Phase())
	}
	if _, err := env.Step(core.Discrete(0)); !errors.Is(err, core.ErrNotRunning) {
		t.Errorf("step after truncation: expected ErrNotRunning, got %v", err)
	}
	if sim.ticks != 4 {
		t.Errorf("simulation advanced after episode end: %d ticks", sim.ticks)
	}
}

func TestZeroMaxStepsTruncatesFirstStep(t *testing.T) {
	env := newTestEnv(&scriptSim{}, 0)
	env.Reset(nil)

	res, err := env.Step(core.Discrete(0))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Truncated {
		t.Error("max_steps=0 should truncate on the first step")
	}
}

func TestTerminationBeatsTruncation(t *testing.T) {
	sim := &scriptSim{terminate: 3, truncate: 3}
	env := newTestEnv(sim, 3)
	env.Reset(nil)

	var res core.StepResult
	for range 3 {
		res, _ = env.Step(core.Discrete(0))
	}
	if !res.Terminated || res.Truncated {
		t.Errorf("terminated=%v truncated=%v, expected terminal only", res.Terminated, res.Truncated)
	}
	if env.Phase() != core.PhaseTerminated {
		t.Errorf("phase = %v", env.Phase())
	}
}

func TestSimDrivenTruncation(t *testing.T) {
	env := newTestEnv(&scriptSim{truncate: 2}, 100)
	env.Reset(nil)

	env.Step(core.Discrete(0))
	res, _ := env.Step(core.Discrete(0))
	if !res.Truncated || res.Terminated {
		t.Errorf("expected truncation from the simulation, got %+v", res)
	}
}

func TestRewardClippedAfterSumming(t *testing.T) {
	sim := &scriptSim{reward: 12}
	env := newTestEnv(sim, 10)
	env.Reset(nil)

	res, _ := env.Step(core.Discrete(0))
	if res.Reward != 5 {
		t.Errorf("Reward = %v, expected clip to 5", res.Reward)
	}
	// The breakdown keeps the unclipped components
	if got := res.Info.Breakdown.Get(core.CompSurvival); got != 12 {
		t.Errorf("cumulative survival = %v, expected 12", got)
	}

	env.Step(core.Discrete(0))
	if env.Return() != 10 {
		t.Errorf("Return() = %v, expected 10", env.Return())
	}
}

func TestObservationClipped(t *testing.T) {
	sim := &scriptSim{obs: []float64{0, math.Inf(1), -3}}
	env := newTestEnv(sim, 10)

	obs, _, _ := env.Reset(nil)
	for i, v := range obs {
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Errorf("obs[%d] = %v outside [0,1]", i, v)
		}
	}
	if obs[1] != 0 {
		t.Errorf("non-finite component should become 0, got %v", obs[1])
	}

	// Returned slices are owned by the caller
	obs[2] = 42
	res, _ := env.Step(core.Discrete(0))
	if res.Observation[2] != 0 {
		t.Error("observation buffer leaked between calls")
	}
}

func TestResetSeedDeterminism(t *testing.T) {
	a := newTestEnv(&scriptSim{}, 10)
	b := newTestEnv(&scriptSim{}, 10)

	oa, _, _ := a.Reset(core.Seed(99))
	ob, _, _ := b.Reset(core.Seed(99))
	if oa[0] != ob[0] {
		t.Errorf("same seed produced different draws: %v vs %v", oa[0], ob[0])
	}

	// A nil seed continues the stream instead of repeating it
	next, _, _ := a.Reset(nil)
	if next[0] == oa[0] {
		t.Error("Reset(nil) repeated the previous draw")
	}
	again, _, _ := a.Reset(core.Seed(99))
	if again[0] != oa[0] {
		t.Error("reseeding should replay the stream")
	}
}

func TestResetClearsEpisodeState(t *testing.T) {
	env := newTestEnv(&scriptSim{reward: 1, terminate: 2}, 10)
	_, first, _ := env.Reset(nil)
	env.Step(core.Discrete(0))
	env.Step(core.Discrete(0))

	_, info, err := env.Reset(nil)
	if err != nil {
		t.Fatal(err)
	}
	if info.Step != 0 || info.Breakdown.Total() != 0 || env.Return() != 0 {
		t.Errorf("reset left episode state behind: %+v", info)
	}
	if info.EpisodeID == "" || info.EpisodeID == first.EpisodeID {
		t.Error("each episode needs a fresh id")
	}
	if env.Phase() != core.PhaseRunning {
		t.Errorf("phase = %v, expected running", env.Phase())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	sim := &scriptSim{}
	env := newTestEnv(sim, 10)
	env.Reset(nil)

	if err := env.Close(); err != nil {
		t.Fatal(err)
	}
	if err := env.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, _, err := env.Reset(nil); !errors.Is(err, core.ErrClosed) {
		t.Errorf("Reset after Close: expected ErrClosed, got %v", err)
	}
	if _, err := env.Step(core.Discrete(0)); !errors.Is(err, core.ErrClosed) {
		t.Errorf("Step after Close: expected ErrClosed, got %v", err)
	}

	env.Render(core.NewScreen(10, 10))
	if sim.rendered != 0 {
		t.Error("Render after Close must be a no-op")
	}
}

func TestRenderDisabled(t *testing.T) {
	sim := &scriptSim{obs: make([]float64, 3)}
	cfg := config.EpisodeConfig{MaxSteps: 10, RewardClip: 5}
	env := New(Descriptor{ID: "test", Spec: core.Spec{ObservationSize: 3}}, sim, cfg)
	env.Reset(nil)

	env.Render(core.NewScreen(10, 10))
	if sim.rendered != 0 {
		t.Error("Render must be a no-op when rendering is disabled")
	}
}
