package aim

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/episode"
)

func newTestGame(t *testing.T, mutate func(*config.AimConfig)) (*Game, *episode.Env) {
	t.Helper()
	cfg := config.DefaultAimConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	env := episode.New(g.Descriptor(), g, cfg.Episode)
	if _, _, err := env.Reset(core.Seed(42)); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	return g, env
}

func click(t *testing.T, env *episode.Env, x, y float64) core.StepResult {
	t.Helper()
	res, err := env.Step(core.Continuous(x, y))
	if err != nil {
		t.Fatalf("Step(%v, %v) failed: %v", x, y, err)
	}
	return res
}

func TestResetState(t *testing.T) {
	g, _ := newTestGame(t, nil)
	if g.cursorX != 640 || g.cursorY != 360 {
		t.Errorf("cursor starts at (%v, %v), expected the center", g.cursorX, g.cursorY)
	}
	if g.target.ContainsPoint(g.cursorX, g.cursorY) {
		t.Error("first target contains the cursor")
	}
}

func TestHitOnTargetCenter(t *testing.T) {
	g, env := newTestGame(t, nil)
	g.target = core.Circle{X: 640, Y: 360, R: 20}
	spawned := g.spawned

	res := click(t, env, 0.5, 0.5)

	if res.Info.Hits != 1 || res.Info.Score != 1 {
		t.Fatalf("expected a hit, got hits=%d score=%d", res.Info.Hits, res.Info.Score)
	}
	// base 2 + full accuracy 1 + size (150-20)/150 * 1.5
	if got := res.Info.Breakdown.Get(core.CompHit); math.Abs(got-4.3) > 1e-9 {
		t.Errorf("hit reward = %v, expected 4.3", got)
	}
	if res.Reward > 5 {
		t.Errorf("reward %v exceeds the clip bound", res.Reward)
	}
	if g.spawned != spawned+1 {
		t.Error("a new target should spawn immediately after a hit")
	}
	if g.target.ContainsPoint(640, 360) {
		t.Error("new target spawned on the cursor")
	}
}

func TestMissGrowsTarget(t *testing.T) {
	g, env := newTestGame(t, nil)
	g.target = core.Circle{X: 640, Y: 360, R: 20}

	res := click(t, env, 0, 0)

	if res.Info.Misses != 1 || res.Info.Score != 0 {
		t.Fatalf("expected a miss, got %+v", res.Info.Stats)
	}
	if math.Abs(g.target.R-20.1) > 1e-9 {
		t.Errorf("radius = %v, expected 20.1", g.target.R)
	}
	d := math.Hypot(640, 360)
	expected := -0.2 - d/math.Hypot(1280, 720)*0.5
	if got := res.Info.Breakdown.Get(core.CompMiss); math.Abs(got-expected) > 1e-9 {
		t.Errorf("miss reward = %v, expected %v", got, expected)
	}
	if res.Info.Accuracy() != 0 {
		t.Errorf("accuracy = %v", res.Info.Accuracy())
	}
}

func TestOvergrownTargetTerminates(t *testing.T) {
	g, env := newTestGame(t, nil)
	g.target = core.Circle{X: 640, Y: 360, R: 149.95}

	res := click(t, env, 0, 0)
	if !res.Terminated {
		t.Fatal("target reaching max radius should terminate")
	}
	if got := res.Info.Breakdown.Get(core.CompTerminal); got != -3 {
		t.Errorf("terminal component = %v, expected -3", got)
	}
	if res.Reward < -5 {
		t.Errorf("reward %v below the clip bound", res.Reward)
	}
}

func TestModeScaling(t *testing.T) {
	tests := []struct {
		mode     string
		survival float64
	}{
		{config.AimModeSurvival, 0.05},
		{config.AimModeAccuracy, 0.01},
	}

	for _, tc := range tests {
		t.Run(tc.mode, func(t *testing.T) {
			g, env := newTestGame(t, func(c *config.AimConfig) { c.Episode.RewardMode = tc.mode })
			g.target = core.Circle{X: 1000, Y: 500, R: 10}

			res := click(t, env, 0.5, 0.5)
			if got := res.Info.Breakdown.Get(core.CompSurvival); math.Abs(got-tc.survival) > 1e-12 {
				t.Errorf("survival = %v, expected %v", got, tc.survival)
			}
			scale := 1.0
			if tc.mode == config.AimModeSurvival {
				scale = 2.5
			}
			d := math.Hypot(360, 140)
			expected := 0.05 * (1 - d/math.Hypot(1280, 720)) * scale
			if got := res.Info.Breakdown.Get(core.CompProximity); math.Abs(got-expected) > 1e-9 {
				t.Errorf("proximity = %v, expected %v", got, expected)
			}
		})
	}
}

func TestDiscreteActionIsNoOp(t *testing.T) {
	g, env := newTestGame(t, nil)
	before := g.Snapshot()

	res, err := env.Step(core.Discrete(3))
	if err != nil {
		t.Fatal(err)
	}
	after := g.Snapshot()
	if res.Info.Misses != 0 || after.Radius != before.Radius || after.CursorX != before.CursorX {
		t.Error("a discrete action must not click or move the cursor")
	}
}

func TestSpawnAvoidsCursor(t *testing.T) {
	g, _ := newTestGame(t, nil)
	rng := rand.New(rand.NewSource(9))

	for range 2000 {
		g.cursorX = rng.Float64() * 1280
		g.cursorY = rng.Float64() * 720
		g.spawnTarget()

		c := g.target
		if c.ContainsPoint(g.cursorX, g.cursorY) {
			t.Fatalf("target %+v contains cursor (%v, %v)", c, g.cursorX, g.cursorY)
		}
		if c.X < 100 || c.X > 1180 || c.Y < 100 || c.Y > 620 {
			t.Fatalf("target center %+v outside the margins", c)
		}
		if c.R < 5 || c.R > 30 || c.X != math.Trunc(c.X) || c.R != math.Trunc(c.R) {
			t.Fatalf("target %+v should have integer center and radius in [5, 30]", c)
		}
	}
}

func TestSpawnFallbackWhenCursorUnavoidable(t *testing.T) {
	g, _ := newTestGame(t, func(c *config.AimConfig) {
		c.Field = config.AimField{Width: 300, Height: 300, Margin: 100}
		c.Target = config.AimTarget{MinRadius: 100, MaxInitialRadius: 100, MaxRadius: 200, Growth: 0.1}
	})
	g.cursorX, g.cursorY = 150, 150
	spawned := g.spawned

	g.spawnTarget()
	if g.spawned != spawned+1 || g.target.R != 100 {
		t.Errorf("fallback should still spawn a target, got %+v", g.target)
	}
}

func TestDeterminismAndBounds(t *testing.T) {
	run := func() ([]core.StepResult, Snapshot) {
		g, env := newTestGame(t, nil)
		env.Reset(core.Seed(2024))
		policy := rand.New(rand.NewSource(5))

		var out []core.StepResult
		for range 3000 {
			res := click(t, env, policy.Float64(), policy.Float64())
			if math.Abs(res.Reward) > 5 {
				t.Fatalf("reward %v outside clip range", res.Reward)
			}
			for j, v := range res.Observation {
				if v < 0 || v > 1 {
					t.Fatalf("obs[%d] = %v outside [0,1]", j, v)
				}
			}
			res.Info.EpisodeID = ""
			out = append(out, res)
			if res.Done() {
				break
			}
		}
		return out, g.Snapshot()
	}

	r1, s1 := run()
	r2, s2 := run()
	if !reflect.DeepEqual(r1, r2) || s1 != s2 {
		t.Error("same seed and actions produced different trajectories")
	}
}

func TestMaxStepsZeroTruncates(t *testing.T) {
	_, env := newTestGame(t, func(c *config.AimConfig) { c.Episode.MaxSteps = 0 })
	res := click(t, env, 0.1, 0.1)
	if !res.Truncated {
		t.Error("expected truncation on the first step")
	}
}
