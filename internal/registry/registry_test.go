package registry_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	_ "github.com/vovakirdan/arcade-gym/internal/envs/aim"
	_ "github.com/vovakirdan/arcade-gym/internal/envs/catcher"
	_ "github.com/vovakirdan/arcade-gym/internal/envs/snake"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

func TestBuiltinEnvsRegistered(t *testing.T) {
	list := registry.List()

	var ids []string
	for _, info := range list {
		if info.Title == "" {
			t.Errorf("env %q has no title", info.ID)
		}
		ids = append(ids, info.ID)
	}

	for _, want := range []string{"aim", "catcher", "snake"} {
		if !registry.Exists(want) {
			t.Errorf("env %q not registered", want)
		}
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("List() not sorted by ID: %v", ids)
		}
	}
}

func TestCreateIndependentInstances(t *testing.T) {
	for _, id := range []string{"aim", "catcher", "snake"} {
		t.Run(id, func(t *testing.T) {
			a, err := registry.Create(id, registry.Options{})
			if err != nil {
				t.Fatalf("Create(%q) failed: %v", id, err)
			}
			b, err := registry.Create(id, registry.Options{})
			if err != nil {
				t.Fatalf("Create(%q) failed: %v", id, err)
			}
			if a == b {
				t.Fatal("Create must return a fresh instance")
			}
			if a.ID() != id || a.Phase() != core.PhaseReady {
				t.Errorf("got id=%q phase=%v", a.ID(), a.Phase())
			}

			obs, _, err := a.Reset(core.Seed(1))
			if err != nil {
				t.Fatalf("Reset() failed: %v", err)
			}
			if len(obs) != a.Spec().ObservationSize {
				t.Errorf("observation length %d, spec says %d", len(obs), a.Spec().ObservationSize)
			}
			if b.Phase() != core.PhaseReady {
				t.Error("resetting one instance affected another")
			}
		})
	}
}

func TestCreateAppliesOverrides(t *testing.T) {
	steps := 3
	env, err := registry.Create("snake", registry.Options{
		Overrides: config.Overrides{MaxSteps: &steps},
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, _, err := env.Reset(core.Seed(7)); err != nil {
		t.Fatal(err)
	}

	var res core.StepResult
	for range steps {
		res, err = env.Step(core.Discrete(int(core.DirRight)))
		if err != nil {
			t.Fatal(err)
		}
	}
	if !res.Truncated {
		t.Errorf("expected truncation after %d steps", steps)
	}
}

func TestCreateErrors(t *testing.T) {
	if _, err := registry.Create("pong", registry.Options{}); err == nil {
		t.Error("unknown env should fail")
	}

	_, err := registry.Create("catcher", registry.Options{
		Overrides: config.Overrides{RewardMode: "bogus"},
	})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	_, err = registry.Create("aim", registry.Options{ConfigPath: "/nonexistent/aim.yaml"})
	if err == nil {
		t.Error("missing config file should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	registry.Register("snake", "Snake again", func(registry.Options) (core.Env, error) {
		return nil, nil
	})
}
