// Package episode implements the controller shared by every environment:
// the Ready/Running/Terminated/Truncated phase machine, step budgeting,
// reward summing and clipping, and observation normalization. Variants
// supply only a Sim.
package episode

import (
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
)

// Outcome is what a Sim reports for one tick.
type Outcome struct {
	Reward     core.Breakdown // Unclipped components for this tick only
	Terminated bool
	Truncated  bool // Variant-specific budget, e.g. snake starvation
}

// Sim is the per-variant simulation driven by Env.
// Tick is only called while the episode is running.
type Sim interface {
	Reset(rng *rand.Rand)
	Tick(a core.Action) Outcome
	Observe(dst []float64)
	Stats() core.Stats
	Render(dst *core.Screen)
}

// Descriptor identifies a variant.
type Descriptor struct {
	ID    string
	Title string
	Spec  core.Spec
}

// Option configures an Env.
type Option func(*Env)

// WithLogger attaches a logger for debug-level episode summaries.
func WithLogger(l *log.Logger) Option {
	return func(e *Env) {
		e.logger = l
	}
}

// Env wraps a Sim with the episode state machine. It implements core.Env.
type Env struct {
	desc   Descriptor
	sim    Sim
	cfg    config.EpisodeConfig
	rng    *rand.Rand
	logger *log.Logger

	phase     core.Phase
	step      int
	episodeID string
	total     core.Breakdown
	ret       float64
	obs       []float64
	closed    bool
}

var _ core.Env = (*Env)(nil)

// New creates a controller in PhaseReady. The RNG stream is seeded from cfg.Seed.
func New(desc Descriptor, sim Sim, cfg config.EpisodeConfig, opts ...Option) *Env {
	e := &Env{
		desc:  desc,
		sim:   sim,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		phase: core.PhaseReady,
		obs:   make([]float64, desc.Spec.ObservationSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Env) ID() string        { return e.desc.ID }
func (e *Env) Title() string     { return e.desc.Title }
func (e *Env) Spec() core.Spec   { return e.desc.Spec }
func (e *Env) Phase() core.Phase { return e.phase }

// Sim returns the wrapped simulation.
func (e *Env) Sim() Sim { return e.sim }

// Reset starts a new episode. A nil seed continues the current RNG stream.
func (e *Env) Reset(seed *int64) ([]float64, core.Info, error) {
	if e.closed {
		return nil, core.Info{}, core.ErrClosed
	}
	if seed != nil {
		e.rng.Seed(*seed)
	}

	e.sim.Reset(e.rng)
	e.phase = core.PhaseRunning
	e.step = 0
	e.total = core.Breakdown{}
	e.ret = 0
	e.episodeID = uuid.NewString()

	return e.observe(), e.info(), nil
}

// Step advances the episode by one tick.
func (e *Env) Step(a core.Action) (core.StepResult, error) {
	if e.closed {
		return core.StepResult{}, core.ErrClosed
	}
	if e.phase != core.PhaseRunning {
		return core.StepResult{}, core.ErrNotRunning
	}

	out := e.sim.Tick(a)
	e.step++
	e.total.Merge(out.Reward)

	reward := core.ClipReward(out.Reward.Total(), e.cfg.RewardClip)
	e.ret += reward

	// Termination wins when both fire on the same tick
	terminated := out.Terminated
	truncated := !terminated && (out.Truncated || e.step >= e.cfg.MaxSteps)
	switch {
	case terminated:
		e.phase = core.PhaseTerminated
	case truncated:
		e.phase = core.PhaseTruncated
	}

	res := core.StepResult{
		Observation: e.observe(),
		Reward:      reward,
		Terminated:  terminated,
		Truncated:   truncated,
		Info:        e.info(),
	}
	if res.Done() && e.logger != nil {
		e.logger.Debug("episode finished",
			"env", e.desc.ID,
			"episode", e.episodeID,
			"phase", e.phase,
			"steps", e.step,
			"return", e.ret,
			"score", res.Info.Score,
		)
	}
	return res, nil
}

// Render draws the current state. It is a no-op when rendering is
// disabled, before the first reset, or after Close.
func (e *Env) Render(dst *core.Screen) {
	if !e.cfg.Render || e.closed || e.phase == core.PhaseReady || dst == nil {
		return
	}
	e.sim.Render(dst)
}

// Close releases the environment. Safe to call more than once.
func (e *Env) Close() error {
	e.closed = true
	return nil
}

// Info returns the diagnostics record for the current state.
func (e *Env) Info() core.Info {
	return e.info()
}

// Return is the sum of clipped rewards in the current episode.
func (e *Env) Return() float64 {
	return e.ret
}

func (e *Env) info() core.Info {
	return core.Info{
		EpisodeID: e.episodeID,
		Step:      e.step,
		Phase:     e.phase,
		Stats:     e.sim.Stats(),
		Breakdown: e.total,
	}
}

// observe projects the World State and returns a copy the caller may keep.
func (e *Env) observe() []float64 {
	e.sim.Observe(e.obs)
	out := make([]float64, len(e.obs))
	for i, v := range e.obs {
		out[i] = core.ClampF(core.Finite(v), 0, 1)
	}
	return out
}
