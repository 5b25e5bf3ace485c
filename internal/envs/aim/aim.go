// Package aim implements the aim trainer: the agent places a cursor each
// tick and tries to click a circular target that grows with every miss.
package aim

import (
	"math/rand"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/episode"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

const (
	ID    = "aim"
	Title = "Aim Trainer"

	// ActionDims is the length of the continuous (x, y) action.
	ActionDims = 2

	// ObservationSize is the length of the observation vector.
	ObservationSize = 6
)

func init() {
	registry.Register(ID, Title, func(opts registry.Options) (core.Env, error) {
		cfg, err := config.LoadAim(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		opts.Overrides.Apply(&cfg.Episode)
		return New(cfg, episode.WithLogger(opts.Logger))
	})
}

// Game is the aim trainer World State and tick pipeline.
type Game struct {
	cfg config.AimConfig
	rng *rand.Rand

	tick     int
	score    int
	hits     int
	misses   int
	spawned  int
	cursorX  float64
	cursorY  float64
	target   core.Circle
	distance float64 // Cursor to current target after the last tick
	terminal bool
}

// NewGame validates cfg and creates a game. Reset must run before Tick.
func NewGame(cfg config.AimConfig) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Game{cfg: cfg}, nil
}

// New creates an aim trainer environment wrapped in the episode controller.
func New(cfg config.AimConfig, opts ...episode.Option) (*episode.Env, error) {
	g, err := NewGame(cfg)
	if err != nil {
		return nil, err
	}
	return episode.New(g.Descriptor(), g, cfg.Episode, opts...), nil
}

// Descriptor returns the identity and spaces of the environment.
func (g *Game) Descriptor() episode.Descriptor {
	return episode.Descriptor{
		ID:    ID,
		Title: Title,
		Spec: core.Spec{
			ActionKind:      core.ActionContinuous,
			ActionDims:      ActionDims,
			ObservationSize: ObservationSize,
			RewardBound:     g.cfg.Episode.RewardClip,
		},
	}
}

// Reset centers the cursor and spawns the first target.
func (g *Game) Reset(rng *rand.Rand) {
	g.rng = rng
	g.tick = 0
	g.score = 0
	g.hits = 0
	g.misses = 0
	g.spawned = 0
	g.terminal = false
	g.cursorX = g.cfg.Field.Width / 2
	g.cursorY = g.cfg.Field.Height / 2

	g.spawnTarget()
	g.distance = g.cursorDistance()
}

// decode scales a continuous action onto the playfield. Discrete actions
// carry no position and decode to a no-op.
func (g *Game) decode(a core.Action) core.Intent {
	if a.Kind != core.ActionContinuous {
		return core.NoOp()
	}
	return core.Intent{
		Kind: core.IntentSetCursor,
		X:    a.Axis(0) * g.cfg.Field.Width,
		Y:    a.Axis(1) * g.cfg.Field.Height,
	}
}

// Tick moves the cursor, clicks, and resolves the hit or miss.
func (g *Game) Tick(a core.Action) episode.Outcome {
	g.tick++

	var r core.Breakdown
	intent := g.decode(a)
	if intent.Kind == core.IntentSetCursor {
		g.cursorX, g.cursorY = intent.X, intent.Y

		d := g.cursorDistance()
		if g.target.ContainsPoint(g.cursorX, g.cursorY) {
			g.hits++
			g.score++
			g.rewardHit(&r, d)
			g.spawnTarget()
		} else {
			g.misses++
			g.rewardMiss(&r, d)
			g.target.R += g.cfg.Target.Growth
			if g.target.R >= g.cfg.Target.MaxRadius {
				g.terminal = true
				r.Add(core.CompTerminal, g.cfg.Rewards.Death)
			}
		}
	}

	g.distance = g.cursorDistance()
	g.rewardShaping(&r)

	return episode.Outcome{
		Reward:     r,
		Terminated: g.terminal,
	}
}

func (g *Game) cursorDistance() float64 {
	return core.Distance(g.cursorX, g.cursorY, g.target.X, g.target.Y)
}
