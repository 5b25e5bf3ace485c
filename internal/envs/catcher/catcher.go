// Package catcher implements the falling-object catcher: a basket that
// collects fruit, dodges bombs and can briefly slow the world down.
package catcher

import (
	"math/rand"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/episode"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

const (
	ID    = "catcher"
	Title = "Fruit Catcher"
)

// Discrete actions.
const (
	ActionLeft = iota
	ActionRight
	ActionUp
	ActionDown
	ActionPowerUp
	ActionStay
	ActionCount
)

func init() {
	registry.Register(ID, Title, func(opts registry.Options) (core.Env, error) {
		cfg, err := config.LoadCatcher(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		opts.Overrides.Apply(&cfg.Episode)
		return New(cfg, episode.WithLogger(opts.Logger))
	})
}

// Game is the catcher World State and tick pipeline.
type Game struct {
	cfg        config.CatcherConfig
	rng        *rand.Rand
	difficulty *config.DifficultyManager

	tick     int
	score    int
	caught   int
	missed   int
	terminal bool
	basket   core.Rect
	fruits   []fruit
	bombs    []bomb
	gravity  float64
	power    core.PowerUp
}

// NewGame validates cfg and creates a game. Reset must run before Tick.
func NewGame(cfg config.CatcherConfig) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
	}, nil
}

// New creates a catcher environment wrapped in the episode controller.
func New(cfg config.CatcherConfig, opts ...episode.Option) (*episode.Env, error) {
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
			ActionKind:      core.ActionDiscrete,
			ActionCount:     ActionCount,
			ObservationSize: 2*g.cfg.Fruit.Count + 4,
			RewardBound:     g.cfg.Episode.RewardClip,
		},
	}
}

// Reset builds a fresh World State.
func (g *Game) Reset(rng *rand.Rand) {
	f, b := g.cfg.Field, g.cfg.Basket

	g.rng = rng
	g.tick = 0
	g.score = 0
	g.caught = 0
	g.missed = 0
	g.terminal = false
	g.gravity = g.cfg.Bomb.Gravity
	g.power = core.NewPowerUp(g.cfg.PowerUp.Cooldown, g.cfg.PowerUp.Duration)
	g.difficulty.Reset()

	g.basket = core.NewRect(f.Width/2-b.Width/2, f.Height-b.Height-f.Ground, b.Width, b.Height)

	g.bombs = g.bombs[:0]
	g.fruits = make([]fruit, g.cfg.Fruit.Count)
	for i := range g.fruits {
		g.fruits[i] = g.spawnFruit(g.cfg.Fruit.StartMinY, g.cfg.Fruit.StartMaxY,
			g.cfg.Fruit.StartMinSpeed, g.cfg.Fruit.StartMaxSpeed)
	}
}

// decode maps an action to an intent. Anything outside the discrete
// enumeration is a no-op.
func (g *Game) decode(a core.Action) core.Intent {
	if a.Kind != core.ActionDiscrete {
		return core.NoOp()
	}
	b := g.cfg.Basket
	switch a.Index {
	case ActionLeft:
		return core.Intent{Kind: core.IntentMove, DX: -b.SpeedX}
	case ActionRight:
		return core.Intent{Kind: core.IntentMove, DX: b.SpeedX}
	case ActionUp:
		return core.Intent{Kind: core.IntentMove, DY: -b.SpeedY}
	case ActionDown:
		return core.Intent{Kind: core.IntentMove, DY: b.SpeedY}
	case ActionPowerUp:
		return core.Intent{Kind: core.IntentActivate}
	default:
		return core.NoOp()
	}
}

// Tick runs one step of the pipeline: intent, physics, collisions, reward.
func (g *Game) Tick(a core.Action) episode.Outcome {
	var ev events
	intent := g.decode(a)

	switch intent.Kind {
	case core.IntentMove:
		g.basket.X += intent.DX
		g.basket.Y += intent.DY
		ev.moved = true
	case core.IntentActivate:
		if g.power.Activate(g.tick) {
			g.slowDown()
		}
	}
	g.clampBasket()

	if g.power.Expire(g.tick) {
		g.speedUp()
	}

	g.updateBombs(&ev)
	g.updateFruits(&ev)

	if g.difficulty.Check(g.score) {
		g.scaleSpeeds(g.difficulty.Multiplier())
	}

	g.tick++
	return episode.Outcome{
		Reward:     g.shape(ev),
		Terminated: g.terminal,
	}
}

func (g *Game) clampBasket() {
	f, b := g.cfg.Field, g.cfg.Basket
	g.basket.X = core.ClampF(g.basket.X, 0, f.Width-b.Width)
	g.basket.Y = core.ClampF(g.basket.Y, f.Height-b.MaxRise, f.Height-b.Height-f.Ground)
}

// slowDown applies the power-up. speedUp is its exact inverse.
func (g *Game) slowDown() {
	g.gravity = g.cfg.Bomb.Gravity / g.cfg.PowerUp.GravitySlowdown
	for i := range g.fruits {
		g.fruits[i].Speed /= g.cfg.PowerUp.Slowdown
	}
	for i := range g.bombs {
		g.bombs[i].VY /= g.cfg.PowerUp.Slowdown
	}
}

func (g *Game) speedUp() {
	g.gravity = g.cfg.Bomb.Gravity
	g.scaleSpeeds(g.cfg.PowerUp.Slowdown)
}

func (g *Game) scaleSpeeds(k float64) {
	for i := range g.fruits {
		g.fruits[i].Speed *= k
	}
	for i := range g.bombs {
		g.bombs[i].VY *= k
	}
}
