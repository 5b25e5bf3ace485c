// Package snake implements grid snake: the head advances one cell per tick,
// food makes the body grow, and walls or the body itself end the episode.
package snake

import (
	"math/rand"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/episode"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

const (
	ID    = "snake"
	Title = "Snake"
)

// Discrete actions map onto core.Direction values.
const (
	ActionUp    = int(core.DirUp)
	ActionDown  = int(core.DirDown)
	ActionLeft  = int(core.DirLeft)
	ActionRight = int(core.DirRight)
	ActionCount = 4
)

// ObservationSize is the length of the observation vector.
const ObservationSize = 15

func init() {
	registry.Register(ID, Title, func(opts registry.Options) (core.Env, error) {
		cfg, err := config.LoadSnake(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		opts.Overrides.Apply(&cfg.Episode)
		return New(cfg, episode.WithLogger(opts.Logger))
	})
}

// Point is a grid cell.
type Point struct {
	X, Y int
}

// Game is the snake World State and tick pipeline.
type Game struct {
	cfg config.SnakeConfig
	rng *rand.Rand

	tick           int
	score          int
	snake          []Point // Head at index 0
	direction      core.Direction
	food           Point
	stepsSinceFood int
	prevDistance   int
	terminal       bool
}

// NewGame validates cfg and creates a game. Reset must run before Tick.
func NewGame(cfg config.SnakeConfig) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Game{cfg: cfg}, nil
}

// New creates a snake environment wrapped in the episode controller.
func New(cfg config.SnakeConfig, opts ...episode.Option) (*episode.Env, error) {
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
			ObservationSize: ObservationSize,
			RewardBound:     g.cfg.Episode.RewardClip,
		},
	}
}

// Reset places a fresh snake heading right with its body extending left.
func (g *Game) Reset(rng *rand.Rand) {
	grid := g.cfg.Grid
	length := grid.StartLength

	g.rng = rng
	g.tick = 0
	g.score = 0
	g.stepsSinceFood = 0
	g.terminal = false
	g.direction = core.DirRight

	head := Point{
		X: core.Clamp(grid.StartX, length-1, grid.Width-1),
		Y: core.Clamp(grid.StartY, 0, grid.Height-1),
	}
	g.snake = make([]Point, length)
	for i := range g.snake {
		g.snake[i] = Point{X: head.X - i, Y: head.Y}
	}

	g.spawnFood()
	g.prevDistance = g.distanceToFood()
}

// decode maps an action to a turn. Reversals and unknown actions keep the
// current heading.
func (g *Game) decode(a core.Action) core.Intent {
	if a.Kind != core.ActionDiscrete || a.Index < 0 || a.Index >= ActionCount {
		return core.NoOp()
	}
	dir := core.Direction(a.Index)
	if dir == g.direction.Opposite() {
		return core.NoOp()
	}
	return core.Intent{Kind: core.IntentTurn, Dir: dir}
}

// Tick moves the snake one cell, then resolves food and collisions.
func (g *Game) Tick(a core.Action) episode.Outcome {
	g.tick++
	g.stepsSinceFood++

	if intent := g.decode(a); intent.Kind == core.IntentTurn {
		g.direction = intent.Dir
	}

	dx, dy := g.direction.Delta()
	head := Point{X: g.snake[0].X + dx, Y: g.snake[0].Y + dy}
	g.snake = append(g.snake, Point{})
	copy(g.snake[1:], g.snake)
	g.snake[0] = head

	ate := head == g.food
	if ate {
		g.score++
		g.stepsSinceFood = 0
		g.spawnFood()
	} else {
		g.snake = g.snake[:len(g.snake)-1]
	}

	g.terminal = g.collides()

	starving := g.cfg.StarvationFactor > 0 && g.stepsSinceFood > g.cfg.StarvationFactor*len(g.snake)
	return episode.Outcome{
		Reward:     g.shape(ate),
		Terminated: g.terminal,
		Truncated:  starving,
	}
}
