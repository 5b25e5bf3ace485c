// Package eval runs batches of episodes against an environment with a fixed
// policy and aggregates the results.
package eval

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/envs/aim"
	"github.com/vovakirdan/arcade-gym/internal/envs/catcher"
	"github.com/vovakirdan/arcade-gym/internal/envs/snake"
)

// Policy names accepted by NewPolicy.
const (
	PolicyRandom    = "random"
	PolicyHeuristic = "heuristic"
)

// ErrUnknownPolicy is returned for a policy name or env without a policy.
var ErrUnknownPolicy = errors.New("eval: unknown policy")

// Policy picks the next action from an observation.
// A Policy is owned by a single worker and is not safe for concurrent use.
type Policy interface {
	Name() string
	Act(obs []float64) core.Action
}

// Policies returns the names accepted by NewPolicy.
func Policies() []string {
	return []string{PolicyRandom, PolicyHeuristic}
}

// NewPolicy builds a policy for the given environment. The seed only
// affects stochastic policies.
func NewPolicy(name, envID string, spec core.Spec, seed int64) (Policy, error) {
	switch name {
	case PolicyRandom:
		return &randomPolicy{spec: spec, rng: rand.New(rand.NewSource(seed))}, nil
	case PolicyHeuristic:
		switch envID {
		case catcher.ID:
			return catcherPolicy{}, nil
		case snake.ID:
			return snakePolicy{}, nil
		case aim.ID:
			return aimPolicy{}, nil
		}
		return nil, fmt.Errorf("%w: no heuristic for env %q", ErrUnknownPolicy, envID)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

type randomPolicy struct {
	spec core.Spec
	rng  *rand.Rand
}

func (p *randomPolicy) Name() string { return PolicyRandom }

func (p *randomPolicy) Act([]float64) core.Action {
	return p.spec.SampleAction(p.rng.Intn, p.rng.Float64)
}

// Basket and fruit widths relative to the default 800px field, used to line
// up centers from left-edge observations.
const (
	catcherCenterOffset = 0.03
	catcherDeadband     = 0.0125
)

// catcherPolicy slides under the lowest fruit and fires the power-up when it
// is ready and the basket is far behind.
type catcherPolicy struct{}

func (catcherPolicy) Name() string { return PolicyHeuristic }

func (catcherPolicy) Act(obs []float64) core.Action {
	n := (len(obs) - 4) / 2
	if n <= 0 {
		return core.Discrete(catcher.ActionStay)
	}
	basketX := obs[2*n]
	cooldown, active := obs[2*n+2], obs[2*n+3]

	lowest := 0
	for i := 1; i < n; i++ {
		if obs[2*i+1] > obs[2*lowest+1] {
			lowest = i
		}
	}
	dx := obs[2*lowest] - catcherCenterOffset - basketX

	if cooldown >= 1 && active == 0 && (dx > 0.25 || dx < -0.25) {
		return core.Discrete(catcher.ActionPowerUp)
	}
	switch {
	case dx > catcherDeadband:
		return core.Discrete(catcher.ActionRight)
	case dx < -catcherDeadband:
		return core.Discrete(catcher.ActionLeft)
	default:
		return core.Discrete(catcher.ActionStay)
	}
}

// snakePolicy heads greedily toward the food, skipping blocked cells and
// reversals.
type snakePolicy struct{}

func (snakePolicy) Name() string { return PolicyHeuristic }

func (snakePolicy) Act(obs []float64) core.Action {
	if len(obs) < snake.ObservationSize {
		return core.Discrete(int(core.DirRight))
	}
	dx, dy := obs[4]-0.5, obs[5]-0.5

	heading := core.DirRight
	for i := range 4 {
		if obs[11+i] == 1 {
			heading = core.Direction(i)
		}
	}

	var prefer []core.Direction
	if dx > 0 {
		prefer = append(prefer, core.DirRight)
	} else if dx < 0 {
		prefer = append(prefer, core.DirLeft)
	}
	if dy > 0 {
		prefer = append(prefer, core.DirDown)
	} else if dy < 0 {
		prefer = append(prefer, core.DirUp)
	}
	prefer = append(prefer, heading, core.DirUp, core.DirRight, core.DirDown, core.DirLeft)

	for _, d := range prefer {
		if d == heading.Opposite() || obs[6+int(d)] == 1 {
			continue
		}
		return core.Discrete(int(d))
	}
	return core.Discrete(int(heading))
}

// aimPolicy clicks the target center.
type aimPolicy struct{}

func (aimPolicy) Name() string { return PolicyHeuristic }

func (aimPolicy) Act(obs []float64) core.Action {
	if len(obs) < aim.ObservationSize {
		return core.Continuous(0.5, 0.5)
	}
	return core.Continuous(obs[2], obs[3])
}
