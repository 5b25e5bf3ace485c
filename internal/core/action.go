package core

import "fmt"

// ActionKind distinguishes the two action encodings an environment accepts.
type ActionKind int

const (
	ActionDiscrete   ActionKind = iota // Index into a small fixed enumeration
	ActionContinuous                   // Vector with each axis normalized to [0, 1]
)

// String returns a human-readable name for the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionDiscrete:
		return "discrete"
	case ActionContinuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// Action is the externally supplied input for one tick.
// Exactly one of Index or Vector is meaningful, selected by Kind.
type Action struct {
	Kind   ActionKind
	Index  int
	Vector []float64
}

// Discrete creates a discrete action.
func Discrete(index int) Action {
	return Action{Kind: ActionDiscrete, Index: index}
}

// Continuous creates a continuous action from normalized axis values.
func Continuous(values ...float64) Action {
	v := make([]float64, len(values))
	copy(v, values)
	return Action{Kind: ActionContinuous, Vector: v}
}

// Axis returns the i-th continuous component clipped to [0, 1].
// Missing components read as 0.
func (a Action) Axis(i int) float64 {
	if i < 0 || i >= len(a.Vector) {
		return 0
	}
	return ClampF(Finite(a.Vector[i]), 0, 1)
}

func (a Action) String() string {
	if a.Kind == ActionContinuous {
		return fmt.Sprintf("continuous%v", a.Vector)
	}
	return fmt.Sprintf("discrete(%d)", a.Index)
}

// Direction is a grid heading.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// Delta returns the unit cell offset for the heading.
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// IntentKind enumerates what a decoded action asks the simulation to do.
type IntentKind int

const (
	IntentNoOp IntentKind = iota
	IntentMove
	IntentSetCursor
	IntentTurn
	IntentActivate
)

// Intent is the decoded form of an Action, independent of encoding.
type Intent struct {
	Kind   IntentKind
	DX, DY float64   // IntentMove
	X, Y   float64   // IntentSetCursor, playfield units
	Dir    Direction // IntentTurn
}

// NoOp is the intent produced for invalid or idle actions.
func NoOp() Intent {
	return Intent{Kind: IntentNoOp}
}

// Spec describes the action and observation spaces of an environment.
type Spec struct {
	ActionKind      ActionKind
	ActionCount     int // Number of discrete actions (discrete spaces)
	ActionDims      int // Vector length (continuous spaces)
	ObservationSize int
	RewardBound     float64 // Rewards lie in [-RewardBound, RewardBound]
}

// SampleAction draws a uniformly random valid action from the spec.
func (s Spec) SampleAction(intn func(int) int, float func() float64) Action {
	if s.ActionKind == ActionContinuous {
		v := make([]float64, s.ActionDims)
		for i := range v {
			v[i] = float()
		}
		return Action{Kind: ActionContinuous, Vector: v}
	}
	if s.ActionCount <= 0 {
		return Discrete(0)
	}
	return Discrete(intn(s.ActionCount))
}
