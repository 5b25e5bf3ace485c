// Package remote exposes environments over websocket so that training
// drivers in other processes can call reset and step.
//
// Each connection to /v1/env/{id} owns one environment instance. Clients send
// JSON requests and receive exactly one response per request:
//
//	{"op":"spec"}
//	{"op":"reset","seed":42}
//	{"op":"step","action":{"index":3}}
//	{"op":"step","action":{"vector":[0.25,0.8]}}
//	{"op":"close"}
package remote

import (
	"errors"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

// ErrEmptyAction is returned for an action with neither index nor vector.
var ErrEmptyAction = errors.New("remote: action needs index or vector")

// Operations.
const (
	OpSpec  = "spec"
	OpReset = "reset"
	OpStep  = "step"
	OpClose = "close"
	OpError = "error"
)

// Request is a client message.
type Request struct {
	Op     string         `json:"op"`
	Seed   *int64         `json:"seed,omitempty"`
	Action *ActionPayload `json:"action,omitempty"`
}

// ActionPayload carries either a discrete index or a continuous vector.
// A non-empty Vector selects the continuous encoding.
type ActionPayload struct {
	Index  *int      `json:"index,omitempty"`
	Vector []float64 `json:"vector,omitempty"`
}

// Action converts the payload to a core.Action.
func (p ActionPayload) Action() (core.Action, error) {
	switch {
	case len(p.Vector) > 0:
		return core.Continuous(p.Vector...), nil
	case p.Index != nil:
		return core.Discrete(*p.Index), nil
	}
	return core.Action{}, ErrEmptyAction
}

// SpecPayload describes the action and observation spaces.
type SpecPayload struct {
	EnvID           string  `json:"env_id"`
	Title           string  `json:"title"`
	ActionKind      string  `json:"action_kind"`
	ActionCount     int     `json:"action_count,omitempty"`
	ActionDims      int     `json:"action_dims,omitempty"`
	ObservationSize int     `json:"observation_size"`
	RewardBound     float64 `json:"reward_bound"`
}

// InfoPayload mirrors core.Info.
type InfoPayload struct {
	EpisodeID        string             `json:"episode_id"`
	Step             int                `json:"step"`
	Phase            string             `json:"phase"`
	Score            int                `json:"score"`
	Hits             int                `json:"hits"`
	Misses           int                `json:"misses"`
	Accuracy         float64            `json:"accuracy"`
	Length           int                `json:"length,omitempty"`
	StepsSinceFood   int                `json:"steps_since_food,omitempty"`
	DistanceToTarget float64            `json:"distance_to_target,omitempty"`
	PowerUpActive    bool               `json:"power_up_active,omitempty"`
	Ramped           bool               `json:"ramped,omitempty"`
	Breakdown        map[string]float64 `json:"breakdown"`
}

// Response is a server message.
type Response struct {
	Op          string       `json:"op"`
	Spec        *SpecPayload `json:"spec,omitempty"`
	Observation []float64    `json:"observation,omitempty"`
	Reward      float64      `json:"reward"`
	Terminated  bool         `json:"terminated"`
	Truncated   bool         `json:"truncated"`
	Info        *InfoPayload `json:"info,omitempty"`
	Error       string       `json:"error,omitempty"`
}

func specPayload(env core.Env) *SpecPayload {
	spec := env.Spec()
	return &SpecPayload{
		EnvID:           env.ID(),
		Title:           env.Title(),
		ActionKind:      spec.ActionKind.String(),
		ActionCount:     spec.ActionCount,
		ActionDims:      spec.ActionDims,
		ObservationSize: spec.ObservationSize,
		RewardBound:     spec.RewardBound,
	}
}

func infoPayload(info core.Info) *InfoPayload {
	return &InfoPayload{
		EpisodeID:        info.EpisodeID,
		Step:             info.Step,
		Phase:            info.Phase.String(),
		Score:            info.Score,
		Hits:             info.Hits,
		Misses:           info.Misses,
		Accuracy:         info.Accuracy(),
		Length:           info.Length,
		StepsSinceFood:   info.StepsSinceFood,
		DistanceToTarget: info.DistanceToTarget,
		PowerUpActive:    info.PowerUpActive,
		Ramped:           info.Ramped,
		Breakdown:        info.Breakdown.Map(),
	}
}
