package core

import "errors"

var (
	// ErrNotRunning is returned by Step when the episode is not in PhaseRunning.
	// The caller must Reset first; simulation state is left unchanged.
	ErrNotRunning = errors.New("env: step called while episode is not running")

	// ErrClosed is returned by Reset and Step after Close.
	ErrClosed = errors.New("env: environment is closed")
)

// Phase is the episode state machine position.
type Phase int

const (
	PhaseReady      Phase = iota // Constructed, never reset
	PhaseRunning                 // Accepting steps
	PhaseTerminated              // Ended by an in-simulation failure
	PhaseTruncated               // Ended by the step budget
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseRunning:
		return "running"
	case PhaseTerminated:
		return "terminated"
	case PhaseTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// Done reports whether the phase ends the episode.
func (p Phase) Done() bool {
	return p == PhaseTerminated || p == PhaseTruncated
}

// Stats are the variant-reported counters surfaced in Info.
type Stats struct {
	Score            int
	Hits             int
	Misses           int
	Length           int // Snake body length
	Fruits           int
	Bombs            int
	StepsSinceFood   int
	DistanceToTarget float64
	PowerUpActive    bool
	Ramped           bool // Difficulty ramp has fired this episode
}

// Accuracy returns hits / (hits + misses), or 0 before any attempt.
func (s Stats) Accuracy() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Info is the fixed-schema diagnostics record returned by Reset and Step.
// It is informational only and never feeds back into the simulation.
type Info struct {
	EpisodeID string
	Step      int
	Phase     Phase
	Stats
	Breakdown Breakdown // Cumulative for the episode
}

// StepResult is returned by Env.Step after each simulation tick.
type StepResult struct {
	Observation []float64
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        Info
}

// Done reports whether the episode ended on this step.
func (r StepResult) Done() bool {
	return r.Terminated || r.Truncated
}

// Env is the capability interface every environment implements.
// Implementations are single-threaded: Reset and Step run to completion
// and must not be called concurrently on the same instance.
type Env interface {
	// ID returns a unique identifier (e.g., "snake"), used by the CLI and storage.
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Spec describes the action and observation spaces.
	Spec() Spec

	// Reset discards the World State and starts a new episode.
	// A non-nil seed reseeds the RNG stream.
	Reset(seed *int64) ([]float64, Info, error)

	// Step advances the simulation by one tick.
	Step(a Action) (StepResult, error)

	// Render draws the current state into dst. It never mutates the
	// simulation and is a no-op when rendering is disabled.
	Render(dst *Screen)

	// Phase returns the current state machine phase.
	Phase() Phase

	// Close releases rendering resources. Safe to call more than once.
	Close() error
}

// Seed is a helper for building the optional seed argument to Reset.
func Seed(s int64) *int64 {
	return &s
}
