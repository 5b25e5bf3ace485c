package core

// Component names one additive term of the per-tick reward.
type Component int

const (
	CompHit       Component = iota // Catch/hit event bonus
	CompMiss                       // Miss event penalty
	CompTerminal                   // One-off penalty when the episode terminates
	CompProximity                  // Alignment or closeness to the target
	CompMovement                   // Cost of moving
	CompRegion                     // Leaving the permitted region
	CompSurvival                   // Per-tick bonus for staying alive
	CompHazard                     // Nearness to a hazard
	CompPersona                    // Reward-mode weighting term
	componentCount
)

var componentNames = [componentCount]string{
	"hit", "miss", "terminal", "proximity", "movement",
	"region", "survival", "hazard", "persona",
}

func (c Component) String() string {
	if c < 0 || c >= componentCount {
		return "unknown"
	}
	return componentNames[c]
}

// Components lists every component in schema order.
func Components() []Component {
	out := make([]Component, componentCount)
	for i := range out {
		out[i] = Component(i)
	}
	return out
}

// Breakdown holds one value per reward component.
// It is a value type: copying it copies the totals.
type Breakdown [componentCount]float64

// Add accumulates v into component c. Non-finite values are dropped.
func (b *Breakdown) Add(c Component, v float64) {
	if c < 0 || c >= componentCount {
		return
	}
	b[c] += Finite(v)
}

// Get returns the accumulated value of c.
func (b Breakdown) Get(c Component) float64 {
	if c < 0 || c >= componentCount {
		return 0
	}
	return b[c]
}

// Total returns the unclipped sum of all components.
func (b Breakdown) Total() float64 {
	var sum float64
	for _, v := range b {
		sum += v
	}
	return sum
}

// Merge adds every component of other into b.
func (b *Breakdown) Merge(other Breakdown) {
	for i, v := range other {
		b[i] += v
	}
}

// Map returns the breakdown keyed by component name, for logging and JSON.
func (b Breakdown) Map() map[string]float64 {
	m := make(map[string]float64, componentCount)
	for i, v := range b {
		m[componentNames[i]] = v
	}
	return m
}

// ClipReward clips a summed reward to [-bound, bound].
// A non-positive bound disables clipping.
func ClipReward(r, bound float64) float64 {
	r = Finite(r)
	if bound <= 0 {
		return r
	}
	return ClampF(r, -bound, bound)
}
