package config

// DifficultyManager tracks the one-shot speed ramp of an episode.
type DifficultyManager struct {
	cfg    DifficultyConfig
	ramped bool
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg}
}

// IsEnabled returns whether the ramp can fire.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Multiplier > 0
}

// Reset re-arms the ramp for a new episode.
func (d *DifficultyManager) Reset() {
	d.ramped = false
}

// Ramped reports whether the ramp fired this episode.
func (d *DifficultyManager) Ramped() bool {
	return d.ramped
}

// Check returns true exactly once, on the first call where score has
// reached the threshold.
func (d *DifficultyManager) Check(score int) bool {
	if d.ramped || !d.IsEnabled() || score < d.cfg.Threshold {
		return false
	}
	d.ramped = true
	return true
}

// Multiplier returns the configured speed multiplier.
func (d *DifficultyManager) Multiplier() float64 {
	return d.cfg.Multiplier
}

// Speed returns base scaled by the multiplier once the ramp has fired.
func (d *DifficultyManager) Speed(base float64) float64 {
	if !d.ramped {
		return base
	}
	return base * d.cfg.Multiplier
}
