package core

// PowerUp is a tick-based activation window with a cooldown.
// Both counters derive from the single LastActivated tick, so the timer
// carries no state beyond it and the current tick supplied by the caller.
type PowerUp struct {
	Cooldown      int // Minimum ticks between activations
	Duration      int // Ticks the effect stays active
	LastActivated int // Tick of the last activation
	Active        bool
}

// NewPowerUp returns a timer that is ready to fire immediately.
func NewPowerUp(cooldown, duration int) PowerUp {
	return PowerUp{
		Cooldown:      cooldown,
		Duration:      duration,
		LastActivated: -cooldown,
	}
}

// Ready reports whether activation is legal at tick now.
func (p PowerUp) Ready(now int) bool {
	return !p.Active && now-p.LastActivated >= p.Cooldown
}

// Activate starts the window at tick now. Returns false if not ready.
func (p *PowerUp) Activate(now int) bool {
	if !p.Ready(now) {
		return false
	}
	p.Active = true
	p.LastActivated = now
	return true
}

// Expire ends the window once its duration has elapsed.
// Returns true exactly on the tick the effect ends.
func (p *PowerUp) Expire(now int) bool {
	if p.Active && now-p.LastActivated >= p.Duration {
		p.Active = false
		return true
	}
	return false
}

// CooldownProgress returns the elapsed fraction of the cooldown in [0, 1].
func (p PowerUp) CooldownProgress(now int) float64 {
	if p.Cooldown <= 0 {
		return 1
	}
	return Ratio(float64(now-p.LastActivated), float64(p.Cooldown))
}

// Remaining returns the ticks left until the cooldown has fully elapsed.
func (p PowerUp) Remaining(now int) int {
	r := p.Cooldown - (now - p.LastActivated)
	if r < 0 {
		return 0
	}
	return r
}
