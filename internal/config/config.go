// Package config provides YAML-based environment configuration loading,
// validation and difficulty settings for the arcade environments.
package config

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidConfig is wrapped by every validation failure.
// Invalid configuration is fatal to the instance being constructed.
var ErrInvalidConfig = errors.New("config: invalid configuration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// EpisodeConfig holds the options every environment recognizes.
type EpisodeConfig struct {
	RewardMode string  `yaml:"reward_mode"`
	MaxSteps   int     `yaml:"max_steps"`
	Seed       int64   `yaml:"seed"`
	Render     bool    `yaml:"render"`
	RewardClip float64 `yaml:"reward_clip"` // Symmetric bound applied after summing
	TickRate   int     `yaml:"tick_rate"`   // Ticks per simulated second
}

func (e EpisodeConfig) validate(modes []string) error {
	if !slices.Contains(modes, e.RewardMode) {
		return invalid("unknown reward mode %q (want one of %v)", e.RewardMode, modes)
	}
	if e.MaxSteps < 0 {
		return invalid("max_steps must be >= 0, got %d", e.MaxSteps)
	}
	if e.RewardClip <= 0 {
		return invalid("reward_clip must be > 0, got %v", e.RewardClip)
	}
	if e.TickRate <= 0 {
		return invalid("tick_rate must be > 0, got %d", e.TickRate)
	}
	return nil
}

// DifficultyConfig describes the one-shot difficulty ramp.
// When score first reaches Threshold, hazard and target speeds are
// multiplied by Multiplier. It never fires twice in one episode.
type DifficultyConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Threshold  int     `yaml:"threshold"`
	Multiplier float64 `yaml:"multiplier"`
}

func (d DifficultyConfig) validate() error {
	if !d.Enabled {
		return nil
	}
	if d.Threshold <= 0 {
		return invalid("difficulty.threshold must be > 0, got %d", d.Threshold)
	}
	if d.Multiplier <= 0 {
		return invalid("difficulty.multiplier must be > 0, got %v", d.Multiplier)
	}
	return nil
}

// Catcher reward personas.
const (
	PersonaSurvivor  = "survivor"
	PersonaCollector = "collector"
	PersonaNeutral   = "neutral"
)

// CatcherModes lists the recognized catcher reward modes.
var CatcherModes = []string{PersonaSurvivor, PersonaCollector, PersonaNeutral}

// CatcherConfig contains all configuration for the catcher environment.
type CatcherConfig struct {
	Episode    EpisodeConfig    `yaml:"episode"`
	Field      CatcherField     `yaml:"field"`
	Basket     CatcherBasket    `yaml:"basket"`
	Fruit      CatcherFruit     `yaml:"fruit"`
	Bomb       CatcherBomb      `yaml:"bomb"`
	PowerUp    CatcherPowerUp   `yaml:"powerup"`
	Rewards    CatcherRewards   `yaml:"rewards"`
	Difficulty DifficultyConfig `yaml:"difficulty"`

	// LegacyCatchScope checks catches against the last fruit only,
	// reproducing the behavior of the original training environment.
	LegacyCatchScope bool `yaml:"legacy_catch_scope"`
}

// CatcherField defines the playfield.
type CatcherField struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Ground float64 `yaml:"ground"` // Height of the ground strip
}

// CatcherBasket defines the agent paddle.
type CatcherBasket struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	SpeedX    float64 `yaml:"speed_x"`
	SpeedY    float64 `yaml:"speed_y"`
	MaxRise   float64 `yaml:"max_rise"`   // Highest allowed position, measured from the bottom
	RegionTop float64 `yaml:"region_top"` // Shaping penalty above this, measured from the bottom
}

// CatcherFruit defines falling targets.
type CatcherFruit struct {
	Count         int     `yaml:"count"`
	Size          float64 `yaml:"size"`
	MinSpeed      float64 `yaml:"min_speed"`
	MaxSpeed      float64 `yaml:"max_speed"`
	StartMinSpeed float64 `yaml:"start_min_speed"`
	StartMaxSpeed float64 `yaml:"start_max_speed"`
	SpawnMinY     float64 `yaml:"spawn_min_y"`
	SpawnMaxY     float64 `yaml:"spawn_max_y"`
	StartMinY     float64 `yaml:"start_min_y"`
	StartMaxY     float64 `yaml:"start_max_y"`
}

// CatcherBomb defines falling hazards.
type CatcherBomb struct {
	Size        float64 `yaml:"size"`
	MaxActive   int     `yaml:"max_active"`
	SpawnChance float64 `yaml:"spawn_chance"`
	MinSpeed    float64 `yaml:"min_speed"`
	MaxSpeed    float64 `yaml:"max_speed"`
	Gravity     float64 `yaml:"gravity"` // Base gravity; bombs accelerate by Gravity/3 per tick
}

// CatcherPowerUp defines the slow-down window, in ticks.
type CatcherPowerUp struct {
	Cooldown        int     `yaml:"cooldown"`
	Duration        int     `yaml:"duration"`
	Slowdown        float64 `yaml:"slowdown"`         // Speed divisor while active
	GravitySlowdown float64 `yaml:"gravity_slowdown"` // Gravity divisor while active
}

// CatcherRewards defines reward magnitudes.
type CatcherRewards struct {
	Catch          float64 `yaml:"catch"`
	Miss           float64 `yaml:"miss"`
	Bomb           float64 `yaml:"bomb"`
	Alignment      float64 `yaml:"alignment"`
	Movement       float64 `yaml:"movement"`
	Region         float64 `yaml:"region"`
	Survival       float64 `yaml:"survival"`
	AliveBonus     float64 `yaml:"alive_bonus"`
	BombProximity  float64 `yaml:"bomb_proximity"`
	BombRadius     float64 `yaml:"bomb_radius"`
	SurvivorAlive  float64 `yaml:"survivor_alive"`
	SurvivorDeath  float64 `yaml:"survivor_death"`
	CollectorScale float64 `yaml:"collector_scale"`
}

// Validate checks the catcher configuration.
func (c CatcherConfig) Validate() error {
	if err := c.Episode.validate(CatcherModes); err != nil {
		return err
	}
	if err := c.Difficulty.validate(); err != nil {
		return err
	}
	f, b := c.Field, c.Basket
	if f.Width <= 0 || f.Height <= 0 {
		return invalid("field must have positive dimensions, got %vx%v", f.Width, f.Height)
	}
	if f.Ground < 0 || f.Ground >= f.Height {
		return invalid("field.ground must be in [0, height), got %v", f.Ground)
	}
	if b.Width <= 0 || b.Height <= 0 || b.Width > f.Width {
		return invalid("basket %vx%v does not fit a %v wide field", b.Width, b.Height, f.Width)
	}
	if b.MaxRise < b.Height+f.Ground || b.MaxRise > f.Height {
		return invalid("basket.max_rise must be in [basket.height+ground, field.height], got %v", b.MaxRise)
	}
	if c.Fruit.Count < 1 {
		return invalid("fruit.count must be >= 1, got %d", c.Fruit.Count)
	}
	if c.Fruit.Size <= 0 || c.Fruit.Size > f.Width || c.Bomb.Size <= 0 || c.Bomb.Size > f.Width {
		return invalid("fruit and bomb sizes must be in (0, field.width]")
	}
	if c.Fruit.MinSpeed > c.Fruit.MaxSpeed || c.Fruit.StartMinSpeed > c.Fruit.StartMaxSpeed {
		return invalid("fruit speed ranges are inverted")
	}
	if c.Fruit.SpawnMinY > c.Fruit.SpawnMaxY || c.Fruit.StartMinY > c.Fruit.StartMaxY {
		return invalid("fruit spawn ranges are inverted")
	}
	if c.Fruit.SpawnMaxY+c.Fruit.Size > 0 || c.Fruit.StartMaxY+c.Fruit.Size > 0 {
		return invalid("fruit must spawn fully above the playfield")
	}
	if c.Bomb.MinSpeed > c.Bomb.MaxSpeed {
		return invalid("bomb speed range is inverted")
	}
	if c.Bomb.SpawnChance < 0 || c.Bomb.SpawnChance > 1 {
		return invalid("bomb.spawn_chance must be in [0, 1], got %v", c.Bomb.SpawnChance)
	}
	if c.PowerUp.Cooldown < 0 || c.PowerUp.Duration < 0 || c.PowerUp.Slowdown < 1 || c.PowerUp.GravitySlowdown < 1 {
		return invalid("powerup requires cooldown, duration >= 0 and slowdowns >= 1")
	}
	return nil
}

// Snake reward modes.
const (
	SnakeModeSurvival = "survival"
	SnakeModeLength   = "length"
)

// SnakeModes lists the recognized snake reward modes.
var SnakeModes = []string{SnakeModeSurvival, SnakeModeLength}

// SnakeConfig contains all configuration for the snake environment.
type SnakeConfig struct {
	Episode EpisodeConfig `yaml:"episode"`
	Grid    SnakeGrid     `yaml:"grid"`
	Rewards SnakeRewards  `yaml:"rewards"`

	// StarvationFactor truncates the episode once steps since the last
	// food exceed factor × body length. Zero disables the rule.
	StarvationFactor int `yaml:"starvation_factor"`
}

// SnakeGrid defines the board in cells.
type SnakeGrid struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	StartX      int `yaml:"start_x"`
	StartY      int `yaml:"start_y"`
	StartLength int `yaml:"start_length"`
}

// SnakeRewards defines reward magnitudes.
type SnakeRewards struct {
	Food     float64 `yaml:"food"`
	Death    float64 `yaml:"death"`
	Closer   float64 `yaml:"closer"`
	Farther  float64 `yaml:"farther"`
	Survival float64 `yaml:"survival"`
}

// Validate checks the snake configuration.
func (c SnakeConfig) Validate() error {
	if err := c.Episode.validate(SnakeModes); err != nil {
		return err
	}
	g := c.Grid
	if g.Width < 3 || g.Height < 3 {
		return invalid("grid must be at least 3x3, got %dx%d", g.Width, g.Height)
	}
	if g.StartLength < 1 || g.StartLength > g.Width {
		return invalid("grid.start_length must be in [1, width], got %d", g.StartLength)
	}
	if c.StarvationFactor < 0 {
		return invalid("starvation_factor must be >= 0, got %d", c.StarvationFactor)
	}
	return nil
}

// Aim trainer reward modes.
const (
	AimModeSurvival = "survival"
	AimModeAccuracy = "accuracy"
)

// AimModes lists the recognized aim trainer reward modes.
var AimModes = []string{AimModeSurvival, AimModeAccuracy}

// AimConfig contains all configuration for the aim trainer environment.
type AimConfig struct {
	Episode EpisodeConfig `yaml:"episode"`
	Field   AimField      `yaml:"field"`
	Target  AimTarget     `yaml:"target"`
	Rewards AimRewards    `yaml:"rewards"`
}

// AimField defines the playfield.
type AimField struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Margin float64 `yaml:"margin"` // Targets spawn at least this far from the edges
}

// AimTarget defines target sizing.
type AimTarget struct {
	MinRadius        int     `yaml:"min_radius"`
	MaxInitialRadius int     `yaml:"max_initial_radius"`
	MaxRadius        float64 `yaml:"max_radius"`
	Growth           float64 `yaml:"growth"` // Radius added on every miss
}

// AimRewards defines reward magnitudes.
type AimRewards struct {
	HitBase        float64 `yaml:"hit_base"`
	HitAccuracy    float64 `yaml:"hit_accuracy"`
	HitSize        float64 `yaml:"hit_size"`
	MissBase       float64 `yaml:"miss_base"`
	MissDistance   float64 `yaml:"miss_distance"`
	Death          float64 `yaml:"death"`
	Survival       float64 `yaml:"survival"`
	SurvivalScale  float64 `yaml:"survival_scale"`
	Proximity      float64 `yaml:"proximity"`
	ProximityScale float64 `yaml:"proximity_scale"`
}

// Validate checks the aim trainer configuration.
func (c AimConfig) Validate() error {
	if err := c.Episode.validate(AimModes); err != nil {
		return err
	}
	f, t := c.Field, c.Target
	if f.Width <= 0 || f.Height <= 0 {
		return invalid("field must have positive dimensions, got %vx%v", f.Width, f.Height)
	}
	if f.Margin < 0 || 2*f.Margin >= f.Width || 2*f.Margin >= f.Height {
		return invalid("field.margin %v leaves no spawn area in %vx%v", f.Margin, f.Width, f.Height)
	}
	if t.MinRadius < 1 || t.MaxInitialRadius < t.MinRadius {
		return invalid("target radius range [%d, %d] is invalid", t.MinRadius, t.MaxInitialRadius)
	}
	if t.MaxRadius <= float64(t.MaxInitialRadius) {
		return invalid("target.max_radius must exceed max_initial_radius")
	}
	if t.Growth < 0 {
		return invalid("target.growth must be >= 0, got %v", t.Growth)
	}
	return nil
}
