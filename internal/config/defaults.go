package config

import (
	_ "embed"
)

//go:embed defaults/catcher.yaml
var defaultCatcherYAML []byte

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

//go:embed defaults/aim.yaml
var defaultAimYAML []byte

// DefaultCatcherConfig returns the default catcher configuration.
// Values mirror defaults/catcher.yaml.
func DefaultCatcherConfig() CatcherConfig {
	return CatcherConfig{
		Episode: EpisodeConfig{
			RewardMode: PersonaSurvivor,
			MaxSteps:   10000,
			RewardClip: 30,
			TickRate:   60,
		},
		Field: CatcherField{Width: 800, Height: 600, Ground: 40},
		Basket: CatcherBasket{
			Width:     100,
			Height:    50,
			SpeedX:    10,
			SpeedY:    8,
			MaxRise:   200,
			RegionTop: 250,
		},
		Fruit: CatcherFruit{
			Count:         2,
			Size:          50,
			MinSpeed:      2.0,
			MaxSpeed:      3.5,
			StartMinSpeed: 2.5,
			StartMaxSpeed: 3.5,
			SpawnMinY:     -300,
			SpawnMaxY:     -50,
			StartMinY:     -250,
			StartMaxY:     -100,
		},
		Bomb: CatcherBomb{
			Size:        40,
			MaxActive:   2,
			SpawnChance: 0.002,
			MinSpeed:    1.5,
			MaxSpeed:    3.0,
			Gravity:     0.10,
		},
		PowerUp: CatcherPowerUp{
			Cooldown:        480, // 8s at 60 ticks/s
			Duration:        180, // 3s
			Slowdown:        2,
			GravitySlowdown: 3,
		},
		Rewards: CatcherRewards{
			Catch:          25,
			Miss:           -3,
			Bomb:           -10,
			Alignment:      0.5,
			Movement:       -0.02,
			Region:         -2,
			Survival:       0.1,
			AliveBonus:     0.1,
			BombProximity:  -0.5,
			BombRadius:     100,
			SurvivorAlive:  0.2,
			SurvivorDeath:  -5,
			CollectorScale: 0.5,
		},
		Difficulty: DifficultyConfig{
			Enabled:    true,
			Threshold:  10,
			Multiplier: 1.3,
		},
	}
}

// DefaultSnakeConfig returns the default snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Episode: EpisodeConfig{
			RewardMode: SnakeModeSurvival,
			MaxSteps:   5000,
			RewardClip: 10,
			TickRate:   30,
		},
		Grid: SnakeGrid{
			Width:       72,
			Height:      48,
			StartX:      10,
			StartY:      5,
			StartLength: 3,
		},
		Rewards: SnakeRewards{
			Food:     10,
			Death:    -10,
			Closer:   0.1,
			Farther:  -0.15,
			Survival: 0.01,
		},
		StarvationFactor: 100,
	}
}

// DefaultAimConfig returns the default aim trainer configuration.
func DefaultAimConfig() AimConfig {
	return AimConfig{
		Episode: EpisodeConfig{
			RewardMode: AimModeSurvival,
			MaxSteps:   5000,
			RewardClip: 5,
			TickRate:   60,
		},
		Field: AimField{Width: 1280, Height: 720, Margin: 100},
		Target: AimTarget{
			MinRadius:        5,
			MaxInitialRadius: 30,
			MaxRadius:        150,
			Growth:           0.10,
		},
		Rewards: AimRewards{
			HitBase:        2.0,
			HitAccuracy:    1.0,
			HitSize:        1.5,
			MissBase:       -0.2,
			MissDistance:   0.5,
			Death:          -3.0,
			Survival:       0.01,
			SurvivalScale:  5,
			Proximity:      0.05,
			ProximityScale: 2.5,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for an environment.
func GetDefaultYAML(envID string) []byte {
	switch envID {
	case "catcher":
		return defaultCatcherYAML
	case "snake":
		return defaultSnakeYAML
	case "aim":
		return defaultAimYAML
	default:
		return nil
	}
}
