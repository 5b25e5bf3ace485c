package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type validator interface {
	Validate() error
}

// LoadCatcher loads catcher configuration.
// Search order: customPath -> ~/.arcade/configs/catcher.yaml -> ./configs/catcher.yaml -> embedded default
func LoadCatcher(customPath string) (CatcherConfig, error) {
	return load("catcher", customPath, defaultCatcherYAML, DefaultCatcherConfig)
}

// LoadSnake loads snake configuration.
// Search order: customPath -> ~/.arcade/configs/snake.yaml -> ./configs/snake.yaml -> embedded default
func LoadSnake(customPath string) (SnakeConfig, error) {
	return load("snake", customPath, defaultSnakeYAML, DefaultSnakeConfig)
}

// LoadAim loads aim trainer configuration.
// Search order: customPath -> ~/.arcade/configs/aim.yaml -> ./configs/aim.yaml -> embedded default
func LoadAim(customPath string) (AimConfig, error) {
	return load("aim", customPath, defaultAimYAML, DefaultAimConfig)
}

// LoadEpisode returns only the episode block of an environment's configuration.
func LoadEpisode(envID, customPath string) (EpisodeConfig, error) {
	switch envID {
	case "catcher":
		cfg, err := LoadCatcher(customPath)
		return cfg.Episode, err
	case "snake":
		cfg, err := LoadSnake(customPath)
		return cfg.Episode, err
	case "aim":
		cfg, err := LoadAim(customPath)
		return cfg.Episode, err
	}
	return EpisodeConfig{}, fmt.Errorf("config: no configuration for env %q", envID)
}

// RewardModes lists the reward modes an environment accepts, default first.
func RewardModes(envID string) []string {
	switch envID {
	case "catcher":
		return CatcherModes
	case "snake":
		return SnakeModes
	case "aim":
		return AimModes
	}
	return nil
}

// load decodes YAML on top of the hard-coded defaults, so a file only needs
// to mention the keys it changes. The result is always validated.
func load[T validator](envID, customPath string, embedded []byte, defaults func() T) (T, error) {
	// Try custom path first; a missing explicit file is an error
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		return decode(data, customPath, defaults)
	}

	filename := envID + ".yaml"

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			return decode(data, userCfgPath, defaults)
		}
	}

	// Try local configs directory
	local := filepath.Join("configs", filename)
	if data, err := os.ReadFile(local); err == nil {
		return decode(data, local, defaults)
	}

	// Use embedded default YAML, falling back to hard-coded values
	cfg, err := decode(embedded, "embedded "+filename, defaults)
	if err != nil {
		cfg = defaults()
		return cfg, cfg.Validate()
	}
	return cfg, nil
}

func decode[T validator](data []byte, source string, defaults func() T) (T, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", source, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// Overrides are command-line values applied on top of a loaded file.
// Nil fields and an empty RewardMode leave the file's value untouched.
type Overrides struct {
	RewardMode string
	MaxSteps   *int
	Seed       *int64
	Render     *bool
}

// Apply writes the overrides into an episode block.
func (o Overrides) Apply(e *EpisodeConfig) {
	if o.RewardMode != "" {
		e.RewardMode = o.RewardMode
	}
	if o.MaxSteps != nil {
		e.MaxSteps = *o.MaxSteps
	}
	if o.Seed != nil {
		e.Seed = *o.Seed
	}
	if o.Render != nil {
		e.Render = *o.Render
	}
}
