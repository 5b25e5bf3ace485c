// Package registry provides a global registry for environment factories.
// Environments register themselves in init() functions, allowing the drivers
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
)

// Options control how a factory builds an environment.
type Options struct {
	// ConfigPath is an explicit YAML file; empty uses the default search order.
	ConfigPath string

	// Overrides are applied on top of the loaded configuration.
	Overrides config.Overrides

	// Logger receives debug-level episode summaries. May be nil.
	Logger *log.Logger
}

// EnvInfo contains metadata about a registered environment.
type EnvInfo struct {
	ID    string
	Title string
}

// Factory creates a new, independent environment instance.
// It returns an error wrapping config.ErrInvalidConfig for bad configuration.
type Factory func(opts Options) (core.Env, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds an environment factory to the registry.
// Typically called from an environment's init() function.
// Panics if an environment with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: env %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered environments, sorted by ID.
func List() []EnvInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]EnvInfo, 0, len(factories))
	for id := range factories {
		result = append(result, EnvInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new environment by its ID.
// Returns an error if the ID is not registered or the configuration is invalid.
func Create(id string, opts Options) (core.Env, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown env %q", id)
	}

	env, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("registry: create %q: %w", id, err)
	}
	return env, nil
}

// Exists checks if an environment with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
