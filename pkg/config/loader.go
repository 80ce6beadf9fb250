package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	defaultEnvLoaded sync.Once

	cacheMu sync.RWMutex
	cached  *Config
)

// Load resolves the configuration from the environment, loading a .env file
// on first call if one exists. The result is cached for the process lifetime:
// configuration is set once at startup and treated as immutable afterwards.
func Load() (Config, error) {
	cacheMu.RLock()
	if cached != nil {
		cfg := *cached
		cacheMu.RUnlock()
		return cfg, nil
	}
	cacheMu.RUnlock()

	defaultEnvLoaded.Do(func() {
		// The .env file is optional; a missing file is not an error.
		_ = godotenv.Load()
	})

	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}

	cacheMu.Lock()
	if cached == nil {
		cached = &cfg
	}
	cfg = *cached
	cacheMu.Unlock()

	return cfg, nil
}

// MustLoad works like Load but panics on failure. For configurations the
// application cannot start without.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return cfg
}

// LoadFile applies a YAML override file on top of the base config. A missing
// file returns the base unchanged, mirroring the optional .env behavior.
func LoadFile(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return Config{}, errors.Join(ErrReadingConfigFile, err)
	}

	var override Override
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}

	return Merge(base, override), nil
}
