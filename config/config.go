// Package config loads and persists world.Config: a YAML file (optionally
// overridden by DRONEGRID_-prefixed environment variables) in, or the
// built-in defaults out. This is the deployment-facing loading mechanism
// the engine core itself has no opinion about.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dronegrid/dronegrid/world"
)

const envPrefix = "DRONEGRID"

// Load reads path (a YAML file) into a world.Config, with any
// DRONEGRID_-prefixed environment variable overriding the matching key
// (e.g. DRONEGRID_N_DRONES overrides n_drones). The result is validated
// before being returned.
func Load(path string) (world.Config, error) {
	vp := viper.New()
	// SetConfigFile with a non-empty value makes getConfigFile() return it
	// verbatim; viper never consults AddConfigPath in that case, so path
	// must be the full path, not a basename paired with a search dir.
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.SetEnvPrefix(envPrefix)
	vp.AutomaticEnv()

	if err := vp.ReadInConfig(); err != nil {
		return world.Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := world.DefaultConfig()
	if err := vp.Unmarshal(&cfg); err != nil {
		return world.Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}

	return cfg.Validate()
}

// WriteDefault marshals world.DefaultConfig() to path as YAML, giving an
// operator a starting point to edit rather than requiring they discover
// the closed parameter set from the source.
func WriteDefault(path string) error {
	out, err := yaml.Marshal(world.DefaultConfig())
	if err != nil {
		return fmt.Errorf("config: marshaling defaults: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
