package world

import (
	"fmt"
	"math"
)

// Config is the closed set of configuration parameters from spec.md §6.
// Field names use Go-idiomatic casing; the yaml and mapstructure tags map
// these back to the snake_case names spec.md uses. Both tags are needed:
// yaml.Marshal/Unmarshal reads the yaml tag, while viper's Unmarshal goes
// through mapstructure, which only consults the mapstructure tag (it never
// falls back to yaml tags, and case-insensitive field-name matching alone
// would never match "n_drones" against "NDrones").
type Config struct {
	NDrones int `yaml:"n_drones" mapstructure:"n_drones"`

	// GridSize is N. If zero, Validate derives it from NDrones and
	// DroneDensity: N = ceil(sqrt(NDrones / DroneDensity)).
	GridSize     int     `yaml:"grid_size" mapstructure:"grid_size"`
	DroneDensity float64 `yaml:"drone_density" mapstructure:"drone_density"`

	PacketsFactor     int `yaml:"packets_factor" mapstructure:"packets_factor"`
	DropzonesFactor   int `yaml:"dropzones_factor" mapstructure:"dropzones_factor"`
	StationsFactor    int `yaml:"stations_factor" mapstructure:"stations_factor"`
	SkyscrapersFactor int `yaml:"skyscrapers_factor" mapstructure:"skyscrapers_factor"`

	PickupReward   float64 `yaml:"pickup_reward" mapstructure:"pickup_reward"`
	DeliveryReward float64 `yaml:"delivery_reward" mapstructure:"delivery_reward"`
	CrashReward    float64 `yaml:"crash_reward" mapstructure:"crash_reward"`
	ChargeReward   float64 `yaml:"charge_reward" mapstructure:"charge_reward"`

	DischargeRate int `yaml:"discharge_rate" mapstructure:"discharge_rate"`
	ChargeRate    int `yaml:"charge_rate" mapstructure:"charge_rate"`
}

// DefaultConfig returns the engine's built-in defaults, used both as a
// starting point for config.WriteDefault and by callers that don't need
// a config file.
func DefaultConfig() Config {
	return Config{
		NDrones:           8,
		GridSize:          0, // derived
		DroneDensity:      0.05,
		PacketsFactor:     1,
		DropzonesFactor:   1,
		StationsFactor:    1,
		SkyscrapersFactor: 1,
		PickupReward:      0,
		DeliveryReward:    1,
		CrashReward:       -1,
		ChargeReward:      0.1,
		DischargeRate:     10,
		ChargeRate:        20,
	}
}

// Validate checks the closed parameter set's stated bounds, deriving
// GridSize from NDrones/DroneDensity when GridSize is left at zero. It
// returns the resolved Config (with GridSize filled in) or an error
// describing one violated bound. When several *_factor parameters are
// negative, which of them is reported is not defined.
func (c Config) Validate() (Config, error) {
	if c.NDrones < 1 {
		return c, fmt.Errorf("world: n_drones must be >= 1, got %d", c.NDrones)
	}
	if c.DroneDensity <= 0 {
		return c, fmt.Errorf("world: drone_density must be > 0, got %v", c.DroneDensity)
	}
	if c.GridSize == 0 {
		c.GridSize = int(math.Ceil(math.Sqrt(float64(c.NDrones) / c.DroneDensity)))
	}
	if c.GridSize < 1 {
		return c, fmt.Errorf("world: grid_size must be >= 1, got %d", c.GridSize)
	}
	for name, v := range map[string]int{
		"packets_factor":     c.PacketsFactor,
		"dropzones_factor":   c.DropzonesFactor,
		"stations_factor":    c.StationsFactor,
		"skyscrapers_factor": c.SkyscrapersFactor,
	} {
		if v < 0 {
			return c, fmt.Errorf("world: %s must be >= 0, got %d", name, v)
		}
	}
	if c.DischargeRate < 0 || c.DischargeRate > 100 {
		return c, fmt.Errorf("world: discharge_rate must be in [0,100], got %d", c.DischargeRate)
	}
	if c.ChargeRate < 0 || c.ChargeRate > 100 {
		return c, fmt.Errorf("world: charge_rate must be in [0,100], got %d", c.ChargeRate)
	}

	n := c.GridSize * c.GridSize
	demand := c.NDrones*(1+c.PacketsFactor+c.DropzonesFactor) +
		c.NDrones*c.StationsFactor + c.NDrones*c.SkyscrapersFactor
	if demand > n {
		return c, fmt.Errorf("world: configured object counts (%d) exceed grid capacity (%d); "+
			"increase grid_size or reduce the *_factor parameters", demand, n)
	}

	return c, nil
}
