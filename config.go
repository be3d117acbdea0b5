package vrptw

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the numeric bounds and defaults shared by the generator and
// the solve path. Nothing in the package hard-codes these values.
type Config struct {
	MaxCustomers int `yaml:"max_customers"`
	MaxVehicles  int `yaml:"max_vehicles"`
	MaxCapacity  int `yaml:"max_capacity"`

	DefaultCustomers int     `yaml:"default_customers"`
	DefaultVehicles  int     `yaml:"default_vehicles"`
	DefaultCapacity  int     `yaml:"default_capacity"`
	WindowWidthMin   float64 `yaml:"window_width_min"`
	WindowWidthMax   float64 `yaml:"window_width_max"`
	Horizon          float64 `yaml:"horizon"`
	CostPrecision    int     `yaml:"cost_precision"`

	DefaultTimeLimit time.Duration `yaml:"default_time_limit"`
	MaxTimeLimit     time.Duration `yaml:"max_time_limit"`
	MIPGap           float64       `yaml:"mip_gap"`
	Threads          int           `yaml:"threads"`
	MaxVariables     int           `yaml:"max_variables"`
	MaxConstraints   int           `yaml:"max_constraints"`

	// Tolerance is the slack allowed when cross-checking reconstructed
	// routes and objectives.
	Tolerance float64 `yaml:"tolerance"`
}

func DefaultConfig() Config {
	return Config{
		MaxCustomers:     100,
		MaxVehicles:      50,
		MaxCapacity:      10000,
		DefaultCustomers: 9,
		DefaultVehicles:  3,
		DefaultCapacity:  30,
		WindowWidthMin:   50,
		WindowWidthMax:   200,
		Horizon:          1000,
		CostPrecision:    2,
		DefaultTimeLimit: 300 * time.Second,
		MaxTimeLimit:     600 * time.Second,
		MIPGap:           0,
		Threads:          0,
		MaxVariables:     50000,
		MaxConstraints:   100000,
		Tolerance:        1e-4,
	}
}

// LoadConfig starts from DefaultConfig, applies the YAML file at path (if
// path is not empty) and then the VRPTW_* environment variables. A .env file
// in the working directory is loaded into the environment first.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := godotenv.Load(); err != nil {
		Log(3, "No .env file found (using environment variables)")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"VRPTW_MAX_CUSTOMERS":     &c.MaxCustomers,
		"VRPTW_MAX_VEHICLES":      &c.MaxVehicles,
		"VRPTW_MAX_CAPACITY":      &c.MaxCapacity,
		"VRPTW_DEFAULT_CUSTOMERS": &c.DefaultCustomers,
		"VRPTW_DEFAULT_VEHICLES":  &c.DefaultVehicles,
		"VRPTW_DEFAULT_CAPACITY":  &c.DefaultCapacity,
		"VRPTW_COST_PRECISION":    &c.CostPrecision,
		"VRPTW_THREADS":           &c.Threads,
		"VRPTW_MAX_VARIABLES":     &c.MaxVariables,
		"VRPTW_MAX_CONSTRAINTS":   &c.MaxConstraints,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}
	floats := map[string]*float64{
		"VRPTW_WINDOW_WIDTH_MIN": &c.WindowWidthMin,
		"VRPTW_WINDOW_WIDTH_MAX": &c.WindowWidthMax,
		"VRPTW_HORIZON":          &c.Horizon,
		"VRPTW_MIP_GAP":          &c.MIPGap,
		"VRPTW_TOLERANCE":        &c.Tolerance,
	}
	for key, dst := range floats {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
	}
	durations := map[string]*time.Duration{
		"VRPTW_DEFAULT_TIME_LIMIT": &c.DefaultTimeLimit,
		"VRPTW_MAX_TIME_LIMIT":     &c.MaxTimeLimit,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			d, err := parseSeconds(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

// parseSeconds accepts a Go duration ("90s", "5m") or a bare number of seconds.
func parseSeconds(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
}

func (c Config) Validate() error {
	switch {
	case c.MaxCustomers < 1:
		return invalidParam("max_customers must be >= 1, got %d", c.MaxCustomers)
	case c.MaxVehicles < 1:
		return invalidParam("max_vehicles must be >= 1, got %d", c.MaxVehicles)
	case c.MaxCapacity < 1:
		return invalidParam("max_capacity must be >= 1, got %d", c.MaxCapacity)
	case c.WindowWidthMin <= 0 || c.WindowWidthMax < c.WindowWidthMin:
		return invalidParam("window width range [%g, %g] is invalid", c.WindowWidthMin, c.WindowWidthMax)
	case c.Horizon <= 0:
		return invalidParam("horizon must be positive, got %g", c.Horizon)
	case c.CostPrecision < 0 || c.CostPrecision > 10:
		return invalidParam("cost_precision must be in [0, 10], got %d", c.CostPrecision)
	case c.DefaultTimeLimit < time.Second:
		return invalidParam("default_time_limit must be at least 1s, got %s", c.DefaultTimeLimit)
	case c.MaxTimeLimit < c.DefaultTimeLimit:
		return invalidParam("max_time_limit %s is below default_time_limit %s", c.MaxTimeLimit, c.DefaultTimeLimit)
	case c.MIPGap < 0 || c.MIPGap >= 1:
		return invalidParam("mip_gap must be in [0, 1), got %g", c.MIPGap)
	case c.Threads < 0:
		return invalidParam("threads must be >= 0, got %d", c.Threads)
	case c.Tolerance <= 0:
		return invalidParam("tolerance must be positive, got %g", c.Tolerance)
	}
	return nil
}
