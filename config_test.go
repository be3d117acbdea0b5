package vrptw

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 300*time.Second, cfg.DefaultTimeLimit)
	assert.Equal(t, 600*time.Second, cfg.MaxTimeLimit)
	assert.Equal(t, 100, cfg.MaxCustomers)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"VRPTW_MAX_CUSTOMERS":      "40",
		"VRPTW_HORIZON":            "480.5",
		"VRPTW_DEFAULT_TIME_LIMIT": "90",
		"VRPTW_MAX_TIME_LIMIT":     "10m",
		"VRPTW_THREADS":            " ",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, 40, cfg.MaxCustomers)
	assert.Equal(t, 480.5, cfg.Horizon)
	assert.Equal(t, 90*time.Second, cfg.DefaultTimeLimit)
	assert.Equal(t, 10*time.Minute, cfg.MaxTimeLimit)
	assert.Equal(t, 0, cfg.Threads)

	env["VRPTW_MAX_VEHICLES"] = "many"
	assert.Error(t, cfg.applyEnv(lookup))
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vrptw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_customers: 20\ndefault_time_limit: 30s\nmip_gap: 0.01\n"), 0644))
	t.Setenv("VRPTW_MAX_CUSTOMERS", "25")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.MaxCustomers)
	assert.Equal(t, 30*time.Second, cfg.DefaultTimeLimit)
	assert.Equal(t, 0.01, cfg.MIPGap)
	assert.Equal(t, DefaultConfig().MaxVehicles, cfg.MaxVehicles)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("VRPTW_MAX_TIME_LIMIT", "1s")
	_, err := LoadConfig("")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	for name, mutate := range map[string]func(c *Config){
		"no customers":  func(c *Config) { c.MaxCustomers = 0 },
		"width":         func(c *Config) { c.WindowWidthMax = 1 },
		"horizon":       func(c *Config) { c.Horizon = 0 },
		"precision":     func(c *Config) { c.CostPrecision = 11 },
		"time limit":    func(c *Config) { c.DefaultTimeLimit = time.Millisecond },
		"gap":           func(c *Config) { c.MIPGap = 1 },
		"tolerance":     func(c *Config) { c.Tolerance = 0 },
		"threads":       func(c *Config) { c.Threads = -2 },
		"capacity":      func(c *Config) { c.MaxCapacity = 0 },
		"max vehicles":  func(c *Config) { c.MaxVehicles = 0 },
		"limit ordered": func(c *Config) { c.MaxTimeLimit = time.Minute },
	} {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidParameter, name)
	}
}
