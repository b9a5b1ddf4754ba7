// Package config carries runtime options for hwmoni, layered
// default -> config file -> environment -> command flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so TOML can express intervals as "2s".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds all hwmoni configuration.
type Config struct {
	Sampling SamplingConfig `toml:"sampling"`
	Thermal  ThermalConfig  `toml:"thermal"`
	Server   ServerConfig   `toml:"server"`
}

// SamplingConfig controls the polling cadence.
type SamplingConfig struct {
	// Interval is the delay between full poll cycles.
	Interval Duration `toml:"interval"`
	// Settle is the delay between the two CPU counter reads of one sample.
	Settle Duration `toml:"settle"`
}

// ThermalConfig controls the temperature probe chain.
type ThermalConfig struct {
	// ProbeCommands permits probes that invoke platform utilities.
	ProbeCommands bool `toml:"probe_commands"`
	// Estimate enables the load-based synthetic reading as a last resort.
	Estimate bool `toml:"estimate"`
}

// ServerConfig controls the optional HTTP front end.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

func Default() Config {
	return Config{
		Sampling: SamplingConfig{
			Interval: Duration{2 * time.Second},
			Settle:   Duration{200 * time.Millisecond},
		},
		Thermal: ThermalConfig{
			ProbeCommands: true,
			Estimate:      true,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 9715,
		},
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hwmoni", "config.toml")
}

// Load reads the config file at path (or the default location when path is
// empty), then applies environment overrides. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return cfg, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HWMONI_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sampling.Interval = Duration{d}
		}
	}
	if v := os.Getenv("HWMONI_SETTLE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sampling.Settle = Duration{d}
		}
	}
	if v := os.Getenv("HWMONI_PROBE_COMMANDS"); v == "0" {
		cfg.Thermal.ProbeCommands = false
	}
	if v := os.Getenv("HWMONI_ESTIMATE"); v == "0" {
		cfg.Thermal.Estimate = false
	}
}
