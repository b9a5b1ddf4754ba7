package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Sampling.Interval.Duration != 2*time.Second {
		t.Errorf("Interval = %v, want 2s", cfg.Sampling.Interval.Duration)
	}
	if cfg.Sampling.Settle.Duration != 200*time.Millisecond {
		t.Errorf("Settle = %v, want 200ms", cfg.Sampling.Settle.Duration)
	}
	if !cfg.Thermal.ProbeCommands || !cfg.Thermal.Estimate {
		t.Error("thermal capabilities should default on")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[sampling]
interval = "5s"

[thermal]
probe_commands = false

[server]
port = 8088
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Sampling.Interval.Duration != 5*time.Second {
		t.Errorf("Interval = %v, want 5s", cfg.Sampling.Interval.Duration)
	}
	// Unset keys keep their defaults.
	if cfg.Sampling.Settle.Duration != 200*time.Millisecond {
		t.Errorf("Settle = %v, want default 200ms", cfg.Sampling.Settle.Duration)
	}
	if cfg.Thermal.ProbeCommands {
		t.Error("ProbeCommands should be false from file")
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("Port = %d, want 8088", cfg.Server.Port)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() of a missing explicit path should fail")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[sampling\ninterval="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of a malformed file should fail")
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`[sampling]`+"\n"+`interval = "5s"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HWMONI_INTERVAL", "10s")
	t.Setenv("HWMONI_ESTIMATE", "0")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Sampling.Interval.Duration != 10*time.Second {
		t.Errorf("Interval = %v, want env override 10s", cfg.Sampling.Interval.Duration)
	}
	if cfg.Thermal.Estimate {
		t.Error("Estimate should be disabled by env")
	}
}
