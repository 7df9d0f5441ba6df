package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dopplerd.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := validate(Default()); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[station]
latitude = 38.88
longitude = -77.03
min_elevation = 15.0

[doppler]
channels = 7
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Station.Latitude != 38.88 {
		t.Errorf("latitude = %f, want 38.88", cfg.Station.Latitude)
	}
	if cfg.Station.MinElevation != 15.0 {
		t.Errorf("min_elevation = %f, want 15", cfg.Station.MinElevation)
	}
	if cfg.Doppler.Channels != 7 {
		t.Errorf("channels = %d, want 7", cfg.Doppler.Channels)
	}

	// Untouched sections keep their defaults.
	if cfg.Doppler.AveragePasses != 3 {
		t.Errorf("average_passes = %d, want default 3", cfg.Doppler.AveragePasses)
	}
	if cfg.Predict.TLEURL == "" {
		t.Error("tle_url default missing")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty data root", func(c *Config) { c.Data.Root = "" }, "data.root"},
		{"elevation too high", func(c *Config) { c.Station.MinElevation = 91 }, "min_elevation"},
		{"one channel", func(c *Config) { c.Doppler.Channels = 1 }, "doppler.channels"},
		{"zero average passes", func(c *Config) { c.Doppler.AveragePasses = 0 }, "average_passes"},
		{"zero pass limit", func(c *Config) { c.Predict.PassLimit = 0 }, "pass_limit"},
		{"empty satnogs url", func(c *Config) { c.SatNOGS.BaseURL = "" }, "satnogs.base_url"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
