package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load with missing file = %+v, want defaults", cfg)
	}
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macropad.toml")
	content := `
device_size = 512
region_start = 16
region_end = 511
version = 2
image_path = "custom.eep"
auto_compact = false
version_guard = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DeviceSize != 512 {
		t.Errorf("DeviceSize = %d, want 512", cfg.DeviceSize)
	}
	if cfg.RegionStart != 16 || cfg.RegionEnd != 511 {
		t.Errorf("region = [%d, %d], want [16, 511]", cfg.RegionStart, cfg.RegionEnd)
	}
	if cfg.Version != 2 {
		t.Errorf("Version = %d, want 2", cfg.Version)
	}
	if cfg.ImagePath != "custom.eep" {
		t.Errorf("ImagePath = %q, want custom.eep", cfg.ImagePath)
	}
	if cfg.AutoCompact {
		t.Error("AutoCompact = true, want false")
	}
	if !cfg.VersionGuard {
		t.Error("VersionGuard = false, want true")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macropad.toml")
	if err := os.WriteFile(path, []byte(`image_path = "from-file.eep"`), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(envImagePath, "from-env.eep")
	t.Setenv(envRegionStart, "0x10")
	t.Setenv(envAutoCompact, "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ImagePath != "from-env.eep" {
		t.Errorf("ImagePath = %q, want env value", cfg.ImagePath)
	}
	if cfg.RegionStart != 0x10 {
		t.Errorf("RegionStart = %#x, want 0x10", cfg.RegionStart)
	}
	if cfg.AutoCompact {
		t.Error("AutoCompact = true, want false from env")
	}
}

func TestEnvParseError(t *testing.T) {
	t.Setenv(envRegionEnd, "not-a-number")
	if _, err := Load(""); err == nil {
		t.Error("Load with bad env value did not fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "end before start",
			mutate:  func(c *Config) { c.RegionStart, c.RegionEnd = 100, 50 },
			wantErr: "greater than start",
		},
		{
			name:    "end outside device",
			mutate:  func(c *Config) { c.RegionEnd = c.DeviceSize },
			wantErr: "outside device",
		},
		{
			name:    "region too small",
			mutate:  func(c *Config) { c.RegionStart, c.RegionEnd = 0, 8 },
			wantErr: "minimum",
		},
		{
			name:    "reserved version 0x00",
			mutate:  func(c *Config) { c.Version = 0x00 },
			wantErr: "reserved",
		},
		{
			name:    "reserved version 0xFF",
			mutate:  func(c *Config) { c.Version = 0xFF },
			wantErr: "reserved",
		},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("%s: Validate() = %v, want nil", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: Validate() = %v, want error containing %q", tt.name, err, tt.wantErr)
		}
	}
}
