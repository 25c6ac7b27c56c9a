package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Region sizing limits.
const (
	// headerLen is the number of bytes the store's region header occupies.
	headerLen = 5

	// minRegionLen is the smallest region that can hold the header, one
	// minimum macro (2-byte record header + 4-byte trigger) and the log
	// terminator.
	minRegionLen = headerLen + 2 + 4 + 1
)

// Config holds all macropad settings.
type Config struct {
	// DeviceSize is the EEPROM capacity in bytes.
	DeviceSize uint16 `toml:"device_size"`

	// RegionStart is the first byte of the store's region.
	RegionStart uint16 `toml:"region_start"`

	// RegionEnd is the last byte of the store's region, inclusive.
	RegionEnd uint16 `toml:"region_end"`

	// Version is the on-media format version. 0x00 and 0xFF are reserved
	// to mean uninitialized.
	Version uint8 `toml:"version"`

	// ImagePath is the EEPROM image file the host CLI operates on.
	ImagePath string `toml:"image_path"`

	// AutoCompact runs a compaction pass after clears and retries a
	// failed record start once after compacting.
	AutoCompact bool `toml:"auto_compact"`

	// VersionGuard clears the header version byte for the duration of a
	// compaction pass, forcing reinitialization if the pass is
	// interrupted.
	VersionGuard bool `toml:"version_guard"`
}

// Default returns the built-in configuration: the full 1K EEPROM of the
// target controller, format version 1.
func Default() Config {
	return Config{
		DeviceSize:  1024,
		RegionStart: 0,
		RegionEnd:   1023,
		Version:     0x01,
		ImagePath:   "macropad.eep",
		AutoCompact: true,
	}
}

// Load builds the configuration from defaults, an optional TOML file and
// MACROPAD_* environment variables, then validates it. A missing file is
// not an error; an empty path skips the file layer entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.RegionEnd <= c.RegionStart {
		return fmt.Errorf("region end %#x must be greater than start %#x",
			c.RegionEnd, c.RegionStart)
	}
	if int(c.RegionEnd) >= int(c.DeviceSize) {
		return fmt.Errorf("region end %#x outside device of %d bytes",
			c.RegionEnd, c.DeviceSize)
	}
	if int(c.RegionEnd)-int(c.RegionStart)+1 < minRegionLen {
		return fmt.Errorf("region of %d bytes is smaller than the %d byte minimum",
			int(c.RegionEnd)-int(c.RegionStart)+1, minRegionLen)
	}
	if c.Version == 0x00 || c.Version == 0xFF {
		return fmt.Errorf("format version %#x is reserved", c.Version)
	}
	return nil
}
