package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names. Each overrides the matching Config field.
const (
	envDeviceSize   = "MACROPAD_DEVICE_SIZE"
	envRegionStart  = "MACROPAD_REGION_START"
	envRegionEnd    = "MACROPAD_REGION_END"
	envVersion      = "MACROPAD_VERSION"
	envImagePath    = "MACROPAD_IMAGE_PATH"
	envAutoCompact  = "MACROPAD_AUTO_COMPACT"
	envVersionGuard = "MACROPAD_VERSION_GUARD"
)

// applyEnv overlays MACROPAD_* environment variables onto cfg.
// Numeric values accept decimal, hex (0x) and octal (0o) forms.
func applyEnv(cfg *Config) error {
	if err := envUint16(envDeviceSize, &cfg.DeviceSize); err != nil {
		return err
	}
	if err := envUint16(envRegionStart, &cfg.RegionStart); err != nil {
		return err
	}
	if err := envUint16(envRegionEnd, &cfg.RegionEnd); err != nil {
		return err
	}
	if err := envUint8(envVersion, &cfg.Version); err != nil {
		return err
	}
	if val, ok := os.LookupEnv(envImagePath); ok {
		cfg.ImagePath = val
	}
	if err := envBool(envAutoCompact, &cfg.AutoCompact); err != nil {
		return err
	}
	if err := envBool(envVersionGuard, &cfg.VersionGuard); err != nil {
		return err
	}
	return nil
}

func envUint16(name string, dst *uint16) error {
	val, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	n, err := strconv.ParseUint(val, 0, 16)
	if err != nil {
		return fmt.Errorf("%s=%q: %w", name, val, err)
	}
	*dst = uint16(n)
	return nil
}

func envUint8(name string, dst *uint8) error {
	val, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	n, err := strconv.ParseUint(val, 0, 8)
	if err != nil {
		return fmt.Errorf("%s=%q: %w", name, val, err)
	}
	*dst = uint8(n)
	return nil
}

func envBool(name string, dst *bool) error {
	val, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fmt.Errorf("%s=%q: %w", name, val, err)
	}
	*dst = b
	return nil
}
