// Package config loads macropad configuration.
//
// Configuration comes from three layers, later layers overriding earlier
// ones:
//
//  1. built-in defaults (Default)
//  2. a TOML file
//  3. MACROPAD_* environment variables
//
// The settings describe the storage region the macro store owns (start,
// end, format version), the EEPROM image the host CLI operates on, and
// compaction policy.
package config
