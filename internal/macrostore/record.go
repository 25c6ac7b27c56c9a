package macrostore

import (
	"github.com/dshills/macropad/internal/eeprom"
	"github.com/dshills/macropad/internal/keyaction"
)

// Record type values. TypeEnd equals the erased byte so an erased tail
// reads as a terminated log.
const (
	TypeDeleted    byte = 0x00
	TypeValidMacro byte = 0x01
	TypeContinued  byte = 0x02
	TypeEnd        byte = eeprom.ErasedByte
)

const (
	// recordHeaderLen is the type byte plus the length byte.
	recordHeaderLen = 2

	// maxRecordLen is the physical record cap imposed by the one-byte
	// length field.
	maxRecordLen = 255

	// regionHeaderLen is the size of the region header: start address
	// (2, big endian), end address (2, big endian), version (1).
	regionHeaderLen = 5
)

// Region header field offsets from the region start.
const (
	offStartHi = 0
	offStartLo = 1
	offEndHi   = 2
	offEndLo   = 3
	offVersion = 4
)

// Macro is a decoded logical macro: one trigger and the key-actions it
// replays.
type Macro struct {
	Trigger keyaction.KeyAction
	Actions []keyaction.KeyAction
}
