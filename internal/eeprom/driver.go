package eeprom

import "errors"

// ErasedByte is the value every cell holds after erase.
const ErasedByte = 0xFF

// MaxCopyLen is the largest single transfer Copy accepts.
const MaxCopyLen = 255

// Sentinel errors for drivers.
var (
	// ErrOutOfRange is returned when an address or range falls outside the
	// device.
	ErrOutOfRange = errors.New("eeprom: address out of range")
)

// Driver is the interface to a byte-addressable non-volatile device.
//
// WriteByte and Copy enqueue their mutation; nothing becomes durable until
// Flush, which applies the queue in submission order. ReadByte returns
// committed state only and never consults the pending queue.
type Driver interface {
	// ReadByte returns the committed byte at addr.
	ReadByte(addr uint16) (byte, error)

	// WriteByte queues a single-byte write.
	WriteByte(addr uint16, b byte) error

	// Copy queues a range copy of n bytes from src to dst. n must not
	// exceed MaxCopyLen. The copy runs forward at flush time.
	Copy(dst, src uint16, n uint8) error

	// Flush applies every queued mutation in submission order.
	Flush() error

	// Size returns the device capacity in bytes.
	Size() uint16
}
