// Package eeprom models the non-volatile storage device the macro store
// runs against.
//
// The device is a small, fixed, byte-addressable region whose erased value
// is 0xFF. There is no filesystem underneath: callers address individual
// bytes and ranges directly.
//
// # Write queue semantics
//
// Writes and range copies are not immediately durable. A driver enqueues
// them in submission order and applies the whole queue, FIFO, at Flush.
// Reads return committed state only; a caller that needs to observe its
// own writes must flush first. Range copies are applied at flush time,
// forward and byte by byte, so a copy observes the result of every write
// queued before it and overlapping dst < src copies behave like memmove
// on a forward pass.
//
// These rules mirror a firmware EEPROM driver that schedules writes
// between keyboard scan cycles; the macro store's compaction ordering is
// built on them.
//
// Two implementations are provided: MemDevice, a purely in-memory device
// used by the engine tests, and FileDevice, which persists the committed
// image to a file for host-side tooling.
package eeprom
