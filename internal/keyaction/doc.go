// Package keyaction defines the key-action type and its on-media codec.
//
// A key-action is the press or release of one physical key on one active
// layer of the layout matrix, identified by (pressed, layer, row, column).
// The same tuple serves as the unique trigger ID for a stored macro.
//
// # Encoding
//
// Key-actions are stored in a variable-length, bit-packed form of 1 to 4
// bytes. Layer, row and column are treated as four groups of 2 bits each,
// most-significant group first. Leading groups that are all-zero across
// all three fields are not written (the final group always is), so small
// coordinates encode in a single byte.
//
// Each encoded byte packs:
//
//	bit 7      continued: another byte follows
//	bit 6      pressed on the first byte; fixed to 1 on later bytes
//	bits 5-4   layer group
//	bits 3-2   row group
//	bits 1-0   column group
//
// Fixing bit 6 to 1 on continuation bytes keeps every non-initial byte
// nonzero, so an encoded key-action can never be mistaken for erased
// storage.
//
// Decoding trusts the stream: it does not bound the number of continuation
// bytes, so callers must not decode past foreign or corrupt data.
package keyaction
