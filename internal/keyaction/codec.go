package keyaction

import "io"

// MaxEncodedLen is the largest number of bytes Encode can produce for a
// single key-action.
const MaxEncodedLen = 4

const (
	// flagContinued marks a byte as having a successor within the same
	// encoded key-action.
	flagContinued = 0x80

	// flagPressed carries KeyAction.Pressed on the first byte and is fixed
	// to 1 on every continuation byte.
	flagPressed = 0x40

	// groupMask selects the most-significant 2-bit group of a field.
	groupMask = 0xC0
)

// EncodedLen returns the number of bytes Encode produces for k: 4 minus
// the number of leading 2-bit groups that are zero across layer, row and
// column jointly, capped so the final group is always written.
func EncodedLen(k KeyAction) int {
	n := MaxEncodedLen
	combined := k.Layer | k.Row | k.Column
	for i := 0; i < MaxEncodedLen-1 && combined&groupMask == 0; i++ {
		combined <<= 2
		n--
	}
	return n
}

// Append appends the encoded form of k to dst and returns the extended
// slice.
func Append(dst []byte, k KeyAction) []byte {
	layer, row, column := k.Layer, k.Row, k.Column

	// Skip leading 2-bit groups that are zero in all three fields. At most
	// three may be skipped; the least-significant group is written even
	// when everything is zero.
	skip := 0
	for ; skip < MaxEncodedLen-1 && (layer|row|column)&groupMask == 0; skip++ {
		layer <<= 2
		row <<= 2
		column <<= 2
	}

	b := byte(0)
	if k.Pressed {
		b = flagPressed
	}
	for i := skip; i < MaxEncodedLen; i++ {
		if i < MaxEncodedLen-1 {
			b |= flagContinued
		}
		b |= (layer & groupMask) >> 2
		b |= (row & groupMask) >> 4
		b |= (column & groupMask) >> 6
		dst = append(dst, b)

		// Continuation bytes carry a fixed 1 in the pressed position so
		// they are never all-zero.
		b = flagPressed
		layer <<= 2
		row <<= 2
		column <<= 2
	}
	return dst
}

// Encode returns the 1-4 byte encoded form of k.
func Encode(k KeyAction) []byte {
	return Append(make([]byte, 0, MaxEncodedLen), k)
}

// Decode reads one encoded key-action from r.
//
// The stream is trusted: Decode keeps consuming bytes while the continued
// bit is set and never validates that the total stays within 4 bytes, so
// the caller must position r at the start of a well-formed encoding.
func Decode(r io.ByteReader) (KeyAction, error) {
	b, err := r.ReadByte()
	if err != nil {
		return KeyAction{}, err
	}

	k := KeyAction{
		Pressed: b&flagPressed != 0,
		Layer:   b >> 4 & 0x03,
		Row:     b >> 2 & 0x03,
		Column:  b & 0x03,
	}

	for b&flagContinued != 0 {
		b, err = r.ReadByte()
		if err != nil {
			return KeyAction{}, err
		}
		k.Layer = k.Layer<<2 | b>>4&0x03
		k.Row = k.Row<<2 | b>>2&0x03
		k.Column = k.Column<<2 | b&0x03
	}
	return k, nil
}
