package keyaction

import (
	"bytes"
	"testing"
)

func TestEncodeKnownBytes(t *testing.T) {
	tests := []struct {
		name string
		in   KeyAction
		want []byte
	}{
		{
			name: "all zero release",
			in:   KeyAction{},
			want: []byte{0x00},
		},
		{
			name: "all zero press",
			in:   KeyAction{Pressed: true},
			want: []byte{0x40},
		},
		{
			name: "single byte coordinates",
			in:   KeyAction{Pressed: true, Layer: 1, Row: 2, Column: 3},
			want: []byte{0x40 | 1<<4 | 2<<2 | 3},
		},
		{
			// Worked example from the on-media format documentation:
			// layer 0b00000100, row 0b00011001, column 0b00100011.
			name: "three byte release",
			in:   KeyAction{Pressed: false, Layer: 0x04, Row: 0x19, Column: 0x23},
			want: []byte{0x86, 0xD8, 0x47},
		},
		{
			name: "full width press",
			in:   KeyAction{Pressed: true, Layer: 0xFF, Row: 0xFF, Column: 0xFF},
			want: []byte{0xFF, 0xFF, 0xFF, 0x7F},
		},
	}

	for _, tt := range tests {
		got := Encode(tt.in)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("%s: Encode(%v) = %#v, want %#v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestEncodedLen(t *testing.T) {
	tests := []struct {
		in   KeyAction
		want int
	}{
		{KeyAction{}, 1},
		{KeyAction{Pressed: true}, 1},
		{KeyAction{Column: 3}, 1},
		{KeyAction{Row: 4}, 2},
		{KeyAction{Layer: 15}, 2},
		{KeyAction{Column: 16}, 3},
		{KeyAction{Row: 63}, 3},
		{KeyAction{Layer: 64}, 4},
		{KeyAction{Layer: 255, Row: 255, Column: 255}, 4},
	}

	for _, tt := range tests {
		if got := EncodedLen(tt.in); got != tt.want {
			t.Errorf("EncodedLen(%v) = %d, want %d", tt.in, got, tt.want)
		}
		if got := len(Encode(tt.in)); got != tt.want {
			t.Errorf("len(Encode(%v)) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	values := []uint8{0, 1, 2, 3, 4, 7, 15, 16, 63, 64, 127, 128, 255}

	for _, pressed := range []bool{false, true} {
		for _, layer := range values {
			for _, row := range values {
				for _, column := range values {
					in := KeyAction{Pressed: pressed, Layer: layer, Row: row, Column: column}
					got, err := Decode(bytes.NewReader(Encode(in)))
					if err != nil {
						t.Fatalf("Decode(Encode(%v)) error: %v", in, err)
					}
					if got != in {
						t.Fatalf("Decode(Encode(%v)) = %v", in, got)
					}
				}
			}
		}
	}
}

func TestDecodeStopsAtFinalByte(t *testing.T) {
	// Two encoded key-actions back to back; Decode must consume exactly
	// one and leave the reader at the start of the next.
	first := KeyAction{Pressed: true, Layer: 1, Row: 5, Column: 9}
	second := KeyAction{Pressed: false, Layer: 0, Row: 0, Column: 2}

	stream := bytes.NewReader(Append(Encode(first), second))

	got, err := Decode(stream)
	if err != nil {
		t.Fatalf("Decode first: %v", err)
	}
	if got != first {
		t.Errorf("first = %v, want %v", got, first)
	}

	got, err = Decode(stream)
	if err != nil {
		t.Fatalf("Decode second: %v", err)
	}
	if got != second {
		t.Errorf("second = %v, want %v", got, second)
	}

	if stream.Len() != 0 {
		t.Errorf("stream has %d leftover bytes", stream.Len())
	}
}

func TestDecodeTruncatedStream(t *testing.T) {
	// A continuation bit with nothing after it must surface the reader's
	// error rather than fabricating a key-action.
	if _, err := Decode(bytes.NewReader([]byte{0x80})); err == nil {
		t.Error("Decode of truncated stream did not fail")
	}
	if _, err := Decode(bytes.NewReader(nil)); err == nil {
		t.Error("Decode of empty stream did not fail")
	}
}

func TestAppendReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 16)
	buf = Append(buf, KeyAction{Pressed: true})
	buf = Append(buf, KeyAction{Row: 4})
	if len(buf) != 3 {
		t.Fatalf("appended length = %d, want 3", len(buf))
	}
}
