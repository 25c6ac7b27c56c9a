package keyaction

import "fmt"

// KeyAction identifies the press or release of one physical key on one
// active layer of the layout matrix. The zero value is the release of the
// key at layer 0, row 0, column 0.
type KeyAction struct {
	// Pressed is true for a key press, false for a release.
	Pressed bool

	// Layer is the layout layer the key was resolved on.
	Layer uint8

	// Row is the key's row in the layout matrix.
	Row uint8

	// Column is the key's column in the layout matrix.
	Column uint8
}

// New creates a key-action.
func New(pressed bool, layer, row, column uint8) KeyAction {
	return KeyAction{
		Pressed: pressed,
		Layer:   layer,
		Row:     row,
		Column:  column,
	}
}

// Press creates a press key-action.
func Press(layer, row, column uint8) KeyAction {
	return New(true, layer, row, column)
}

// Release creates a release key-action.
func Release(layer, row, column uint8) KeyAction {
	return New(false, layer, row, column)
}

// String returns a compact human-readable form, e.g. "press 1/3/7".
func (k KeyAction) String() string {
	verb := "release"
	if k.Pressed {
		verb = "press"
	}
	return fmt.Sprintf("%s %d/%d/%d", verb, k.Layer, k.Row, k.Column)
}
