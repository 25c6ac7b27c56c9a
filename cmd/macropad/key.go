package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/macropad/internal/keyaction"
)

// parseKey parses a "layer/row/column" key position.
func parseKey(s string) (layer, row, column uint8, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("bad key %q: want layer/row/column", s)
	}
	fields := []*uint8{&layer, &row, &column}
	for i, p := range parts {
		v, perr := strconv.ParseUint(p, 10, 8)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("bad key %q: each field is 0-255", s)
		}
		*fields[i] = uint8(v)
	}
	return layer, row, column, nil
}

// parseTrigger parses a trigger key. Triggers are press events; a +/-
// prefix is accepted and ignored for symmetry with actions.
func parseTrigger(s string) (keyaction.KeyAction, error) {
	s = strings.TrimPrefix(s, "+")
	layer, row, column, err := parseKey(s)
	if err != nil {
		return keyaction.KeyAction{}, err
	}
	return keyaction.Press(layer, row, column), nil
}

// parseAction parses one macro action: "+layer/row/column" for a press,
// "-layer/row/column" for a release. A bare key means press.
func parseAction(s string) (keyaction.KeyAction, error) {
	pressed := true
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		pressed = false
		s = s[1:]
	}
	layer, row, column, err := parseKey(s)
	if err != nil {
		return keyaction.KeyAction{}, err
	}
	return keyaction.New(pressed, layer, row, column), nil
}

func formatKey(k keyaction.KeyAction) string {
	return fmt.Sprintf("%d/%d/%d", k.Layer, k.Row, k.Column)
}

func formatAction(k keyaction.KeyAction) string {
	sign := "+"
	if !k.Pressed {
		sign = "-"
	}
	return sign + formatKey(k)
}
