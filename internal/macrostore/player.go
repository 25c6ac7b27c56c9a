package macrostore

import (
	"io"

	"github.com/dshills/macropad/internal/keyaction"
)

// macroReader reads a logical macro's data stream, transparently
// crossing from a valid macro record into its continuation records.
type macroReader struct {
	s       *Store
	pos     uint16 // next data byte
	dataEnd uint16 // one past the current record's data
}

// newMacroReader positions a reader at the first data byte of the valid
// macro record at addr.
func (s *Store) newMacroReader(addr uint16) (*macroReader, error) {
	length, err := s.dev.ReadByte(addr + 1)
	if err != nil {
		return nil, err
	}
	if length < recordHeaderLen {
		return nil, errCorrupt
	}
	return &macroReader{
		s:       s,
		pos:     addr + recordHeaderLen,
		dataEnd: addr + uint16(length),
	}, nil
}

// next moves to the following record if it continues this macro.
func (r *macroReader) next() (bool, error) {
	typ, err := r.s.dev.ReadByte(r.dataEnd)
	if err != nil {
		return false, err
	}
	if typ != TypeContinued {
		return false, nil
	}
	length, err := r.s.dev.ReadByte(r.dataEnd + 1)
	if err != nil {
		return false, err
	}
	if length < recordHeaderLen {
		return false, errCorrupt
	}
	r.pos = r.dataEnd + recordHeaderLen
	r.dataEnd = r.dataEnd + uint16(length)
	return true, nil
}

// more reports whether at least one data byte remains, skipping empty
// continuation records.
func (r *macroReader) more() (bool, error) {
	for r.pos == r.dataEnd {
		ok, err := r.next()
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// ReadByte implements io.ByteReader over the macro's data stream.
func (r *macroReader) ReadByte() (byte, error) {
	ok, err := r.more()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, io.EOF
	}
	b, err := r.s.dev.ReadByte(r.pos)
	if err != nil {
		return 0, err
	}
	r.pos++
	return b, nil
}

// macroAt decodes the whole logical macro starting at addr.
func (s *Store) macroAt(addr uint16) (Macro, error) {
	r, err := s.newMacroReader(addr)
	if err != nil {
		return Macro{}, err
	}

	trigger, err := keyaction.Decode(r)
	if err != nil {
		return Macro{}, err
	}

	m := Macro{Trigger: trigger}
	for {
		ok, err := r.more()
		if err != nil {
			return Macro{}, err
		}
		if !ok {
			return m, nil
		}
		action, err := keyaction.Decode(r)
		if err != nil {
			return Macro{}, err
		}
		m.Actions = append(m.Actions, action)
	}
}

// Play finds the macro for trigger and replays its key-actions, in
// recorded order, through exec. Continuation boundaries are invisible to
// the caller. Returns ErrNotFound when no macro matches.
func (s *Store) Play(trigger keyaction.KeyAction, exec ExecFunc) error {
	s.mu.Lock()
	addr, found, err := s.findByTrigger(trigger)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !found {
		s.mu.Unlock()
		return ErrNotFound
	}
	m, err := s.macroAt(addr)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	// Replay outside the lock: each injected action goes through the same
	// downstream processing as a live keystroke and may take a while.
	for _, action := range m.Actions {
		exec(action)
	}
	return nil
}

// Macros returns every stored macro in log order.
func (s *Store) Macros() ([]Macro, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.macrosLocked()
}

func (s *Store) macrosLocked() ([]Macro, error) {
	var out []Macro
	addr := s.macrosStart
	for {
		typ, err := s.dev.ReadByte(addr)
		if err != nil {
			return nil, err
		}
		if typ == TypeEnd {
			return out, nil
		}
		if typ == TypeValidMacro {
			m, err := s.macroAt(addr)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
		addr, err = s.nextRecord(addr)
		if err != nil {
			return nil, err
		}
	}
}
