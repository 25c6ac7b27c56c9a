package macrostore

import (
	"io"

	"github.com/dshills/macropad/internal/keyaction"
)

// regionReader reads committed bytes sequentially, for decoding
// key-actions straight off the device.
type regionReader struct {
	s   *Store
	pos uint16
}

// ReadByte implements io.ByteReader over the store's region.
func (r *regionReader) ReadByte() (byte, error) {
	if r.pos > r.s.macrosEnd {
		return 0, io.ErrUnexpectedEOF
	}
	b, err := r.s.dev.ReadByte(r.pos)
	if err != nil {
		return 0, err
	}
	r.pos++
	return b, nil
}

// findByTrigger scans the log for the valid macro whose trigger equals
// k. It returns the record's address. Continuation and deleted records
// are skipped by their length like every other record.
func (s *Store) findByTrigger(k keyaction.KeyAction) (uint16, bool, error) {
	addr := s.macrosStart
	for {
		typ, err := s.dev.ReadByte(addr)
		if err != nil {
			return 0, false, err
		}
		if typ == TypeEnd {
			return 0, false, nil
		}
		if typ == TypeValidMacro {
			trigger, err := keyaction.Decode(&regionReader{s: s, pos: addr + recordHeaderLen})
			if err != nil {
				return 0, false, err
			}
			if trigger == k {
				return addr, true, nil
			}
		}
		addr, err = s.nextRecord(addr)
		if err != nil {
			return 0, false, err
		}
	}
}

// findNextDeleted returns the first deleted record at or after from.
func (s *Store) findNextDeleted(from uint16) (uint16, bool, error) {
	addr := from
	for {
		typ, err := s.dev.ReadByte(addr)
		if err != nil {
			return 0, false, err
		}
		switch typ {
		case TypeEnd:
			return 0, false, nil
		case TypeDeleted:
			return addr, true, nil
		}
		addr, err = s.nextRecord(addr)
		if err != nil {
			return 0, false, err
		}
	}
}

// findNextLive returns the first record at or after from that is neither
// deleted nor a continuation. The end marker is never deleted, so the
// scan always terminates.
func (s *Store) findNextLive(from uint16) (uint16, error) {
	addr := from
	for {
		typ, err := s.dev.ReadByte(addr)
		if err != nil {
			return 0, err
		}
		if typ != TypeDeleted && typ != TypeContinued {
			return addr, nil
		}
		addr, err = s.nextRecord(addr)
		if err != nil {
			return 0, err
		}
	}
}
