package macrostore

import (
	"github.com/dshills/macropad/internal/keyaction"
	"github.com/dshills/macropad/internal/notify"
)

// physRecord tracks one physical record opened by the recorder. Its type
// byte is not written until finalize: until then the committed log still
// ends at the old end marker and the macro in progress is invisible.
type physRecord struct {
	addr   uint16
	typ    byte
	length uint8
}

// recordingState is the in-memory side of a recording in progress. The
// recorder never reads back what it wrote, so everything needed to
// finish the macro lives here rather than in the device queue.
type recordingState struct {
	trigger  keyaction.KeyAction
	headers  []physRecord
	writePos uint16
}

// IsRecording reports whether a recording is in progress.
func (s *Store) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// RecordInit starts recording a macro for the given trigger. It fails
// with ErrAlreadyRecording if a recording is open, and with
// ErrOutOfSpace if the region cannot hold a record header, a maximum
// size trigger and the log terminator. With auto-compaction enabled an
// out-of-space start compacts once and retries.
func (s *Store) RecordInit(trigger keyaction.KeyAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recording {
		return ErrAlreadyRecording
	}

	need := recordHeaderLen + keyaction.MaxEncodedLen
	if !s.fits(s.endMacro, need) {
		if !s.autoCompact {
			return ErrOutOfSpace
		}
		if _, err := s.compactLocked(); err != nil {
			return err
		}
		if !s.fits(s.endMacro, need) {
			return ErrOutOfSpace
		}
	}

	enc := keyaction.Encode(trigger)
	pos := s.endMacro + recordHeaderLen
	for _, b := range enc {
		if err := s.dev.WriteByte(pos, b); err != nil {
			return err
		}
		pos++
	}

	s.rec = recordingState{
		trigger: trigger,
		headers: []physRecord{{
			addr:   s.endMacro,
			typ:    TypeValidMacro,
			length: uint8(recordHeaderLen + len(enc)),
		}},
		writePos: pos,
	}
	s.recording = true
	return nil
}

// RecordAction appends one key-action to the recording. Actions the
// record filter rejects are dropped silently. When the current physical
// record would exceed the 255-byte cap the recorder closes it and opens
// a continuation record, invisibly to the caller. An append that does
// not fit fails with ErrOutOfSpace and leaves the committed log in its
// prior valid state.
func (s *Store) RecordAction(k keyaction.KeyAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.recording {
		return ErrNotRecording
	}
	if s.filter != nil && s.filter(k) {
		return nil
	}
	return s.appendActionLocked(k)
}

func (s *Store) appendActionLocked(k keyaction.KeyAction) error {
	n := keyaction.EncodedLen(k)
	cur := &s.rec.headers[len(s.rec.headers)-1]

	split := int(cur.length)+n > maxRecordLen
	need := n
	if split {
		need += recordHeaderLen
	}
	if !s.fits(s.rec.writePos, need) {
		return ErrOutOfSpace
	}

	if split {
		// The current record is full: seal its length and continue the
		// data stream in a continuation record. Its type byte, like all
		// the others, waits for finalize.
		if err := s.dev.WriteByte(cur.addr+1, cur.length); err != nil {
			return err
		}
		s.rec.headers = append(s.rec.headers, physRecord{
			addr:   s.rec.writePos,
			typ:    TypeContinued,
			length: recordHeaderLen,
		})
		cur = &s.rec.headers[len(s.rec.headers)-1]
		s.rec.writePos += recordHeaderLen
	}

	for _, b := range keyaction.Encode(k) {
		if err := s.dev.WriteByte(s.rec.writePos, b); err != nil {
			return err
		}
		s.rec.writePos++
	}
	cur.length += uint8(n)
	return nil
}

// RecordFinalize commits the recording: it seals the last record's
// length, writes the new end marker, then publishes the type bytes last
// (continuation records first, the valid macro record very last) so an
// interrupted commit leaves the macro wholly absent rather than partial.
func (s *Store) RecordFinalize() error {
	s.mu.Lock()

	if !s.recording {
		s.mu.Unlock()
		return ErrNotRecording
	}

	if err := s.finalizeLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	trigger := s.rec.trigger
	s.rec = recordingState{}
	s.mu.Unlock()

	s.publish(notify.Event{Kind: notify.Recorded, Trigger: trigger})
	return nil
}

func (s *Store) finalizeLocked() error {
	last := s.rec.headers[len(s.rec.headers)-1]
	if err := s.dev.WriteByte(last.addr+1, last.length); err != nil {
		return err
	}
	if err := s.dev.WriteByte(s.rec.writePos, TypeEnd); err != nil {
		return err
	}
	for i := len(s.rec.headers) - 1; i >= 0; i-- {
		h := s.rec.headers[i]
		if err := s.dev.WriteByte(h.addr, h.typ); err != nil {
			return err
		}
	}
	if err := s.dev.Flush(); err != nil {
		return err
	}

	s.endMacro = s.rec.writePos
	s.recording = false
	return nil
}
