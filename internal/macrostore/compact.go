package macrostore

import (
	"github.com/dshills/macropad/internal/eeprom"
	"github.com/dshills/macropad/internal/notify"
)

// Compact reclaims the space held by deleted records, shifting surviving
// records toward the region start and merging the freed bytes into one
// contiguous tail. Record order is preserved. A log without deleted
// records is left untouched.
//
// The pass is safe against interruption at any flush boundary: the log
// is truncated to a safe point before any destructive copy, and each
// relocated run is published by writing its type byte only after its
// bytes and the new tail terminator are in place. A run that was only
// partially copied is therefore never observed as anything but absent,
// and re-running Compact absorbs whatever an interrupted pass left
// beyond the last valid terminator.
func (s *Store) Compact() error {
	s.mu.Lock()
	if s.recording {
		s.mu.Unlock()
		return ErrAlreadyRecording
	}
	reclaimed, err := s.compactLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if reclaimed > 0 {
		s.publish(notify.Event{Kind: notify.Compacted, Reclaimed: reclaimed})
	}
	return nil
}

func (s *Store) compactLocked() (int, error) {
	toOverwrite, found, err := s.findNextDeleted(s.macrosStart)
	if err != nil || !found {
		return 0, err
	}

	// The true logical end before the pass started. Everything the loop
	// below does reads the pre-pass committed state; writes only become
	// visible at the flush.
	savedEnd := s.endMacro

	if s.versionGuard {
		// First write in the burst: an interrupted pass leaves the version
		// byte cleared and the region reinitializes on next open.
		if err := s.dev.WriteByte(s.region.Start+offVersion, eeprom.ErasedByte); err != nil {
			return 0, err
		}
	}

	next, err := s.findNextLive(toOverwrite)
	if err != nil {
		return 0, err
	}

	// Truncate to the last all-live prefix before any destructive copy.
	if err := s.dev.WriteByte(toOverwrite, TypeEnd); err != nil {
		return 0, err
	}

	for next != savedEnd {
		// toCompress is the start of the next run of live bytes; next
		// becomes one past that run.
		toCompress, err := s.findNextLive(next)
		if err != nil {
			return 0, err
		}
		next = savedEnd
		if deleted, found, err := s.findNextDeleted(toCompress); err != nil {
			return 0, err
		} else if found {
			next = deleted
		}

		typ, err := s.dev.ReadByte(toCompress)
		if err != nil {
			return 0, err
		}
		typeLoc := toOverwrite
		toOverwrite++
		src := toCompress + 1

		for remaining := int(next) - int(src); remaining > 0; remaining = int(next) - int(src) {
			chunk := remaining
			if chunk > eeprom.MaxCopyLen {
				chunk = eeprom.MaxCopyLen
			}
			if err := s.dev.Copy(toOverwrite, src, uint8(chunk)); err != nil {
				return 0, err
			}
			toOverwrite += uint16(chunk)
			src += uint16(chunk)
		}

		// Terminate at the new tail, then publish the relocated run.
		if err := s.dev.WriteByte(toOverwrite, TypeEnd); err != nil {
			return 0, err
		}
		if err := s.dev.WriteByte(typeLoc, typ); err != nil {
			return 0, err
		}
	}

	if s.versionGuard {
		if err := s.dev.WriteByte(s.region.Start+offVersion, s.region.Version); err != nil {
			return 0, err
		}
	}
	if err := s.dev.Flush(); err != nil {
		return 0, err
	}

	s.endMacro = toOverwrite
	return int(savedEnd) - int(toOverwrite), nil
}
