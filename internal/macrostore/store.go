package macrostore

import (
	"fmt"
	"sync"

	"github.com/dshills/macropad/internal/eeprom"
	"github.com/dshills/macropad/internal/keyaction"
	"github.com/dshills/macropad/internal/notify"
)

// Region describes the byte range of the device the store owns and the
// format version it expects to find there.
type Region struct {
	// Start is the first byte of the region.
	Start uint16

	// End is the last byte of the region, inclusive.
	End uint16

	// Version is the on-media format version. 0x00 and 0xFF are reserved
	// to mean uninitialized.
	Version byte
}

// FilterFunc reports whether a key-action should be ignored while
// recording. The layout collaborator supplies it so layer-shift and
// layer-toggle actions are not baked, unreleased, into a macro.
type FilterFunc func(keyaction.KeyAction) bool

// ExecFunc injects one replayed key-action into the layout engine as if
// it were a live event.
type ExecFunc func(keyaction.KeyAction)

// Store is the persistent macro store over one storage region.
type Store struct {
	mu     sync.Mutex
	dev    eeprom.Driver
	region Region

	macrosStart uint16
	macrosEnd   uint16

	// endMacro is the address of the log's end marker, the sole mutable
	// frontier of the log.
	endMacro uint16

	recording bool
	rec       recordingState

	filter       FilterFunc
	notifier     *notify.Notifier
	autoCompact  bool
	versionGuard bool
}

// Option configures a Store.
type Option func(*Store)

// WithRecordFilter sets the predicate applied to key-actions while
// recording; actions it reports true for are silently dropped.
func WithRecordFilter(f FilterFunc) Option {
	return func(s *Store) {
		s.filter = f
	}
}

// WithNotifier attaches a change notifier.
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithAutoCompact enables compaction after clears and a single
// compact-and-retry when starting a recording hits ErrOutOfSpace.
func WithAutoCompact(enable bool) Option {
	return func(s *Store) {
		s.autoCompact = enable
	}
}

// WithVersionGuard clears the header version byte for the duration of a
// compaction pass, so a pass interrupted by power loss reinitializes the
// region on next open instead of exposing a half-compacted log.
func WithVersionGuard(enable bool) Option {
	return func(s *Store) {
		s.versionGuard = enable
	}
}

// Open validates the region header and returns a store over dev. A
// header that does not match region (wrong bounds, wrong version, or
// never initialized) causes the whole region to be reinitialized to an
// empty log; stored macros are lost in that case.
func Open(dev eeprom.Driver, region Region, opts ...Option) (*Store, error) {
	if region.End <= region.Start {
		return nil, fmt.Errorf("macrostore: region end %#x not after start %#x", region.End, region.Start)
	}
	if int(region.End) >= int(dev.Size()) {
		return nil, fmt.Errorf("macrostore: region end %#x outside device of %d bytes", region.End, dev.Size())
	}
	minLen := regionHeaderLen + recordHeaderLen + keyaction.MaxEncodedLen + 1
	if int(region.End)-int(region.Start)+1 < minLen {
		return nil, fmt.Errorf("macrostore: region smaller than %d byte minimum", minLen)
	}
	if region.Version == 0x00 || region.Version == eeprom.ErasedByte {
		return nil, fmt.Errorf("macrostore: format version %#x is reserved", region.Version)
	}

	s := &Store{
		dev:         dev,
		region:      region,
		macrosStart: region.Start + regionHeaderLen,
		macrosEnd:   region.End,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initRegion(); err != nil {
		return nil, err
	}
	return s, nil
}

// initRegion validates the header and seats the end cursor, falling back
// to reinitialization when either fails.
func (s *Store) initRegion() error {
	ok, err := s.headerValid()
	if err != nil {
		return err
	}
	if ok {
		end, ferr := s.findEnd()
		if ferr == nil {
			s.endMacro = end
			return nil
		}
		// A valid header over an unterminated log: treat like any other
		// inconsistent region.
	}
	return s.reinitialize()
}

// headerValid reports whether the committed header matches the
// configured region.
func (s *Store) headerValid() (bool, error) {
	fields := []struct {
		off  uint16
		want byte
	}{
		{offStartHi, byte(s.region.Start >> 8)},
		{offStartLo, byte(s.region.Start)},
		{offEndHi, byte(s.region.End >> 8)},
		{offEndLo, byte(s.region.End)},
		{offVersion, s.region.Version},
	}
	for _, f := range fields {
		got, err := s.dev.ReadByte(s.region.Start + f.off)
		if err != nil {
			return false, err
		}
		if got != f.want {
			return false, nil
		}
	}
	return true, nil
}

// reinitialize writes a fresh header and an empty, terminated log.
func (s *Store) reinitialize() error {
	writes := []struct {
		off uint16
		b   byte
	}{
		{offStartHi, byte(s.region.Start >> 8)},
		{offStartLo, byte(s.region.Start)},
		{offEndHi, byte(s.region.End >> 8)},
		{offEndLo, byte(s.region.End)},
		{offVersion, s.region.Version},
	}
	for _, w := range writes {
		if err := s.dev.WriteByte(s.region.Start+w.off, w.b); err != nil {
			return err
		}
	}
	if err := s.dev.WriteByte(s.macrosStart, TypeEnd); err != nil {
		return err
	}
	if err := s.dev.Flush(); err != nil {
		return err
	}

	s.endMacro = s.macrosStart
	s.recording = false
	s.rec = recordingState{}
	s.publish(notify.Event{Kind: notify.Reinitialized})
	return nil
}

// findEnd walks the committed log and returns the end marker's address.
func (s *Store) findEnd() (uint16, error) {
	addr := s.macrosStart
	for {
		typ, err := s.dev.ReadByte(addr)
		if err != nil {
			return 0, err
		}
		if typ == TypeEnd {
			return addr, nil
		}
		addr, err = s.nextRecord(addr)
		if err != nil {
			return 0, err
		}
	}
}

// nextRecord returns the address of the record following the one at
// addr, bounds-checking the advance against the region.
func (s *Store) nextRecord(addr uint16) (uint16, error) {
	length, err := s.dev.ReadByte(addr + 1)
	if err != nil {
		return 0, err
	}
	if length < recordHeaderLen {
		return 0, errCorrupt
	}
	next := int(addr) + int(length)
	if next > int(s.macrosEnd) {
		return 0, errCorrupt
	}
	return uint16(next), nil
}

// fits reports whether n bytes starting at addr leave room for the end
// marker within the region.
func (s *Store) fits(addr uint16, n int) bool {
	return int(addr)+n <= int(s.macrosEnd)
}

func (s *Store) publish(e notify.Event) {
	if s.notifier != nil {
		s.notifier.Publish(e)
	}
}

// Exists reports whether a macro with the given trigger is stored.
func (s *Store) Exists(trigger keyaction.KeyAction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found, err := s.findByTrigger(trigger)
	return err == nil && found
}

// FreeBytes returns the bytes available for new records, with the log
// terminator's byte already reserved.
func (s *Store) FreeBytes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.macrosEnd) - int(s.endMacro)
}

// Clear marks the macro with the given trigger, and its continuation
// records, deleted. Clearing an absent trigger is a no-op.
func (s *Store) Clear(trigger keyaction.KeyAction) error {
	s.mu.Lock()
	addr, found, err := s.findByTrigger(trigger)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !found {
		s.mu.Unlock()
		return nil
	}
	if err := s.tombstone(addr); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.dev.Flush(); err != nil {
		s.mu.Unlock()
		return err
	}

	var reclaimed int
	if s.autoCompact && !s.recording {
		reclaimed, err = s.compactLocked()
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.publish(notify.Event{Kind: notify.Cleared, Trigger: trigger})
	if reclaimed > 0 {
		s.publish(notify.Event{Kind: notify.Compacted, Reclaimed: reclaimed})
	}
	return nil
}

// ClearAll marks every stored macro deleted. The log structure is kept;
// space comes back on the next compaction pass.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	addr := s.macrosStart
	for addr != s.endMacro {
		typ, err := s.dev.ReadByte(addr)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if typ == TypeValidMacro || typ == TypeContinued {
			if err := s.dev.WriteByte(addr, TypeDeleted); err != nil {
				s.mu.Unlock()
				return err
			}
		}
		addr, err = s.nextRecord(addr)
		if err != nil {
			s.mu.Unlock()
			return err
		}
	}
	if err := s.dev.Flush(); err != nil {
		s.mu.Unlock()
		return err
	}

	var reclaimed int
	var err error
	if s.autoCompact && !s.recording {
		reclaimed, err = s.compactLocked()
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.publish(notify.Event{Kind: notify.Cleared})
	if reclaimed > 0 {
		s.publish(notify.Event{Kind: notify.Compacted, Reclaimed: reclaimed})
	}
	return nil
}

// tombstone rewrites the type byte of the record at addr and of its
// continuation run to TypeDeleted. Lengths and data stay untouched.
func (s *Store) tombstone(addr uint16) error {
	if err := s.dev.WriteByte(addr, TypeDeleted); err != nil {
		return err
	}
	next, err := s.nextRecord(addr)
	if err != nil {
		return err
	}
	for {
		typ, err := s.dev.ReadByte(next)
		if err != nil {
			return err
		}
		if typ != TypeContinued {
			return nil
		}
		if err := s.dev.WriteByte(next, TypeDeleted); err != nil {
			return err
		}
		next, err = s.nextRecord(next)
		if err != nil {
			return err
		}
	}
}

// Reset reinitializes the region to an empty log, discarding every
// stored macro immediately.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reinitialize()
}

// Sync flushes any queued device writes.
func (s *Store) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.Flush()
}
