package eeprom

import (
	"bytes"
	"errors"
	"testing"
)

func TestMemDeviceStartsErased(t *testing.T) {
	d := NewMemDevice(16)
	for addr := uint16(0); addr < d.Size(); addr++ {
		b, err := d.ReadByte(addr)
		if err != nil {
			t.Fatalf("ReadByte(%d): %v", addr, err)
		}
		if b != ErasedByte {
			t.Fatalf("byte %d = %#x, want %#x", addr, b, ErasedByte)
		}
	}
}

func TestWritesInvisibleUntilFlush(t *testing.T) {
	d := NewMemDevice(16)

	if err := d.WriteByte(3, 0xAB); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}

	b, err := d.ReadByte(3)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if b != ErasedByte {
		t.Errorf("before flush byte 3 = %#x, want erased", b)
	}
	if got := d.Pending(); got != 1 {
		t.Errorf("Pending() = %d, want 1", got)
	}

	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	b, _ = d.ReadByte(3)
	if b != 0xAB {
		t.Errorf("after flush byte 3 = %#x, want 0xAB", b)
	}
	if got := d.Pending(); got != 0 {
		t.Errorf("Pending() after flush = %d, want 0", got)
	}
}

func TestFlushAppliesInSubmissionOrder(t *testing.T) {
	d := NewMemDevice(16)

	// Later writes to the same address win.
	d.WriteByte(0, 0x01)
	d.WriteByte(0, 0x02)
	d.WriteByte(0, 0x03)
	d.Flush()

	b, _ := d.ReadByte(0)
	if b != 0x03 {
		t.Errorf("byte 0 = %#x, want 0x03", b)
	}
}

func TestCopySeesEarlierQueuedWrites(t *testing.T) {
	d := NewMemDevice(16)

	// Queue a write, then a copy of that address, in one burst. The copy
	// applies after the write, so it must pick up the written value.
	d.WriteByte(0, 0x11)
	d.Copy(8, 0, 1)
	d.Flush()

	b, _ := d.ReadByte(8)
	if b != 0x11 {
		t.Errorf("copied byte = %#x, want 0x11", b)
	}
}

func TestCopyOverlappingLeftShift(t *testing.T) {
	d := NewMemDevice(16)

	for i := uint16(0); i < 8; i++ {
		d.WriteByte(4+i, byte(i))
	}
	d.Flush()

	// Shift the run left by two with an overlapping forward copy.
	d.Copy(2, 4, 8)
	d.Flush()

	got := d.Snapshot()[2:10]
	want := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	if !bytes.Equal(got, want) {
		t.Errorf("after overlap copy = %v, want %v", got, want)
	}
}

func TestCopyZeroLength(t *testing.T) {
	d := NewMemDevice(16)
	if err := d.Copy(0, 8, 0); err != nil {
		t.Fatalf("zero-length Copy: %v", err)
	}
	if got := d.Pending(); got != 0 {
		t.Errorf("zero-length copy queued an op")
	}
}

func TestOutOfRange(t *testing.T) {
	d := NewMemDevice(16)

	if _, err := d.ReadByte(16); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ReadByte(16) error = %v, want ErrOutOfRange", err)
	}
	if err := d.WriteByte(16, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("WriteByte(16) error = %v, want ErrOutOfRange", err)
	}
	if err := d.Copy(10, 0, 8); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Copy past end error = %v, want ErrOutOfRange", err)
	}
	if err := d.Copy(0, 10, 8); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Copy src past end error = %v, want ErrOutOfRange", err)
	}
}

func TestLoad(t *testing.T) {
	d := NewMemDevice(8)

	if err := d.Load([]byte{1, 2, 3}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := d.Snapshot()
	want := []byte{1, 2, 3, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(got, want) {
		t.Errorf("Snapshot() = %v, want %v", got, want)
	}

	if err := d.Load(make([]byte, 9)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("oversized Load error = %v, want ErrOutOfRange", err)
	}
}

func TestLoadDiscardsQueue(t *testing.T) {
	d := NewMemDevice(8)
	d.WriteByte(0, 0xAA)
	d.Load(nil)
	d.Flush()

	b, _ := d.ReadByte(0)
	if b != ErasedByte {
		t.Errorf("byte 0 = %#x, want erased after Load discarded queue", b)
	}
}
