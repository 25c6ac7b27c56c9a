package eeprom

import "sync"

// opKind discriminates queued mutations.
type opKind uint8

const (
	opWrite opKind = iota
	opCopy
)

// op is one queued mutation.
type op struct {
	kind opKind
	dst  uint16
	b    byte   // opWrite
	src  uint16 // opCopy
	n    uint8  // opCopy
}

// MemDevice is an in-memory EEPROM with queued-write semantics. A fresh
// device reads as erased (every byte 0xFF).
type MemDevice struct {
	mu    sync.Mutex
	cells []byte
	queue []op
}

// NewMemDevice creates an erased device of the given size.
func NewMemDevice(size uint16) *MemDevice {
	cells := make([]byte, size)
	for i := range cells {
		cells[i] = ErasedByte
	}
	return &MemDevice{cells: cells}
}

// Size returns the device capacity in bytes.
func (d *MemDevice) Size() uint16 {
	return uint16(len(d.cells))
}

// ReadByte returns the committed byte at addr. Pending queued writes are
// not visible.
func (d *MemDevice) ReadByte(addr uint16) (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if int(addr) >= len(d.cells) {
		return 0, ErrOutOfRange
	}
	return d.cells[addr], nil
}

// WriteByte queues a single-byte write.
func (d *MemDevice) WriteByte(addr uint16, b byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if int(addr) >= len(d.cells) {
		return ErrOutOfRange
	}
	d.queue = append(d.queue, op{kind: opWrite, dst: addr, b: b})
	return nil
}

// Copy queues a forward range copy of n bytes from src to dst.
func (d *MemDevice) Copy(dst, src uint16, n uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n == 0 {
		return nil
	}
	if int(dst)+int(n) > len(d.cells) || int(src)+int(n) > len(d.cells) {
		return ErrOutOfRange
	}
	d.queue = append(d.queue, op{kind: opCopy, dst: dst, src: src, n: n})
	return nil
}

// Flush applies every queued mutation in submission order.
func (d *MemDevice) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.applyLocked()
	return nil
}

func (d *MemDevice) applyLocked() {
	for _, o := range d.queue {
		switch o.kind {
		case opWrite:
			d.cells[o.dst] = o.b
		case opCopy:
			// Forward, byte by byte: a copy sees the result of everything
			// queued before it, and dst < src overlap shifts data left.
			for i := uint16(0); i < uint16(o.n); i++ {
				d.cells[o.dst+i] = d.cells[o.src+i]
			}
		}
	}
	d.queue = d.queue[:0]
}

// Pending returns the number of queued, uncommitted mutations.
func (d *MemDevice) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Snapshot returns a copy of the committed image.
func (d *MemDevice) Snapshot() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]byte, len(d.cells))
	copy(out, d.cells)
	return out
}

// Load replaces the committed image with img, padded with erased bytes if
// img is shorter than the device. Queued mutations are discarded. Returns
// ErrOutOfRange if img is larger than the device.
func (d *MemDevice) Load(img []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(img) > len(d.cells) {
		return ErrOutOfRange
	}
	copy(d.cells, img)
	for i := len(img); i < len(d.cells); i++ {
		d.cells[i] = ErasedByte
	}
	d.queue = d.queue[:0]
	return nil
}
