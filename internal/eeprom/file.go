package eeprom

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileDevice is a MemDevice whose committed image is persisted to a file.
// Flush applies the queue and then rewrites the image atomically (temp
// file + rename), so the on-disk image always holds a committed state.
type FileDevice struct {
	*MemDevice
	path string
}

// OpenFile opens or creates an image file of the given device size. A
// missing file starts erased; a shorter existing file is padded with
// erased bytes; a longer one is rejected.
func OpenFile(path string, size uint16) (*FileDevice, error) {
	d := &FileDevice{
		MemDevice: NewMemDevice(size),
		path:      path,
	}

	img, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}
	if len(img) > int(size) {
		return nil, fmt.Errorf("image %s is %d bytes, device is %d: %w",
			path, len(img), size, ErrOutOfRange)
	}
	if err := d.Load(img); err != nil {
		return nil, err
	}
	return d, nil
}

// Path returns the image file path.
func (d *FileDevice) Path() string {
	return d.path
}

// Flush applies every queued mutation and persists the committed image.
func (d *FileDevice) Flush() error {
	if err := d.MemDevice.Flush(); err != nil {
		return err
	}
	return d.save()
}

// Reload discards queued mutations and re-reads the image file, for use
// after an external change to the file.
func (d *FileDevice) Reload() error {
	img, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return d.Load(nil)
		}
		return fmt.Errorf("reading image %s: %w", d.path, err)
	}
	if err := d.Load(img); err != nil {
		return fmt.Errorf("image %s no longer fits device: %w", d.path, err)
	}
	return nil
}

func (d *FileDevice) save() error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("creating image directory: %w", err)
	}

	tempPath := d.path + ".tmp"
	if err := os.WriteFile(tempPath, d.Snapshot(), 0o644); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}
	if err := os.Rename(tempPath, d.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replacing image: %w", err)
	}
	return nil
}
