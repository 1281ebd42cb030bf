package core

import "errors"

// Non-volatile layout, fixed byte offsets. The calibration record sits at
// the start of the store, the config record after it.
const (
	NVCalibrationOffset = 0
	NVConfigOffset      = 16
	NVMinSize           = 64
)

// NVStore is byte-addressed non-volatile memory (EEPROM, flash sector, or
// an in-memory buffer in tests). Implementations must persist writes before
// returning.
type NVStore interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
}

// ErrNVRange reports an out-of-bounds store access.
var ErrNVRange = errors.New("nvstore: offset out of range")

// MemStore is an in-memory NVStore used by tests and the simulated board.
type MemStore struct {
	data []byte
}

// NewMemStore creates a zero-filled MemStore of the given size.
func NewMemStore(size int) *MemStore {
	if size < NVMinSize {
		size = NVMinSize
	}
	return &MemStore{data: make([]byte, size)}
}

func (m *MemStore) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || int(off)+len(p) > len(m.data) {
		return 0, ErrNVRange
	}
	copy(p, m.data[off:])
	return len(p), nil
}

func (m *MemStore) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || int(off)+len(p) > len(m.data) {
		return 0, ErrNVRange
	}
	copy(m.data[off:], p)
	return len(p), nil
}
