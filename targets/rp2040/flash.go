//go:build rp2040

package main

import (
	"machine"

	"gofeeder/core"
)

// flashStore backs core.NVStore with the last erase block of the on-chip
// flash, shadowed in RAM. Reads come from the shadow; every write updates
// the shadow and commits the whole block, because flash can only be
// erased block-wise. Config and calibration writes are rare (a few per
// day at worst), so wear is a non-issue.
type flashStore struct {
	shadow []byte
}

func newFlashStore() (*flashStore, error) {
	size := int(machine.Flash.EraseBlockSize())
	s := &flashStore{shadow: make([]byte, size)}
	if _, err := machine.Flash.ReadAt(s.shadow, 0); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *flashStore) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || int(off) >= len(s.shadow) {
		return 0, core.ErrNVRange
	}
	n := copy(p, s.shadow[off:])
	if n < len(p) {
		return n, core.ErrNVRange
	}
	return n, nil
}

func (s *flashStore) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || int(off)+len(p) > len(s.shadow) {
		return 0, core.ErrNVRange
	}
	copy(s.shadow[off:], p)
	if err := s.commit(); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *flashStore) commit() error {
	if err := machine.Flash.EraseBlocks(0, 1); err != nil {
		return err
	}
	_, err := machine.Flash.WriteAt(s.shadow, 0)
	return err
}
