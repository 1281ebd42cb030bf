package core

import (
	"encoding/binary"
	"errors"

	"github.com/chewxy/math32"
)

// CalibrationMagic guards the load-cell record; anything else at that
// offset is treated as uninitialized or corrupt.
const CalibrationMagic = 0xCAFEBABE

const calSampleCount = 10

// Record layout, little-endian, 16 bytes at NVCalibrationOffset:
// scale float32, offset int32, written_at uint32, magic uint32.
const (
	calScaleOff   = 0
	calOffsetOff  = 4
	calWrittenOff = 8
	calMagicOff   = 12
	calRecordSize = 16
)

// CalibrationRecord is the persisted load-cell calibration.
type CalibrationRecord struct {
	Scale     float32
	Offset    int32
	WrittenAt uint32
	Magic     uint32
}

// DefaultCalibration is installed whenever the stored record is missing or
// rejected.
func DefaultCalibration() CalibrationRecord {
	return CalibrationRecord{Scale: 1.0, Offset: 0, Magic: CalibrationMagic}
}

var (
	errCalNoSignal      = errors.New("calibration: no signal from load cell")
	errCalInvalidWeight = errors.New("calibration: known weight must be > 0")
)

// CalibrationStore persists load-cell scale/offset and applies them to the
// sensor driver.
type CalibrationStore struct {
	nv     NVStore
	scale  WeightSensor
	clock  Clock
	record CalibrationRecord
}

// NewCalibrationStore wires the store to its backing memory and driver.
func NewCalibrationStore(nv NVStore, scale WeightSensor, clock Clock) *CalibrationStore {
	return &CalibrationStore{nv: nv, scale: scale, clock: clock, record: DefaultCalibration()}
}

// Record returns the active calibration.
func (s *CalibrationStore) Record() CalibrationRecord {
	return s.record
}

// Load reads the stored record, checking the magic before trusting any
// field. A mismatched magic or a non-finite/non-positive scale installs and
// immediately persists defaults, so one corrupt read self-heals. The bool
// reports whether the stored record was accepted.
func (s *CalibrationStore) Load() bool {
	buf := make([]byte, calRecordSize)
	ok := false
	if _, err := s.nv.ReadAt(buf, NVCalibrationOffset); err == nil {
		rec := decodeCalibration(buf)
		if rec.Magic == CalibrationMagic && calScaleValid(rec.Scale) {
			s.record = rec
			ok = true
		}
	}

	if !ok {
		s.record = DefaultCalibration()
		s.record.WrittenAt = s.clock()
		_ = s.Save()
	}

	s.apply()
	return ok
}

// Save persists the full record.
func (s *CalibrationStore) Save() error {
	s.record.Magic = CalibrationMagic
	buf := make([]byte, calRecordSize)
	encodeCalibration(buf, s.record)
	_, err := s.nv.WriteAt(buf, NVCalibrationOffset)
	return err
}

// Calibrate averages raw samples against a known reference weight, derives
// the scale factor and persists it.
func (s *CalibrationStore) Calibrate(knownKG float32) (float32, error) {
	if knownKG <= 0 {
		return 0, errCalInvalidWeight
	}

	raw, err := s.scale.ReadRaw(calSampleCount)
	if err != nil {
		return 0, err
	}
	if raw == 0 {
		return 0, errCalNoSignal
	}

	factor := raw / knownKG
	if !calScaleValid(factor) {
		return 0, errCalNoSignal
	}

	s.record.Scale = factor
	s.record.Offset = s.scale.Offset()
	s.record.WrittenAt = s.clock()
	if err := s.Save(); err != nil {
		return 0, err
	}
	s.apply()
	return factor, nil
}

// Tare re-zeroes the load cell via the driver and persists only the offset
// field of the record.
func (s *CalibrationStore) Tare() error {
	if err := s.scale.Tare(); err != nil {
		return err
	}
	s.record.Offset = s.scale.Offset()

	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(s.record.Offset))
	_, err := s.nv.WriteAt(buf, NVCalibrationOffset+calOffsetOff)
	return err
}

// Reset reinstalls and persists defaults.
func (s *CalibrationStore) Reset() error {
	s.record = DefaultCalibration()
	s.record.WrittenAt = s.clock()
	if err := s.Save(); err != nil {
		return err
	}
	s.apply()
	return nil
}

func (s *CalibrationStore) apply() {
	s.scale.SetScale(s.record.Scale)
	s.scale.SetOffset(s.record.Offset)
}

func calScaleValid(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0) && f > 0
}

func decodeCalibration(b []byte) CalibrationRecord {
	return CalibrationRecord{
		Scale:     getF32(b[calScaleOff:]),
		Offset:    int32(binary.LittleEndian.Uint32(b[calOffsetOff:])),
		WrittenAt: binary.LittleEndian.Uint32(b[calWrittenOff:]),
		Magic:     binary.LittleEndian.Uint32(b[calMagicOff:]),
	}
}

func encodeCalibration(b []byte, rec CalibrationRecord) {
	putF32(b[calScaleOff:], rec.Scale)
	binary.LittleEndian.PutUint32(b[calOffsetOff:], uint32(rec.Offset))
	binary.LittleEndian.PutUint32(b[calWrittenOff:], rec.WrittenAt)
	binary.LittleEndian.PutUint32(b[calMagicOff:], rec.Magic)
}
