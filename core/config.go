package core

import (
	"encoding/binary"
	"math"
)

const configVersion = 1

// configRecordSize is version byte + fixed-width fields below.
const configRecordSize = 1 + 4 + 8 + 1 + 12 + 16

// SystemConfig holds the persisted tunables. It is created with defaults on
// first boot, mutated by CFG/TIMING commands and persisted on every
// mutation, loaded once at boot.
type SystemConfig struct {
	// Motor PWM speeds, 0..255
	AugerSpeedFwd  uint8
	AugerSpeedBack uint8
	BlowerSpeed    uint8
	ActuatorSpeed  uint8

	// Auto-fan temperature control
	TempThreshold  float32 // degrees C
	TempHysteresis float32
	AutoFanEnabled bool

	// Feed presets, kilograms
	FeedSmall  float32
	FeedMedium float32
	FeedLarge  float32

	// Scripted feed default step durations, seconds
	ActuatorUpSec   float32
	ActuatorDownSec float32
	AugerSec        float32
	BlowerSec       float32
}

// DefaultConfig returns the documented first-boot configuration.
func DefaultConfig() SystemConfig {
	return SystemConfig{
		AugerSpeedFwd:  200,
		AugerSpeedBack: 180,
		BlowerSpeed:    255,
		ActuatorSpeed:  200,

		TempThreshold:  35.0,
		TempHysteresis: 2.0,
		AutoFanEnabled: true,

		FeedSmall:  0.05,
		FeedMedium: 0.10,
		FeedLarge:  0.20,

		ActuatorUpSec:   2.0,
		ActuatorDownSec: 1.0,
		AugerSec:        10.0,
		BlowerSec:       5.0,
	}
}

// LoadConfig reads the config record. An unknown version byte (first boot,
// or layout change) installs and persists defaults. The bool reports
// whether a stored record was used.
func LoadConfig(nv NVStore) (SystemConfig, bool) {
	buf := make([]byte, configRecordSize)
	if _, err := nv.ReadAt(buf, NVConfigOffset); err != nil || buf[0] != configVersion {
		cfg := DefaultConfig()
		_ = SaveConfig(nv, &cfg)
		return cfg, false
	}

	var cfg SystemConfig
	cfg.AugerSpeedFwd = buf[1]
	cfg.AugerSpeedBack = buf[2]
	cfg.BlowerSpeed = buf[3]
	cfg.ActuatorSpeed = buf[4]
	cfg.TempThreshold = getF32(buf[5:])
	cfg.TempHysteresis = getF32(buf[9:])
	cfg.AutoFanEnabled = buf[13] != 0
	cfg.FeedSmall = getF32(buf[14:])
	cfg.FeedMedium = getF32(buf[18:])
	cfg.FeedLarge = getF32(buf[22:])
	cfg.ActuatorUpSec = getF32(buf[26:])
	cfg.ActuatorDownSec = getF32(buf[30:])
	cfg.AugerSec = getF32(buf[34:])
	cfg.BlowerSec = getF32(buf[38:])
	return cfg, true
}

// SaveConfig persists the full config record.
func SaveConfig(nv NVStore, cfg *SystemConfig) error {
	buf := make([]byte, configRecordSize)
	buf[0] = configVersion
	buf[1] = cfg.AugerSpeedFwd
	buf[2] = cfg.AugerSpeedBack
	buf[3] = cfg.BlowerSpeed
	buf[4] = cfg.ActuatorSpeed
	putF32(buf[5:], cfg.TempThreshold)
	putF32(buf[9:], cfg.TempHysteresis)
	if cfg.AutoFanEnabled {
		buf[13] = 1
	}
	putF32(buf[14:], cfg.FeedSmall)
	putF32(buf[18:], cfg.FeedMedium)
	putF32(buf[22:], cfg.FeedLarge)
	putF32(buf[26:], cfg.ActuatorUpSec)
	putF32(buf[30:], cfg.ActuatorDownSec)
	putF32(buf[34:], cfg.AugerSec)
	putF32(buf[38:], cfg.BlowerSec)

	_, err := nv.WriteAt(buf, NVConfigOffset)
	return err
}

func getF32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func putF32(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
}
