package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigInstallsDefaultsOnFirstBoot(t *testing.T) {
	nv := NewMemStore(NVMinSize)

	cfg, stored := LoadConfig(nv)
	assert.False(t, stored)
	assert.Equal(t, DefaultConfig(), cfg)

	// Defaults were persisted: the second load is a stored record.
	_, stored = LoadConfig(nv)
	assert.True(t, stored)
}

func TestConfigRoundTrip(t *testing.T) {
	nv := NewMemStore(NVMinSize)

	cfg := DefaultConfig()
	cfg.AugerSpeedFwd = 150
	cfg.TempThreshold = 40.5
	cfg.AutoFanEnabled = false
	cfg.FeedLarge = 0.35
	cfg.BlowerSec = 7.5
	require.NoError(t, SaveConfig(nv, &cfg))

	got, stored := LoadConfig(nv)
	require.True(t, stored)
	assert.Equal(t, cfg, got)
}

func TestLoadConfigRejectsUnknownVersion(t *testing.T) {
	nv := NewMemStore(NVMinSize)
	cfg := DefaultConfig()
	cfg.BlowerSpeed = 99
	require.NoError(t, SaveConfig(nv, &cfg))

	// Stamp a future version byte over the record.
	_, err := nv.WriteAt([]byte{configVersion + 1}, NVConfigOffset)
	require.NoError(t, err)

	got, stored := LoadConfig(nv)
	assert.False(t, stored)
	assert.Equal(t, DefaultConfig(), got, "unknown layout falls back to defaults")
}

func TestCfgCommandsPersistAcrossReload(t *testing.T) {
	r := newTestRig(t)

	assert.Contains(t, r.send("CFG:AUGER_SPEED:220"), "[ACK] CFG:AUGER_SPEED:220 OK")
	assert.Contains(t, r.send("CFG:TEMP_THRESHOLD:38.5"), "OK")
	assert.Contains(t, r.send("CFG:AUTO_FAN:0"), "OK")
	assert.Contains(t, r.send("TIMING:3:1.5:12:6"), "TIMING_SET")

	cfg, stored := LoadConfig(r.nv)
	require.True(t, stored)
	assert.EqualValues(t, 220, cfg.AugerSpeedFwd)
	assert.InDelta(t, 38.5, cfg.TempThreshold, 0.001)
	assert.False(t, cfg.AutoFanEnabled)
	assert.InDelta(t, 3, cfg.ActuatorUpSec, 0.001)
	assert.InDelta(t, 1.5, cfg.ActuatorDownSec, 0.001)
	assert.InDelta(t, 12, cfg.AugerSec, 0.001)
	assert.InDelta(t, 6, cfg.BlowerSec, 0.001)
}

func TestCfgCommandValidation(t *testing.T) {
	r := newTestRig(t)

	assert.Contains(t, r.send("CFG:AUGER_SPEED:300"), "INVALID_VALUE")
	assert.Contains(t, r.send("CFG:AUGER_SPEED:-1"), "INVALID_VALUE")
	assert.Contains(t, r.send("CFG:FEED_SMALL:0"), "INVALID_VALUE")
	assert.Contains(t, r.send("CFG:FEED_SMALL:2.0"), "INVALID_VALUE")
	assert.Contains(t, r.send("CFG:NO_SUCH_PARAM:1"), "INVALID_CONFIG")
	assert.Contains(t, r.send("CFG:AUGER_SPEED"), "INVALID_CONFIG")

	// Nothing was persisted.
	cfg, _ := LoadConfig(r.nv)
	assert.Equal(t, DefaultConfig().AugerSpeedFwd, cfg.AugerSpeedFwd)
	assert.Equal(t, DefaultConfig().FeedSmall, cfg.FeedSmall)
}

func TestTimingCommandValidation(t *testing.T) {
	r := newTestRig(t)

	assert.Contains(t, r.send("TIMING:0:1:10:5"), "INVALID_DURATION")
	assert.Contains(t, r.send("TIMING:2:1:45:5"), "INVALID_DURATION")
	assert.Contains(t, r.send("TIMING:2:1:10"), "INVALID_FORMAT")

	cfg, _ := LoadConfig(r.nv)
	assert.Equal(t, DefaultConfig().AugerSec, cfg.AugerSec)
}
