package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelemetryCadence(t *testing.T) {
	r := newTestRig(t)

	r.tick(2999)
	assert.NotContains(t, string(r.c.TakeOutput()), "[DATA]")

	r.tick(1)
	out := string(r.c.TakeOutput())
	require.Contains(t, out, "[DATA]")
	assert.Contains(t, out, "TEMP1:27.5")
	assert.Contains(t, out, "BATV:12.60")
	assert.Contains(t, out, "ERR:0")

	// Next line only after another full interval.
	r.tick(1000)
	assert.NotContains(t, string(r.c.TakeOutput()), "[DATA]")
	r.tick(2000)
	assert.Contains(t, string(r.c.TakeOutput()), "[DATA]")
}

func TestConfigReportCadence(t *testing.T) {
	r := newTestRig(t)

	for i := 0; i < 29; i++ {
		r.tick(1000)
	}
	assert.NotContains(t, string(r.c.TakeOutput()), "[CONFIG]")

	r.tick(1000)
	out := string(r.c.TakeOutput())
	require.Contains(t, out, "[CONFIG]")
	assert.Contains(t, out, "AUGER_FWD:200")
	assert.Contains(t, out, "AUTO_FAN:1")
}

func TestTelemetryReflectsDeviceState(t *testing.T) {
	r := newTestRig(t)

	r.send("G:1")
	r.send("R:3")
	r.tick(3000)
	out := string(r.c.TakeOutput())
	assert.Contains(t, out, "AUGER:1")
	assert.Contains(t, out, "LED:1")
	assert.Contains(t, out, "FEEDING:0")
}

func TestTelemetryDuringFeeding(t *testing.T) {
	r := newTestRig(t)
	r.scale.SetWeight(2.0)

	r.send("FEED:SEQ:0.1:5:5:5:5")
	r.tick(3000)
	out := string(r.c.TakeOutput())
	assert.Contains(t, out, "FEEDING:1")
	assert.Contains(t, out, "STEP:1")
}

func TestAutoFanHysteresis(t *testing.T) {
	r := newTestRig(t)
	pins := SimBoardPins()

	// Default threshold 35, hysteresis 2. Mean of 36/36 crosses it.
	r.dhtF.Temp = 36
	r.dhtC.Temp = 36
	// Two sensor phases must run first so both temps refresh, then the
	// fan check.
	for i := 0; i < 8; i++ {
		r.tick(2000)
	}
	assert.True(t, r.c.State().RelayFan)
	assert.True(t, r.c.State().AutoFanActive)
	assert.False(t, r.gpio.Levels[pins.RelayFan])

	// Inside the hysteresis band: stays on.
	r.dhtF.Temp = 34
	r.dhtC.Temp = 34
	for i := 0; i < 8; i++ {
		r.tick(2000)
	}
	assert.True(t, r.c.State().RelayFan)

	// Below threshold minus hysteresis: releases.
	r.dhtF.Temp = 32.5
	r.dhtC.Temp = 32.5
	for i := 0; i < 8; i++ {
		r.tick(2000)
	}
	assert.False(t, r.c.State().RelayFan)
	assert.False(t, r.c.State().AutoFanActive)
}

func TestAutoFanDisabledByConfig(t *testing.T) {
	r := newTestRig(t)

	r.send("CFG:AUTO_FAN:0")
	r.dhtF.Temp = 45
	r.dhtC.Temp = 45
	for i := 0; i < 8; i++ {
		r.tick(2000)
	}
	assert.False(t, r.c.State().RelayFan)
}

func TestManualFanReleasesAutoControl(t *testing.T) {
	r := newTestRig(t)

	r.dhtF.Temp = 40
	r.dhtC.Temp = 40
	for i := 0; i < 8; i++ {
		r.tick(2000)
	}
	require.True(t, r.c.State().AutoFanActive)

	r.send("R:2")
	assert.False(t, r.c.State().RelayFan)
	assert.False(t, r.c.State().AutoFanActive)
}

func TestStatusCommandEmitsSnapshot(t *testing.T) {
	r := newTestRig(t)

	out := r.send("STATUS")
	assert.Contains(t, out, "[DATA]")
	assert.Contains(t, out, "[CONFIG]")
	assert.Contains(t, out, "[ACK] STATUS OK")
}

func TestTestCommandReportsSensorHealth(t *testing.T) {
	r := newTestRig(t)

	out := r.send("TEST")
	assert.Contains(t, out, "[ACK] TEST SENSORS_OK")

	r.dhtF.Err = assertionError("dht timeout")
	out = r.send("TEST")
	assert.Contains(t, out, "[ACK] TEST SENSOR_ERR_1")
}

func TestFastModeSuppressesInfoChatter(t *testing.T) {
	r := newTestRig(t)

	assert.Contains(t, r.send("FAST:0"), "[ACK] FAST:0 FAST_OFF")
	r.send("U:1")
	r.tick(1000)
	out := string(r.c.TakeOutput())
	assert.Contains(t, out, "[INFO]")

	assert.Contains(t, r.send("FAST:1"), "FAST_ON")
	r.send("U:1")
	r.tick(1000)
	out = string(r.c.TakeOutput())
	assert.NotContains(t, out, "[INFO]")
}

func TestProcessByteOverflowNaks(t *testing.T) {
	r := newTestRig(t)

	long := strings.Repeat("X", lineBufSize+1)
	for i := 0; i < len(long); i++ {
		r.c.ProcessByte(long[i])
	}
	assert.Empty(t, string(r.c.TakeOutput()), "no reply before the terminator")

	r.c.ProcessByte('\n')
	out := string(r.c.TakeOutput())
	assert.Contains(t, out, "[NAK] LINE BUFFER_OVERFLOW")

	// The channel is usable again immediately.
	assert.Contains(t, r.send("STATUS"), "[ACK] STATUS OK")
}

// assertionError is a tiny error type so sensor tests can set failures
// without importing errors in every case.
type assertionError string

func (e assertionError) Error() string { return string(e) }
