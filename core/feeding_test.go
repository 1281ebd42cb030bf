package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosedLoopFeedReachesTarget(t *testing.T) {
	r := newTestRig(t)
	pins := SimBoardPins()
	r.scale.SetWeight(2.0)

	out := r.send("FEED:0.1")
	require.Contains(t, out, "[ACK] FEED:0.1 FEED_STARTED")
	assert.Contains(t, out, "[FEED_START]")
	assert.Contains(t, out, "\"initial_weight\":2.000")
	assert.Equal(t, DirForward, r.c.State().Auger)

	// Hopper slowly loses weight but stays above the 1.9 target.
	r.scale.SetWeight(1.95)
	r.tick(1000)
	assert.True(t, r.c.FeedActive())

	r.scale.SetWeight(1.89)
	r.tick(1000)
	assert.False(t, r.c.FeedActive())
	assert.Equal(t, DirStopped, r.c.State().Auger)
	assert.EqualValues(t, 0, r.pwm.Duty[pins.Auger.ENA])

	out = string(r.c.TakeOutput())
	assert.Contains(t, out, "[FEED_COMPLETE]")
	assert.Contains(t, out, "\"reason\":\"target_reached\"")
}

func TestClosedLoopFeedTimesOut(t *testing.T) {
	r := newTestRig(t)
	r.scale.SetWeight(2.0)

	r.send("FEED:0.5")
	// Weight never moves; the safety timeout must fire.
	for i := 0; i < 30; i++ {
		r.tick(1000)
	}
	r.tick(1000)
	assert.False(t, r.c.FeedActive())
	assert.Equal(t, DirStopped, r.c.State().Auger)

	out := string(r.c.TakeOutput())
	assert.Contains(t, out, "\"reason\":\"timeout\"")
}

func TestClosedLoopFeedEmitsProgress(t *testing.T) {
	r := newTestRig(t)
	r.scale.SetWeight(2.0)

	r.send("FEED:0.5")
	r.c.TakeOutput()
	r.tick(1000)
	assert.NotContains(t, string(r.c.TakeOutput()), "[FEED_PROGRESS]")
	r.tick(1000)
	out := string(r.c.TakeOutput())
	assert.Contains(t, out, "[FEED_PROGRESS]")
	assert.Contains(t, out, "\"target\":1.500")
}

func TestSecondFeedRejectedWhileActive(t *testing.T) {
	r := newTestRig(t)
	r.scale.SetWeight(2.0)

	r.send("FEED:0.5")
	out := r.send("FEED:0.1")
	assert.Contains(t, out, "[NAK] FEED:0.1 ALREADY_FEEDING")

	out = r.send("FEED:SEQ:0.1:2:2:5:3")
	assert.Contains(t, out, "ALREADY_FEEDING")
}

func TestFeedAmountValidation(t *testing.T) {
	r := newTestRig(t)
	r.scale.SetWeight(2.0)

	for _, cmd := range []string{"FEED:0", "FEED:-0.5", "FEED:1.5", "FEED:abc"} {
		out := r.send(cmd)
		assert.Contains(t, out, "INVALID_AMOUNT", "command %q", cmd)
		assert.False(t, r.c.FeedActive())
	}
}

func TestFeedPresets(t *testing.T) {
	r := newTestRig(t)
	r.scale.SetWeight(2.0)

	r.send("CFG:FEED_MEDIUM:0.15")
	out := r.send("FEED:MEDIUM")
	assert.Contains(t, out, "FEED_STARTED")
	assert.Contains(t, out, "\"amount\":0.150")
}

func TestStaleWeightBlocksClosedLoopOnly(t *testing.T) {
	r := newTestRig(t)
	r.scale.Err = errors.New("hx711 timeout")

	out := r.send("FEED:0.1")
	assert.Contains(t, out, "[NAK] FEED:0.1 WEIGHT_INVALID")
	assert.Equal(t, DirStopped, r.c.State().Auger)

	// The duration-only variant does not need the scale.
	out = r.send("FEED:SEQ:0.1:2:2:5:3")
	assert.Contains(t, out, "FEED_SEQ_STARTED")
	assert.True(t, r.c.FeedActive())
}

func TestClosedLoopAbortsOnWeightFailure(t *testing.T) {
	r := newTestRig(t)
	r.scale.SetWeight(2.0)

	r.send("FEED:0.5")
	r.scale.Err = errors.New("hx711 timeout")
	r.tick(1000)
	assert.False(t, r.c.FeedActive())
	assert.Contains(t, string(r.c.TakeOutput()), "\"reason\":\"weight_invalid\"")
}

func TestScriptedFeedAdvancesPerSlotExpiry(t *testing.T) {
	r := newTestRig(t)
	pins := SimBoardPins()
	r.scale.SetWeight(2.0)

	out := r.send("FEED:SEQ:0.1:2:1:10:5")
	require.Contains(t, out, "FEED_SEQ_STARTED")
	assert.Equal(t, 1, r.c.FeedStep())
	assert.Equal(t, DirForward, r.c.State().Actuator)

	// Step 1 ends at 2s; the expiry tick stops the actuator, the next
	// tick starts the auger.
	r.tick(2000)
	r.tick(1)
	assert.Equal(t, 2, r.c.FeedStep())
	assert.Equal(t, DirStopped, r.c.State().Actuator)
	assert.Equal(t, DirForward, r.c.State().Auger)

	// Auger runs 10s.
	r.tick(10000)
	r.tick(1)
	assert.Equal(t, 3, r.c.FeedStep())
	assert.Equal(t, DirStopped, r.c.State().Auger)
	assert.Equal(t, DirReverse, r.c.State().Actuator)

	// Actuator down 1s.
	r.tick(1000)
	r.tick(1)
	assert.Equal(t, 4, r.c.FeedStep())
	assert.Equal(t, DirStopped, r.c.State().Actuator)
	assert.EqualValues(t, r.c.Config().BlowerSpeed, r.pwm.Duty[pins.BlowerR])

	// Blower 5s, then the session ends.
	r.tick(5000)
	r.tick(1)
	assert.False(t, r.c.FeedActive())
	assert.EqualValues(t, 0, r.pwm.Duty[pins.BlowerR])
	assert.Contains(t, string(r.c.TakeOutput()), "\"reason\":\"sequence_complete\"")
}

func TestScriptedFeedValidatesDurations(t *testing.T) {
	r := newTestRig(t)

	for _, cmd := range []string{
		"FEED:SEQ:0.1:0:2:5:3",
		"FEED:SEQ:0.1:2:2:31:3",
		"FEED:SEQ:0.1:2:2:5",
	} {
		out := r.send(cmd)
		assert.Contains(t, out, "[NAK]", "command %q", cmd)
		assert.False(t, r.c.FeedActive())
		assert.Equal(t, DirStopped, r.c.State().Actuator)
	}
}
