package core

import (
	"errors"

	"github.com/chewxy/math32"
)

// FeedPhase is the feeding sequencer state. Only one sequence may be
// non-idle at a time.
type FeedPhase uint8

const (
	FeedIdle FeedPhase = iota

	// Weight-closed-loop: auger runs until the hopper lost the requested
	// amount or the safety timeout fires.
	FeedDispensing

	// Scripted multi-step: each state is driven by one armed
	// timed-operation slot.
	FeedActuatorUp
	FeedAugerRun
	FeedActuatorDown
	FeedBlowerRun
)

const (
	// MaxFeedKG is the sanity ceiling on a single feed request.
	MaxFeedKG = 1.0

	feedTimeoutMS          = 30000
	feedProgressIntervalMS = 2000
)

var (
	errAlreadyFeeding    = errors.New("already feeding")
	errFeedAmount        = errors.New("invalid feed amount")
	errWeightUnavailable = errors.New("weight reading invalid")
)

type feedSession struct {
	phase FeedPhase

	amount        float32
	initialWeight float32
	targetWeight  float32

	// Scripted step durations in seconds: up, down, auger, blower.
	durations [4]float32

	startMS        uint32
	lastProgressMS uint32
}

// FeedActive reports whether any feeding sequence is running.
func (c *Controller) FeedActive() bool {
	return c.feed.phase != FeedIdle
}

// FeedStep exposes scripted progress to telemetry: 0 idle, 1..4 current
// step.
func (c *Controller) FeedStep() int {
	switch c.feed.phase {
	case FeedActuatorUp:
		return 1
	case FeedAugerRun:
		return 2
	case FeedActuatorDown:
		return 3
	case FeedBlowerRun:
		return 4
	default:
		return 0
	}
}

// startClosedLoopFeed begins a weight-closed-loop dispense. The target is
// initial minus requested: weight decreases as food leaves the hopper.
// Refused while another sequence runs or while the weight channel is
// stale, before any hardware write.
func (c *Controller) startClosedLoopFeed(amount float32) error {
	if c.feed.phase != FeedIdle {
		return errAlreadyFeeding
	}
	if amount <= 0 || amount > MaxFeedKG {
		return errFeedAmount
	}
	c.sensors.readWeight()
	weight := c.sensors.Snapshot().Weight
	if !weight.Valid {
		return errWeightUnavailable
	}

	now := c.now()
	c.feed = feedSession{
		phase:          FeedDispensing,
		amount:         amount,
		initialWeight:  weight.Value,
		targetWeight:   weight.Value - amount,
		startMS:        now,
		lastProgressMS: now,
	}

	c.startAuger(DirForward)
	c.emitFeedStart(amount, weight.Value)
	return nil
}

// startScriptedFeed begins the actuator-auger-actuator-blower sequence.
// Durations are seconds in (0, MaxTimedSeconds] each; every step is just
// an armed timed-operation slot, checked once per tick.
func (c *Controller) startScriptedFeed(amount, up, down, auger, blower float32) error {
	if c.feed.phase != FeedIdle {
		return errAlreadyFeeding
	}
	if amount <= 0 || amount > MaxFeedKG {
		return errFeedAmount
	}
	for _, d := range [4]float32{up, down, auger, blower} {
		if !validDuration(d) {
			return errBadDuration
		}
	}

	initial := math32.NaN()
	if w := c.sensors.Snapshot().Weight; w.Valid {
		initial = w.Value
	}

	now := c.now()
	c.feed = feedSession{
		phase:          FeedActuatorUp,
		amount:         amount,
		initialWeight:  initial,
		durations:      [4]float32{up, down, auger, blower},
		startMS:        now,
		lastProgressMS: now,
	}

	c.startActuator(DirForward)
	_ = c.armSlot(SlotActuator, up)
	c.emitFeedStart(amount, initial)
	c.info("Feed_Step_1_Actuator_Up")
	return nil
}

// tickFeeding advances the active sequence. Runs every tick, before the
// auto-stop sweep, so a finished feed never waits behind sensor reads.
func (c *Controller) tickFeeding(now uint32) {
	switch c.feed.phase {
	case FeedIdle:
		return
	case FeedDispensing:
		c.tickClosedLoop(now)
	default:
		c.tickScripted(now)
	}
}

func (c *Controller) tickClosedLoop(now uint32) {
	// While dispensing, the sequencer polls the scale itself instead of
	// waiting for the weight slot in the sensor phase rotation.
	c.sensors.readWeight()
	weight := c.sensors.Snapshot().Weight
	if !weight.Valid {
		c.finishFeed(now, "weight_invalid")
		return
	}
	if weight.Value <= c.feed.targetWeight {
		c.finishFeed(now, "target_reached")
		return
	}
	if now-c.feed.startMS > feedTimeoutMS {
		c.finishFeed(now, "timeout")
		return
	}

	if now-c.feed.lastProgressMS >= feedProgressIntervalMS {
		c.feed.lastProgressMS = now
		c.emitFeedProgress(now, weight.Value)
	}
}

func (c *Controller) tickScripted(now uint32) {
	// Each step runs until its slot expired (or was stopped by hand);
	// then the next device starts and the next slot is armed.
	switch c.feed.phase {
	case FeedActuatorUp:
		if !c.slotArmed(SlotActuator) {
			c.feed.phase = FeedAugerRun
			c.startAuger(DirForward)
			_ = c.armSlot(SlotAuger, c.feed.durations[2])
			c.info("Feed_Step_2_Auger_Run")
		}
	case FeedAugerRun:
		if !c.slotArmed(SlotAuger) {
			c.feed.phase = FeedActuatorDown
			c.startActuator(DirReverse)
			_ = c.armSlot(SlotActuator, c.feed.durations[1])
			c.info("Feed_Step_3_Actuator_Down")
		}
	case FeedActuatorDown:
		if !c.slotArmed(SlotActuator) {
			c.feed.phase = FeedBlowerRun
			c.setBlower(c.cfg.BlowerSpeed)
			_ = c.armSlot(SlotBlower, c.feed.durations[3])
			c.info("Feed_Step_4_Blower_Run")
		}
	case FeedBlowerRun:
		if !c.slotArmed(SlotBlower) {
			c.finishFeed(now, "sequence_complete")
			return
		}
	}

	if now-c.feed.lastProgressMS >= feedProgressIntervalMS {
		c.feed.lastProgressMS = now
		c.emitFeedProgress(now, c.sensors.Snapshot().Weight.Value)
	}
}

// finishFeed stops everything the sequence may have started, disarms its
// slots and emits the session-end record.
func (c *Controller) finishFeed(now uint32, reason string) {
	c.disarmSlot(SlotAuger)
	c.stopAuger()
	switch c.feed.phase {
	case FeedActuatorUp, FeedActuatorDown:
		c.disarmSlot(SlotActuator)
		c.stopActuator()
	case FeedBlowerRun:
		c.disarmSlot(SlotBlower)
		c.stopBlower()
	}

	fed := math32.NaN()
	if w := c.sensors.Snapshot().Weight; w.Valid && !math32.IsNaN(c.feed.initialWeight) {
		fed = c.feed.initialWeight - w.Value
	}

	c.println("[FEED_COMPLETE] {\"target\":" + ftoa(c.feed.amount, 3) +
		",\"fed\":" + ftoa(fed, 3) +
		",\"reason\":\"" + reason +
		"\",\"duration_ms\":" + utoa(now-c.feed.startMS) +
		",\"t\":" + utoa(now) + "}")

	c.feed = feedSession{}
}

func (c *Controller) emitFeedStart(amount, initial float32) {
	c.println("[FEED_START] {\"amount\":" + ftoa(amount, 3) +
		",\"initial_weight\":" + ftoa(initial, 3) +
		",\"t\":" + utoa(c.now()) + "}")
}

func (c *Controller) emitFeedProgress(now uint32, weight float32) {
	c.println("[FEED_PROGRESS] {\"step\":" + itoa(c.FeedStep()) +
		",\"weight\":" + ftoa(weight, 3) +
		",\"target\":" + ftoa(c.feed.targetWeight, 3) +
		",\"t\":" + utoa(now) + "}")
}
