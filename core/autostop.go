package core

import "errors"

// Slot names one timed-operation registry entry.
type Slot uint8

const (
	SlotActuator Slot = iota
	SlotAuger
	SlotBlower
	slotCount
)

// Timed operations accept durations in (0, MaxTimedSeconds].
const MaxTimedSeconds = 30

var errBadDuration = errors.New("duration out of range")

// autoStopSlot is one countdown entry. The deadline is meaningful only
// while armed is set; the hardware start action is always issued by the
// caller at arm time, never by the registry.
type autoStopSlot struct {
	armed    bool
	deadline uint32
}

// validDuration rejects a timed-operation duration before any hardware
// write happens.
func validDuration(seconds float32) bool {
	return seconds > 0 && seconds <= MaxTimedSeconds
}

// armSlot schedules the device's stop action. Re-arming an armed slot
// overwrites the previous deadline: last write wins, no queuing.
func (c *Controller) armSlot(s Slot, seconds float32) error {
	if !validDuration(seconds) {
		return errBadDuration
	}
	c.slots[s].armed = true
	c.slots[s].deadline = c.now() + uint32(seconds*1000)
	return nil
}

// disarmSlot cancels a pending auto-stop. Explicit stop commands call this
// so a stale timer cannot revive a manually-stopped device.
func (c *Controller) disarmSlot(s Slot) {
	c.slots[s].armed = false
}

func (c *Controller) slotArmed(s Slot) bool {
	return c.slots[s].armed
}

// checkAutoStops fires every expired slot: stop the device, disarm.
// Wrap-safe comparison, same arithmetic as the deadline computation.
func (c *Controller) checkAutoStops(now uint32) {
	if c.slots[SlotActuator].armed && timeReached(now, c.slots[SlotActuator].deadline) {
		c.slots[SlotActuator].armed = false
		c.stopActuator()
		c.info("Actuator_Auto_Stopped")
	}
	if c.slots[SlotAuger].armed && timeReached(now, c.slots[SlotAuger].deadline) {
		c.slots[SlotAuger].armed = false
		c.stopAuger()
		c.info("Auger_Auto_Stopped")
	}
	if c.slots[SlotBlower].armed && timeReached(now, c.slots[SlotBlower].deadline) {
		c.slots[SlotBlower].armed = false
		c.stopBlower()
		c.info("Blower_Auto_Stopped")
	}
}

// timeReached reports now >= deadline under wrap-around arithmetic.
func timeReached(now, deadline uint32) bool {
	return int32(now-deadline) >= 0
}
