package core

// Loop cadences in milliseconds. The tick itself can run as fast as the
// target wants; everything here is edge-triggered off the shared clock.
const (
	SensorIntervalMS       = 2000
	TelemetryIntervalMS    = 3000
	FanCheckIntervalMS     = 5000
	ConfigReportIntervalMS = 30000
)

// ProcessByte feeds one received byte through line assembly and, on a
// complete line, dispatches it synchronously. Replies land in the output
// buffer for the caller to drain.
func (c *Controller) ProcessByte(b byte) {
	line, done, dropped := c.line.feed(b)
	if dropped {
		c.nak("LINE", "BUFFER_OVERFLOW")
		return
	}
	if done {
		c.Dispatch(line)
	}
}

// RunOnce executes one scheduler tick. Input is assumed already drained
// via ProcessByte. Fixed priority: feeding first, then auto-stop safety,
// then one sensor phase, then the slow periodic work. Nothing here
// blocks.
func (c *Controller) RunOnce(now uint32) {
	if !c.started {
		c.started = true
		c.lastSensorMS = now
		c.lastTelemetryMS = now
		c.lastConfigMS = now
		c.lastFanMS = now
		c.sensors.RunAll()
		c.info("Controller_Ready")
		return
	}

	c.tickFeeding(now)
	c.checkAutoStops(now)

	if now-c.lastSensorMS >= SensorIntervalMS {
		c.lastSensorMS = now
		c.sensors.RunPhase()
	}
	if c.cfg.AutoFanEnabled && now-c.lastFanMS >= FanCheckIntervalMS {
		c.lastFanMS = now
		c.tickAutoFan()
	}
	if now-c.lastTelemetryMS >= TelemetryIntervalMS {
		c.lastTelemetryMS = now
		c.emitTelemetry(now)
	}
	if now-c.lastConfigMS >= ConfigReportIntervalMS {
		c.lastConfigMS = now
		c.emitConfig(now)
	}
}

// tickAutoFan drives the fan relay from the mean enclosure temperature
// with hysteresis. A manual R command releases the relay back to manual
// until the next crossing.
func (c *Controller) tickAutoFan() {
	var sum float32
	var n int
	s := c.sensors.Snapshot()
	if s.FeedTemp.Valid {
		sum += s.FeedTemp.Value
		n++
	}
	if s.ControlTemp.Valid {
		sum += s.ControlTemp.Value
		n++
	}
	if n == 0 {
		return
	}
	temp := sum / float32(n)

	switch {
	case temp >= c.cfg.TempThreshold && !c.state.RelayFan:
		c.setRelay(c.pins.RelayFan, true)
		c.state.RelayFan = true
		c.state.AutoFanActive = true
		c.info("Auto_Fan_On")
	case c.state.AutoFanActive && temp <= c.cfg.TempThreshold-c.cfg.TempHysteresis:
		c.setRelay(c.pins.RelayFan, false)
		c.state.RelayFan = false
		c.state.AutoFanActive = false
		c.info("Auto_Fan_Off")
	}
}
