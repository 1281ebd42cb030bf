package core

type handlerFunc func(c *Controller, req Request)

type commandEntry struct {
	verb string
	fn   handlerFunc
}

// commandTable is scanned in order; first verb match wins. Longer literal
// verbs (CFG, FEED, MOTOR) live in the same table as the single-letter
// opcodes, so precedence is explicit rather than accidental.
var commandTable = []commandEntry{
	{"R", (*Controller).handleRelay},
	{"G", (*Controller).handleAuger},
	{"B", (*Controller).handleBlower},
	{"A", (*Controller).handleActuator},
	{"U", (*Controller).handleActuatorUp},
	{"D", (*Controller).handleActuatorDown},
	{"MOTOR", (*Controller).handleMotor},
	{"FEED", (*Controller).handleFeed},
	{"CAL", (*Controller).handleCal},
	{"CFG", (*Controller).handleCfg},
	{"TIMING", (*Controller).handleTiming},
	{"TARE", (*Controller).handleTare},
	{"STATUS", (*Controller).handleStatus},
	{"TEST", (*Controller).handleTest},
	{"INIT", (*Controller).handleInit},
	{"FAST", (*Controller).handleFast},
	{"SHUTDOWN", (*Controller).handleShutdown},
}

// Legacy single-key menu commands from the old interactive console.
// Swallowed without a reply so an attached terminal stays quiet.
func silentCommand(raw string) bool {
	return raw == "m" || raw == "s" || raw == "h"
}

// Dispatch parses one line and executes each ';'-separated command in
// order within the current tick.
func (c *Controller) Dispatch(line string) {
	for _, cmd := range SplitCommands(line) {
		c.execute(ParseRequest(cmd))
	}
}

func (c *Controller) execute(req Request) {
	if silentCommand(req.Raw) {
		return
	}
	for _, e := range commandTable {
		if e.verb == req.Verb {
			e.fn(c, req)
			return
		}
	}
	c.nak(req.Raw, "UNKNOWN_COMMAND")
}

func (c *Controller) ack(echo, action string) {
	c.println("[ACK] " + echo + " " + action)
}

func (c *Controller) nak(echo, reason string) {
	c.println("[NAK] " + echo + " " + reason)
}

func (c *Controller) handleRelay(req Request) {
	n, ok := parseInt(req.Args)
	if !ok {
		c.nak(req.Raw, "INVALID_RELAY_CMD")
		return
	}
	switch n {
	case 1:
		c.setFanManual(true)
		c.ack(req.Raw, "FAN_ON")
	case 2:
		c.setFanManual(false)
		c.ack(req.Raw, "FAN_OFF")
	case 3:
		c.setLED(true)
		c.ack(req.Raw, "LED_ON")
	case 4:
		c.setLED(false)
		c.ack(req.Raw, "LED_OFF")
	case 5:
		c.setFanManual(true)
		c.setLED(true)
		c.ack(req.Raw, "ALL_ON")
	case 0:
		c.setFanManual(false)
		c.setLED(false)
		c.ack(req.Raw, "ALL_OFF")
	case 7:
		c.setFanManual(!c.state.RelayFan)
		if c.state.RelayFan {
			c.ack(req.Raw, "FAN_TOGGLE_ON")
		} else {
			c.ack(req.Raw, "FAN_TOGGLE_OFF")
		}
	case 8:
		c.setLED(!c.state.RelayLED)
		if c.state.RelayLED {
			c.ack(req.Raw, "LED_TOGGLE_ON")
		} else {
			c.ack(req.Raw, "LED_TOGGLE_OFF")
		}
	default:
		c.nak(req.Raw, "INVALID_RELAY_CMD")
	}
}

func (c *Controller) handleAuger(req Request) {
	n, ok := parseInt(req.Args)
	if !ok {
		c.nak(req.Raw, "INVALID_AUGER_CMD")
		return
	}
	switch n {
	case 1:
		c.startAuger(DirForward)
		c.ack(req.Raw, "AUGER_FORWARD")
	case 2:
		c.startAuger(DirReverse)
		c.ack(req.Raw, "AUGER_BACKWARD")
	case 0:
		c.disarmSlot(SlotAuger)
		c.stopAuger()
		c.ack(req.Raw, "AUGER_STOP")
	case 3:
		// Old blocking speed-sweep diagnostic. It stalled the loop for
		// seconds at a time, so it stays refused.
		c.nak(req.Raw, "DIAGNOSTIC_DISABLED")
	default:
		c.nak(req.Raw, "INVALID_AUGER_CMD")
	}
}

func (c *Controller) handleBlower(req Request) {
	n, ok := parseInt(req.Args)
	if !ok {
		c.nak(req.Raw, "INVALID_BLOWER_CMD")
		return
	}
	switch n {
	case 0:
		c.disarmSlot(SlotBlower)
		c.stopBlower()
		c.ack(req.Raw, "BLOWER_OFF")
	case 1:
		c.setBlower(c.cfg.BlowerSpeed)
		c.ack(req.Raw, "BLOWER_ON")
	case 2:
		if c.state.BlowerOn() {
			c.disarmSlot(SlotBlower)
			c.stopBlower()
			c.ack(req.Raw, "BLOWER_TOGGLE_OFF")
		} else {
			c.setBlower(c.cfg.BlowerSpeed)
			c.ack(req.Raw, "BLOWER_TOGGLE_ON")
		}
	default:
		// Anything else is a raw PWM duty request.
		if n < 0 || n > PWMMax {
			c.nak(req.Raw, "INVALID_PWM")
			return
		}
		c.setBlower(uint8(n))
		c.ack(req.Raw, "BLOWER_PWM_"+itoa(n))
	}
}

func (c *Controller) handleActuator(req Request) {
	n, ok := parseInt(req.Args)
	if !ok {
		c.nak(req.Raw, "INVALID_ACTUATOR_CMD")
		return
	}
	switch n {
	case 1:
		c.startActuator(DirForward)
		c.ack(req.Raw, "ACTUATOR_OPEN")
	case 2:
		c.startActuator(DirReverse)
		c.ack(req.Raw, "ACTUATOR_CLOSE")
	case 0:
		c.disarmSlot(SlotActuator)
		c.stopActuator()
		c.ack(req.Raw, "ACTUATOR_STOP")
	default:
		c.nak(req.Raw, "INVALID_ACTUATOR_CMD")
	}
}

func (c *Controller) handleActuatorUp(req Request) {
	c.timedActuator(req, DirForward, "ACTUATOR_UP")
}

func (c *Controller) handleActuatorDown(req Request) {
	c.timedActuator(req, DirReverse, "ACTUATOR_DOWN")
}

func (c *Controller) timedActuator(req Request, dir Direction, action string) {
	sec, ok := parseFloat(req.Args)
	if !ok || !validDuration(sec) {
		c.nak(req.Raw, "INVALID_DURATION")
		return
	}
	c.startActuator(dir)
	_ = c.armSlot(SlotActuator, sec)
	c.ack(req.Raw, action+"_TIMED")
}

// handleMotor covers MOTOR:<device>:<action>[:<seconds>]. The duration,
// when present, is validated before any hardware write.
func (c *Controller) handleMotor(req Request) {
	fields := splitArgs(req.Args)
	if len(fields) < 2 || len(fields) > 3 {
		c.nak(req.Raw, "INVALID_FORMAT")
		return
	}
	device := lower(fields[0])
	action := lower(fields[1])

	timed := false
	var sec float32
	if len(fields) == 3 {
		v, ok := parseFloat(fields[2])
		if !ok {
			c.nak(req.Raw, "INVALID_DURATION")
			return
		}
		if v != 0 {
			if !validDuration(v) {
				c.nak(req.Raw, "INVALID_DURATION")
				return
			}
			timed, sec = true, v
		}
	}

	switch device {
	case "auger":
		switch action {
		case "forward", "on":
			c.startAuger(DirForward)
			c.ack(req.Raw, "AUGER_FORWARD")
		case "backward", "reverse":
			c.startAuger(DirReverse)
			c.ack(req.Raw, "AUGER_BACKWARD")
		case "stop", "off":
			c.disarmSlot(SlotAuger)
			c.stopAuger()
			c.ack(req.Raw, "AUGER_STOP")
			return
		default:
			c.nak(req.Raw, "INVALID_ACTION")
			return
		}
		if timed {
			_ = c.armSlot(SlotAuger, sec)
		}
	case "blower":
		switch action {
		case "on", "start":
			c.setBlower(c.cfg.BlowerSpeed)
			c.ack(req.Raw, "BLOWER_ON")
		case "off", "stop":
			c.disarmSlot(SlotBlower)
			c.stopBlower()
			c.ack(req.Raw, "BLOWER_OFF")
			return
		default:
			c.nak(req.Raw, "INVALID_ACTION")
			return
		}
		if timed {
			_ = c.armSlot(SlotBlower, sec)
		}
	case "actuator":
		switch action {
		case "up", "open", "extend":
			c.startActuator(DirForward)
			c.ack(req.Raw, "ACTUATOR_OPEN")
		case "down", "close", "retract":
			c.startActuator(DirReverse)
			c.ack(req.Raw, "ACTUATOR_CLOSE")
		case "stop", "off":
			c.disarmSlot(SlotActuator)
			c.stopActuator()
			c.ack(req.Raw, "ACTUATOR_STOP")
			return
		default:
			c.nak(req.Raw, "INVALID_ACTION")
			return
		}
		if timed {
			_ = c.armSlot(SlotActuator, sec)
		}
	default:
		c.nak(req.Raw, "UNKNOWN_DEVICE")
	}
}

func (c *Controller) handleFeed(req Request) {
	fields := splitArgs(req.Args)
	if len(fields) == 0 {
		c.nak(req.Raw, "INVALID_AMOUNT")
		return
	}

	if fields[0] == "SEQ" {
		if len(fields) != 6 {
			c.nak(req.Raw, "INVALID_FORMAT")
			return
		}
		var vals [5]float32
		for i := 0; i < 5; i++ {
			v, ok := parseFloat(fields[i+1])
			if !ok {
				c.nak(req.Raw, "INVALID_FORMAT")
				return
			}
			vals[i] = v
		}
		if err := c.startScriptedFeed(vals[0], vals[1], vals[2], vals[3], vals[4]); err != nil {
			c.nak(req.Raw, feedNakReason(err))
			return
		}
		c.ack(req.Raw, "FEED_SEQ_STARTED")
		return
	}

	var amount float32
	switch fields[0] {
	case "SMALL":
		amount = c.cfg.FeedSmall
	case "MEDIUM":
		amount = c.cfg.FeedMedium
	case "LARGE":
		amount = c.cfg.FeedLarge
	default:
		v, ok := parseFloat(fields[0])
		if !ok {
			c.nak(req.Raw, "INVALID_AMOUNT")
			return
		}
		amount = v
	}
	if err := c.startClosedLoopFeed(amount); err != nil {
		c.nak(req.Raw, feedNakReason(err))
		return
	}
	c.ack(req.Raw, "FEED_STARTED")
}

func feedNakReason(err error) string {
	switch err {
	case errAlreadyFeeding:
		return "ALREADY_FEEDING"
	case errFeedAmount:
		return "INVALID_AMOUNT"
	case errWeightUnavailable:
		return "WEIGHT_INVALID"
	case errBadDuration:
		return "INVALID_DURATION"
	}
	return "FEED_REJECTED"
}

func (c *Controller) handleCal(req Request) {
	if c.cal == nil {
		c.nak(req.Raw, "NO_WEIGHT_SENSOR")
		return
	}
	fields := splitArgs(req.Args)
	if len(fields) == 0 {
		c.nak(req.Raw, "INVALID_CAL_CMD")
		return
	}
	switch lower(fields[0]) {
	case "tare":
		if err := c.cal.Tare(); err != nil {
			c.nak(req.Raw, "TARE_FAILED")
			return
		}
		c.ack(req.Raw, "WEIGHT_TARED")
	case "reset":
		if err := c.cal.Reset(); err != nil {
			c.nak(req.Raw, "RESET_FAILED")
			return
		}
		c.ack(req.Raw, "CALIBRATION_RESET")
	case "weight":
		if len(fields) != 2 {
			c.nak(req.Raw, "INVALID_WEIGHT")
			return
		}
		kg, ok := parseFloat(fields[1])
		if !ok {
			c.nak(req.Raw, "INVALID_WEIGHT")
			return
		}
		factor, err := c.cal.Calibrate(kg)
		if err != nil {
			if err == errCalNoSignal {
				c.nak(req.Raw, "NO_SIGNAL")
			} else {
				c.nak(req.Raw, "INVALID_WEIGHT")
			}
			return
		}
		c.ack(req.Raw, "SCALE_"+ftoa(factor, 2))
	default:
		c.nak(req.Raw, "INVALID_CAL_CMD")
	}
}

func (c *Controller) handleCfg(req Request) {
	fields := splitArgs(req.Args)
	if len(fields) != 2 {
		c.nak(req.Raw, "INVALID_CONFIG")
		return
	}
	param, value := fields[0], fields[1]

	setSpeed := func(dst *uint8) {
		n, ok := parseInt(value)
		if !ok || n < 0 || n > PWMMax {
			c.nak(req.Raw, "INVALID_VALUE")
			return
		}
		*dst = uint8(n)
		c.saveConfig()
		c.ack(req.Raw, "OK")
	}
	setPortion := func(dst *float32) {
		v, ok := parseFloat(value)
		if !ok || v <= 0 || v > MaxFeedKG {
			c.nak(req.Raw, "INVALID_VALUE")
			return
		}
		*dst = v
		c.saveConfig()
		c.ack(req.Raw, "OK")
	}

	switch param {
	case "AUGER_SPEED":
		setSpeed(&c.cfg.AugerSpeedFwd)
	case "AUGER_SPEED_BACK":
		setSpeed(&c.cfg.AugerSpeedBack)
	case "BLOWER_SPEED":
		setSpeed(&c.cfg.BlowerSpeed)
	case "ACTUATOR_SPEED":
		setSpeed(&c.cfg.ActuatorSpeed)
	case "TEMP_THRESHOLD":
		v, ok := parseFloat(value)
		if !ok || v < 0 || v > 80 {
			c.nak(req.Raw, "INVALID_VALUE")
			return
		}
		c.cfg.TempThreshold = v
		c.saveConfig()
		c.ack(req.Raw, "OK")
	case "TEMP_HYSTERESIS":
		v, ok := parseFloat(value)
		if !ok || v < 0 || v > 20 {
			c.nak(req.Raw, "INVALID_VALUE")
			return
		}
		c.cfg.TempHysteresis = v
		c.saveConfig()
		c.ack(req.Raw, "OK")
	case "AUTO_FAN":
		n, ok := parseInt(value)
		if !ok || (n != 0 && n != 1) {
			c.nak(req.Raw, "INVALID_VALUE")
			return
		}
		c.cfg.AutoFanEnabled = n == 1
		if !c.cfg.AutoFanEnabled && c.state.AutoFanActive {
			c.state.AutoFanActive = false
			c.setRelay(c.pins.RelayFan, false)
			c.state.RelayFan = false
		}
		c.saveConfig()
		c.ack(req.Raw, "OK")
	case "FEED_SMALL":
		setPortion(&c.cfg.FeedSmall)
	case "FEED_MEDIUM":
		setPortion(&c.cfg.FeedMedium)
	case "FEED_LARGE":
		setPortion(&c.cfg.FeedLarge)
	default:
		c.nak(req.Raw, "INVALID_CONFIG")
	}
}

func (c *Controller) handleTiming(req Request) {
	fields := splitArgs(req.Args)
	if len(fields) != 4 {
		c.nak(req.Raw, "INVALID_FORMAT")
		return
	}
	var vals [4]float32
	for i, f := range fields {
		v, ok := parseFloat(f)
		if !ok || !validDuration(v) {
			c.nak(req.Raw, "INVALID_DURATION")
			return
		}
		vals[i] = v
	}
	c.cfg.ActuatorUpSec = vals[0]
	c.cfg.ActuatorDownSec = vals[1]
	c.cfg.AugerSec = vals[2]
	c.cfg.BlowerSec = vals[3]
	c.saveConfig()
	c.ack(req.Raw, "TIMING_SET")
}

func (c *Controller) handleTare(req Request) {
	if c.cal == nil {
		c.nak(req.Raw, "NO_WEIGHT_SENSOR")
		return
	}
	if err := c.cal.Tare(); err != nil {
		c.nak(req.Raw, "TARE_FAILED")
		return
	}
	c.ack(req.Raw, "WEIGHT_TARED")
}

func (c *Controller) handleStatus(req Request) {
	c.emitTelemetry(c.now())
	c.emitConfig(c.now())
	c.ack(req.Raw, "OK")
}

// handleTest runs every sensor phase back to back and reports the error
// bitmask. Unlike the old firmware's test menu it never blocks on motor
// sweeps.
func (c *Controller) handleTest(req Request) {
	c.sensors.RunAll()
	bits := c.sensors.Snapshot().ErrorBits()
	if bits == 0 {
		c.ack(req.Raw, "SENSORS_OK")
		return
	}
	c.ack(req.Raw, "SENSOR_ERR_"+utoa(bits))
}

func (c *Controller) handleInit(req Request) {
	c.sensors.RunAll()
	if c.cal != nil {
		c.cal.Load()
	}
	c.ack(req.Raw, "REINITIALIZED")
}

func (c *Controller) handleFast(req Request) {
	n, ok := parseInt(req.Args)
	if !ok || (n != 0 && n != 1) {
		c.nak(req.Raw, "INVALID_VALUE")
		return
	}
	// Fast mode suppresses [INFO] chatter; the data stream is unchanged.
	c.verbose = n == 0
	if n == 1 {
		c.ack(req.Raw, "FAST_ON")
	} else {
		c.ack(req.Raw, "FAST_OFF")
	}
}

func (c *Controller) handleShutdown(req Request) {
	if c.feed.phase != FeedIdle {
		c.finishFeed(c.now(), "shutdown")
	}
	for s := Slot(0); s < slotCount; s++ {
		c.disarmSlot(s)
	}
	c.stopAll()
	c.setRelay(c.pins.RelayFan, false)
	c.state.RelayFan = false
	c.state.AutoFanActive = false
	c.setRelay(c.pins.RelayLED, false)
	c.state.RelayLED = false
	if c.cal != nil {
		_ = c.cal.Save()
	}
	c.saveConfig()
	c.ack(req.Raw, "SAFE_SHUTDOWN")
}

// setFanManual drives the fan relay from a command, taking it away from
// the auto-fan controller until the next threshold crossing.
func (c *Controller) setFanManual(on bool) {
	c.setRelay(c.pins.RelayFan, on)
	c.state.RelayFan = on
	c.state.AutoFanActive = false
}

func (c *Controller) setLED(on bool) {
	c.setRelay(c.pins.RelayLED, on)
	c.state.RelayLED = on
}

func lower(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
