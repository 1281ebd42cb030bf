package core

// Telemetry is a single comma-joined key:value line so the host side can
// split on ',' and ':' without a real parser. Stale channels keep their
// last value; the ERR bitmask tells the reader which groups to distrust.
func (c *Controller) emitTelemetry(now uint32) {
	s := c.sensors.Snapshot()

	feeding := 0
	if c.FeedActive() {
		feeding = 1
	}

	c.println("[DATA] TEMP1:" + ftoa(s.FeedTemp.Value, 1) +
		",HUM1:" + ftoa(s.FeedHumidity.Value, 1) +
		",TEMP2:" + ftoa(s.ControlTemp.Value, 1) +
		",HUM2:" + ftoa(s.ControlHumidity.Value, 1) +
		",WEIGHT:" + ftoa(s.Weight.Value, 3) +
		",BATV:" + ftoa(s.LoadVoltage.Value, 2) +
		",BATI:" + ftoa(s.LoadCurrent.Value, 2) +
		",SOLV:" + ftoa(s.SolarVoltage.Value, 2) +
		",SOLI:" + ftoa(s.SolarCurrent.Value, 2) +
		",SOIL:" + ftoa(s.SoilMoisture.Value, 1) +
		",LED:" + boolDigit(c.state.RelayLED) +
		",FAN:" + boolDigit(c.state.RelayFan) +
		",BLOWER:" + itoa(int(c.state.BlowerSpeed)) +
		",ACTUATOR:" + itoa(int(c.state.Actuator)) +
		",AUGER:" + itoa(int(c.state.Auger)) +
		",FEEDING:" + itoa(feeding) +
		",STEP:" + itoa(c.FeedStep()) +
		",ERR:" + utoa(s.ErrorBits()) +
		",TIME:" + utoa(now/1000))
}

// emitConfig mirrors the live configuration so an observer that attached
// mid-run can learn the speeds and portions without asking.
func (c *Controller) emitConfig(now uint32) {
	c.println("[CONFIG] AUGER_FWD:" + itoa(int(c.cfg.AugerSpeedFwd)) +
		",AUGER_BACK:" + itoa(int(c.cfg.AugerSpeedBack)) +
		",BLOWER:" + itoa(int(c.cfg.BlowerSpeed)) +
		",ACTUATOR:" + itoa(int(c.cfg.ActuatorSpeed)) +
		",TEMP_TH:" + ftoa(c.cfg.TempThreshold, 1) +
		",TEMP_HYST:" + ftoa(c.cfg.TempHysteresis, 1) +
		",AUTO_FAN:" + boolDigit(c.cfg.AutoFanEnabled) +
		",FEED_S:" + ftoa(c.cfg.FeedSmall, 3) +
		",FEED_M:" + ftoa(c.cfg.FeedMedium, 3) +
		",FEED_L:" + ftoa(c.cfg.FeedLarge, 3) +
		",T_UP:" + ftoa(c.cfg.ActuatorUpSec, 1) +
		",T_DOWN:" + ftoa(c.cfg.ActuatorDownSec, 1) +
		",T_AUGER:" + ftoa(c.cfg.AugerSec, 1) +
		",T_BLOWER:" + ftoa(c.cfg.BlowerSec, 1) +
		",TIME:" + utoa(now/1000))
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
