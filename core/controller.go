package core

import "errors"

// Sensors bundles the sensor drivers handed to the controller. Nil entries
// are tolerated; their channels simply stay stale.
type Sensors struct {
	DHTFeed    DHTSensor
	DHTControl DHTSensor
	Weight     WeightSensor
	Analog     AnalogBank
}

// Options wires a Controller to its hardware and storage.
type Options struct {
	GPIO    GPIODriver
	PWM     PWMDriver
	Pins    BoardPins
	Store   NVStore
	Clock   Clock
	Sensors Sensors
}

// Controller owns every output and all mutable state of the feeder. It is
// built once by the main loop and passed nowhere implicitly: no package
// globals, so tests construct as many independent controllers as they like.
type Controller struct {
	gpio  GPIODriver
	pwm   PWMDriver
	pins  BoardPins
	nv    NVStore
	clock Clock

	cfg     SystemConfig
	state   SystemState
	sensors SensorReader
	cal     *CalibrationStore
	slots   [slotCount]autoStopSlot
	feed    feedSession

	line lineReader
	out  []byte

	verbose bool

	lastSensorMS    uint32
	lastTelemetryMS uint32
	lastConfigMS    uint32
	lastFanMS       uint32
	started         bool
}

// NewController configures all output pins, loads config and calibration
// from the store, and leaves every device stopped.
func NewController(opts Options) (*Controller, error) {
	if opts.GPIO == nil || opts.PWM == nil {
		return nil, errors.New("controller: GPIO and PWM drivers are required")
	}
	if opts.Store == nil {
		return nil, errors.New("controller: non-volatile store is required")
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}

	c := &Controller{
		gpio:  opts.GPIO,
		pwm:   opts.PWM,
		pins:  opts.Pins,
		nv:    opts.Store,
		clock: opts.Clock,
	}
	c.sensors.DHTFeed = opts.Sensors.DHTFeed
	c.sensors.DHTControl = opts.Sensors.DHTControl
	c.sensors.Weight = opts.Sensors.Weight
	c.sensors.Analog = opts.Sensors.Analog

	for _, pin := range []GPIOPin{
		opts.Pins.RelayLED, opts.Pins.RelayFan,
		opts.Pins.Auger.IN1, opts.Pins.Auger.IN2,
		opts.Pins.Actuator.IN1, opts.Pins.Actuator.IN2,
	} {
		if err := c.gpio.ConfigureOutput(pin); err != nil {
			return nil, err
		}
	}
	for _, pin := range []PWMPin{
		opts.Pins.Auger.ENA, opts.Pins.Actuator.ENA,
		opts.Pins.BlowerR, opts.Pins.BlowerL,
	} {
		if err := c.pwm.ConfigureOutput(pin); err != nil {
			return nil, err
		}
	}

	c.cfg, _ = LoadConfig(c.nv)

	if opts.Sensors.Weight != nil {
		c.cal = NewCalibrationStore(c.nv, opts.Sensors.Weight, c.clock)
		c.cal.Load()
	}

	c.setRelay(c.pins.RelayLED, false)
	c.setRelay(c.pins.RelayFan, false)
	c.stopAll()

	return c, nil
}

// Config returns the live configuration.
func (c *Controller) Config() *SystemConfig {
	return &c.cfg
}

// State returns the live output state.
func (c *Controller) State() *SystemState {
	return &c.state
}

// Snapshot returns the current sensor readings.
func (c *Controller) Snapshot() *SensorSnapshot {
	return c.sensors.Snapshot()
}

func (c *Controller) now() uint32 {
	return c.clock()
}

func (c *Controller) saveConfig() {
	_ = SaveConfig(c.nv, &c.cfg)
}

// setRelay maps logical on/off to the active-low relay board. This is the
// single negation point between logical and physical relay state.
func (c *Controller) setRelay(pin GPIOPin, on bool) {
	c.gpio.SetPin(pin, !on)
}

// setMotor drives one IN1/IN2/ENA motor channel. The direction pins always
// change before the enable duty so a direction swap cannot glitch at speed.
func (c *Controller) setMotor(pins MotorPins, dir Direction, speed uint8) {
	switch dir {
	case DirForward:
		c.gpio.SetPin(pins.IN1, true)
		c.gpio.SetPin(pins.IN2, false)
	case DirReverse:
		c.gpio.SetPin(pins.IN1, false)
		c.gpio.SetPin(pins.IN2, true)
	default:
		c.gpio.SetPin(pins.IN1, false)
		c.gpio.SetPin(pins.IN2, false)
		speed = 0
	}
	c.pwm.SetDuty(pins.ENA, speed)
}

func (c *Controller) setBlower(speed uint8) {
	c.pwm.SetDuty(c.pins.BlowerR, speed)
	c.pwm.SetDuty(c.pins.BlowerL, 0)
	c.state.BlowerSpeed = speed
}

// Stop actions. All idempotent: stopping a stopped device writes the same
// safe state again.

func (c *Controller) stopAuger() {
	c.setMotor(c.pins.Auger, DirStopped, 0)
	c.state.Auger = DirStopped
}

func (c *Controller) stopActuator() {
	c.setMotor(c.pins.Actuator, DirStopped, 0)
	c.state.Actuator = DirStopped
}

func (c *Controller) stopBlower() {
	c.setBlower(0)
}

func (c *Controller) stopAll() {
	c.stopAuger()
	c.stopActuator()
	c.stopBlower()
}

func (c *Controller) startAuger(dir Direction) {
	speed := c.cfg.AugerSpeedFwd
	if dir == DirReverse {
		speed = c.cfg.AugerSpeedBack
	}
	c.setMotor(c.pins.Auger, dir, speed)
	c.state.Auger = dir
}

func (c *Controller) startActuator(dir Direction) {
	c.setMotor(c.pins.Actuator, dir, c.cfg.ActuatorSpeed)
	c.state.Actuator = dir
}

// print appends to the pending output. Everything the controller says goes
// through here; the target main loop flushes it to the serial link.
func (c *Controller) print(s string) {
	c.out = append(c.out, s...)
}

func (c *Controller) println(s string) {
	c.out = append(c.out, s...)
	c.out = append(c.out, '\n')
}

func (c *Controller) info(s string) {
	if c.verbose {
		c.println("[INFO] " + s)
	}
}

// TakeOutput returns pending output and clears the buffer.
func (c *Controller) TakeOutput() []byte {
	if len(c.out) == 0 {
		return nil
	}
	out := make([]byte, len(c.out))
	copy(out, c.out)
	c.out = c.out[:0]
	return out
}
