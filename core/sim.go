package core

// Simulated hardware. Backs the package tests and the host-side bench
// console; targets provide the real drivers.

// SimGPIO records pin levels in memory.
type SimGPIO struct {
	Levels map[GPIOPin]bool
}

func NewSimGPIO() *SimGPIO {
	return &SimGPIO{Levels: make(map[GPIOPin]bool)}
}

func (g *SimGPIO) ConfigureOutput(pin GPIOPin) error {
	if _, ok := g.Levels[pin]; !ok {
		g.Levels[pin] = false
	}
	return nil
}

func (g *SimGPIO) SetPin(pin GPIOPin, high bool) {
	g.Levels[pin] = high
}

func (g *SimGPIO) ReadPin(pin GPIOPin) bool {
	return g.Levels[pin]
}

// SimPWM records the last duty written per channel.
type SimPWM struct {
	Duty map[PWMPin]uint8
}

func NewSimPWM() *SimPWM {
	return &SimPWM{Duty: make(map[PWMPin]uint8)}
}

func (p *SimPWM) ConfigureOutput(pin PWMPin) error {
	if _, ok := p.Duty[pin]; !ok {
		p.Duty[pin] = 0
	}
	return nil
}

func (p *SimPWM) SetDuty(pin PWMPin, duty uint8) {
	p.Duty[pin] = duty
}

// SimDHT returns a settable reading, or Err when set.
type SimDHT struct {
	Temp     float32
	Humidity float32
	Err      error
}

func (d *SimDHT) Read() (float32, float32, error) {
	if d.Err != nil {
		return 0, 0, d.Err
	}
	return d.Temp, d.Humidity, nil
}

// SimScale models a load cell: Raw counts in, scale/offset conversion
// out, same arithmetic as the HX711 driver.
type SimScale struct {
	Raw    float32 // current raw counts
	Err    error
	scale  float32
	offset int32
}

func NewSimScale() *SimScale {
	return &SimScale{scale: 1}
}

func (s *SimScale) ReadWeight() (float32, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return (s.Raw - float32(s.offset)) / s.scale, nil
}

func (s *SimScale) ReadRaw(samples int) (float32, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Raw - float32(s.offset), nil
}

func (s *SimScale) Tare() error {
	if s.Err != nil {
		return s.Err
	}
	s.offset = int32(s.Raw)
	return nil
}

func (s *SimScale) SetScale(scale float32) {
	if scale != 0 {
		s.scale = scale
	}
}

func (s *SimScale) SetOffset(offset int32) {
	s.offset = offset
}

func (s *SimScale) Offset() int32 {
	return s.offset
}

// SetWeight positions Raw so ReadWeight returns kg under the current
// scale/offset. Convenient in tests that think in kilograms.
func (s *SimScale) SetWeight(kg float32) {
	s.Raw = kg*s.scale + float32(s.offset)
}

// SimAnalog returns a settable sweep, or Err when set.
type SimAnalog struct {
	Readings AnalogReadings
	Err      error
}

func (a *SimAnalog) Read() (AnalogReadings, error) {
	if a.Err != nil {
		return AnalogReadings{}, a.Err
	}
	return a.Readings, nil
}

// SimClock is a hand-advanced millisecond clock for tests.
type SimClock struct {
	NowMS uint32
}

func (c *SimClock) Clock() Clock {
	return func() uint32 { return c.NowMS }
}

// Advance moves time forward by ms.
func (c *SimClock) Advance(ms uint32) {
	c.NowMS += ms
}

// SimBoardPins is a ready-made pin map for simulated controllers.
func SimBoardPins() BoardPins {
	return BoardPins{
		RelayLED: 50,
		RelayFan: 52,
		Auger:    MotorPins{ENA: 8, IN1: 9, IN2: 10},
		Actuator: MotorPins{ENA: 11, IN1: 12, IN2: 13},
		BlowerR:  5,
		BlowerL:  6,
	}
}
