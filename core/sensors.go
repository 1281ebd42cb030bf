package core

// DHTSensor reads one combined temperature/humidity device.
type DHTSensor interface {
	Read() (temp, humidity float32, err error)
}

// WeightSensor is the load-cell driver. ReadWeight applies the current
// scale/offset; ReadRaw returns an offset-compensated raw average for
// calibration.
type WeightSensor interface {
	ReadWeight() (float32, error)
	ReadRaw(samples int) (float32, error)
	Tare() error
	SetScale(scale float32)
	SetOffset(offset int32)
	Offset() int32
}

// AnalogReadings is one sweep of the converted analog channels.
type AnalogReadings struct {
	LoadVoltage  float32 // battery V
	LoadCurrent  float32 // battery A
	SolarVoltage float32
	SolarCurrent float32
	SoilMoisture float32 // percent
}

// AnalogBank reads the whole analog group in one shot. Conversion from ADC
// counts to volts/amps/percent is the target's business.
type AnalogBank interface {
	Read() (AnalogReadings, error)
}

// Channel is the last value of one sensor channel plus its validity flag.
// Valid=false means stale: the value is the last good reading, not a
// measurement. That distinguishes "stale" from "legitimately zero".
type Channel struct {
	Value float32
	Valid bool
}

func (ch *Channel) set(v float32) {
	ch.Value = v
	ch.Valid = true
}

func (ch *Channel) invalidate() {
	ch.Valid = false
}

// SensorSnapshot is the last reading per channel.
type SensorSnapshot struct {
	FeedTemp        Channel
	FeedHumidity    Channel
	ControlTemp     Channel
	ControlHumidity Channel
	Weight          Channel
	SoilMoisture    Channel
	LoadVoltage     Channel
	LoadCurrent     Channel
	SolarVoltage    Channel
	SolarCurrent    Channel
}

// Error bit positions for the telemetry ERR bitmask.
const (
	errBitDHTFeed = 1 << iota
	errBitDHTControl
	errBitWeight
	errBitAnalog
)

// ErrorBits packs the per-group stale flags into a bitmask.
func (s *SensorSnapshot) ErrorBits() uint32 {
	var bits uint32
	if !s.FeedTemp.Valid {
		bits |= errBitDHTFeed
	}
	if !s.ControlTemp.Valid {
		bits |= errBitDHTControl
	}
	if !s.Weight.Valid {
		bits |= errBitWeight
	}
	if !s.LoadVoltage.Valid {
		bits |= errBitAnalog
	}
	return bits
}

// Sensor read phases, one per elapsed sensor interval. The slow weight
// read is isolated in its own phase so it can never stall a tick that has
// safety work pending.
const (
	phaseDHT = iota
	phaseAnalog
	phaseWeight
	phaseDHTControl
	phaseCount
)

// SensorReader polls the attached sensors round-robin. A failed read keeps
// the last value and marks the channel stale; it never aborts the tick.
type SensorReader struct {
	DHTFeed    DHTSensor
	DHTControl DHTSensor
	Weight     WeightSensor
	Analog     AnalogBank

	snap  SensorSnapshot
	phase uint8
}

// Snapshot returns the current readings.
func (r *SensorReader) Snapshot() *SensorSnapshot {
	return &r.snap
}

// RunPhase executes exactly one read phase and advances the index.
func (r *SensorReader) RunPhase() {
	switch r.phase {
	case phaseDHT:
		r.readDHT(r.DHTFeed, &r.snap.FeedTemp, &r.snap.FeedHumidity)
	case phaseAnalog:
		r.readAnalog()
	case phaseWeight:
		r.readWeight()
	case phaseDHTControl:
		r.readDHT(r.DHTControl, &r.snap.ControlTemp, &r.snap.ControlHumidity)
	}
	r.phase = (r.phase + 1) % phaseCount
}

// RunAll sweeps every phase once, for TEST/INIT diagnostics.
func (r *SensorReader) RunAll() {
	for i := 0; i < phaseCount; i++ {
		r.RunPhase()
	}
}

func (r *SensorReader) readDHT(d DHTSensor, temp, hum *Channel) {
	if d == nil {
		temp.invalidate()
		hum.invalidate()
		return
	}
	t, h, err := d.Read()
	if err != nil {
		temp.invalidate()
		hum.invalidate()
		return
	}
	temp.set(t)
	hum.set(h)
}

func (r *SensorReader) readWeight() {
	if r.Weight == nil {
		r.snap.Weight.invalidate()
		return
	}
	w, err := r.Weight.ReadWeight()
	if err != nil {
		r.snap.Weight.invalidate()
		return
	}
	r.snap.Weight.set(w)
}

func (r *SensorReader) readAnalog() {
	if r.Analog == nil {
		r.invalidateAnalog()
		return
	}
	a, err := r.Analog.Read()
	if err != nil {
		r.invalidateAnalog()
		return
	}
	r.snap.LoadVoltage.set(a.LoadVoltage)
	r.snap.LoadCurrent.set(a.LoadCurrent)
	r.snap.SolarVoltage.set(a.SolarVoltage)
	r.snap.SolarCurrent.set(a.SolarCurrent)
	r.snap.SoilMoisture.set(a.SoilMoisture)
}

func (r *SensorReader) invalidateAnalog() {
	r.snap.LoadVoltage.invalidate()
	r.snap.LoadCurrent.invalidate()
	r.snap.SolarVoltage.invalidate()
	r.snap.SolarCurrent.invalidate()
	r.snap.SoilMoisture.invalidate()
}
