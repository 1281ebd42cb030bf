//go:build rp2040

package main

import (
	"errors"
	"machine"
	"time"
)

// hx711 is a bit-banged driver for the HX711 24-bit load-cell ADC.
// Gain is fixed at 128 (channel A): 25 clock pulses per conversion.
type hx711 struct {
	data machine.Pin
	sck  machine.Pin

	scale  float32
	offset int32
}

var errHX711NotReady = errors.New("hx711: not ready")

const (
	hx711ReadyTimeout = 200 * time.Millisecond
	hx711TareSamples  = 10
)

func newHX711(data, sck machine.Pin) *hx711 {
	data.Configure(machine.PinConfig{Mode: machine.PinInput})
	sck.Configure(machine.PinConfig{Mode: machine.PinOutput})
	sck.Low()
	return &hx711{data: data, sck: sck, scale: 1}
}

// readRaw shifts out one 24-bit conversion. DOUT low signals data ready;
// a stuck-high DOUT (disconnected cell) times out instead of hanging the
// loop.
func (h *hx711) readRaw() (int32, error) {
	deadline := time.Now().Add(hx711ReadyTimeout)
	for h.data.Get() {
		if time.Now().After(deadline) {
			return 0, errHX711NotReady
		}
		time.Sleep(100 * time.Microsecond)
	}

	var value uint32
	for i := 0; i < 24; i++ {
		h.sck.High()
		delayMicroseconds(1)
		value = (value << 1)
		if h.data.Get() {
			value |= 1
		}
		h.sck.Low()
		delayMicroseconds(1)
	}

	// 25th pulse selects channel A, gain 128, for the next conversion.
	h.sck.High()
	delayMicroseconds(1)
	h.sck.Low()

	// Sign-extend the 24-bit two's complement result.
	if value&0x800000 != 0 {
		value |= 0xFF000000
	}
	return int32(value), nil
}

func (h *hx711) average(samples int) (float32, error) {
	if samples < 1 {
		samples = 1
	}
	var sum int64
	for i := 0; i < samples; i++ {
		v, err := h.readRaw()
		if err != nil {
			return 0, err
		}
		sum += int64(v)
	}
	return float32(sum / int64(samples)), nil
}

func (h *hx711) ReadWeight() (float32, error) {
	raw, err := h.average(1)
	if err != nil {
		return 0, err
	}
	return (raw - float32(h.offset)) / h.scale, nil
}

func (h *hx711) ReadRaw(samples int) (float32, error) {
	raw, err := h.average(samples)
	if err != nil {
		return 0, err
	}
	return raw - float32(h.offset), nil
}

func (h *hx711) Tare() error {
	raw, err := h.average(hx711TareSamples)
	if err != nil {
		return err
	}
	h.offset = int32(raw)
	return nil
}

func (h *hx711) SetScale(scale float32) {
	if scale != 0 {
		h.scale = scale
	}
}

func (h *hx711) SetOffset(offset int32) {
	h.offset = offset
}

func (h *hx711) Offset() int32 {
	return h.offset
}

func delayMicroseconds(us int) {
	// time.Sleep has enough resolution on rp2040 for the HX711's >0.2us
	// minimum clock width.
	time.Sleep(time.Duration(us) * time.Microsecond)
}
