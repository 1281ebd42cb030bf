//go:build rp2040

package main

import (
	"machine"

	"gofeeder/core"
)

// pwmSlice abstracts TinyGo's unexported *pwmGroup type so the driver can
// hold any of the 8 RP2040 slices in one map.
type pwmSlice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// motorPWMPeriodNS is ~25 kHz, above audible range for the DC motors.
const motorPWMPeriodNS = 40000

// rpPWMDriver implements core.PWMDriver on the RP2040 PWM slices.
// GPIO pin N lives on slice (N>>1)&7, channel N&1.
type rpPWMDriver struct {
	slices   map[uint8]pwmSlice
	channels map[core.PWMPin]uint8
}

func newRPPWMDriver() *rpPWMDriver {
	return &rpPWMDriver{
		slices:   make(map[uint8]pwmSlice),
		channels: make(map[core.PWMPin]uint8),
	}
}

func (d *rpPWMDriver) ConfigureOutput(pin core.PWMPin) error {
	sliceNum := uint8((uint32(pin) >> 1) & 0x7)
	slice, ok := d.slices[sliceNum]
	if !ok {
		slice = pwmSliceByNumber(sliceNum)
		if err := slice.Configure(machine.PWMConfig{Period: motorPWMPeriodNS}); err != nil {
			return err
		}
		d.slices[sliceNum] = slice
	}

	channel, err := slice.Channel(machine.Pin(pin))
	if err != nil {
		return err
	}
	d.channels[pin] = channel
	slice.Set(channel, 0)
	return nil
}

func (d *rpPWMDriver) SetDuty(pin core.PWMPin, duty uint8) {
	channel, ok := d.channels[pin]
	if !ok {
		return
	}
	slice := d.slices[uint8((uint32(pin)>>1)&0x7)]
	top := slice.Top()
	slice.Set(channel, (uint32(duty)*top)/core.PWMMax)
}

func pwmSliceByNumber(n uint8) pwmSlice {
	switch n {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
