//go:build rp2040

package main

import (
	"machine"

	"gofeeder/core"
)

// rpGPIODriver implements core.GPIODriver directly on machine.Pin.
type rpGPIODriver struct{}

func (rpGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	machinePin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

func (rpGPIODriver) SetPin(pin core.GPIOPin, high bool) {
	machinePin(pin).Set(high)
}

func (rpGPIODriver) ReadPin(pin core.GPIOPin) bool {
	return machinePin(pin).Get()
}
