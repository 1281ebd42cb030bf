//go:build rp2040

package main

import (
	"errors"
	"machine"

	"gofeeder/core"
)

var errADCChannel = errors.New("adc: channel not configured")

// rpADCDriver implements core.ADCDriver on the four RP2040 ADC inputs.
type rpADCDriver struct {
	channels map[core.ADCChannel]machine.ADC
}

func newRPADCDriver() *rpADCDriver {
	machine.InitADC()
	return &rpADCDriver{channels: make(map[core.ADCChannel]machine.ADC)}
}

func (d *rpADCDriver) ConfigureChannel(ch core.ADCChannel) error {
	adc := machine.ADC{Pin: adcPin(ch)}
	adc.Configure(machine.ADCConfig{})
	d.channels[ch] = adc
	return nil
}

func (d *rpADCDriver) ReadRaw(ch core.ADCChannel) (uint16, error) {
	adc, ok := d.channels[ch]
	if !ok {
		return 0, errADCChannel
	}
	return adc.Get(), nil
}
