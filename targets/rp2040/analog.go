//go:build rp2040

package main

import (
	"gofeeder/core"
)

// Divider/shunt constants for the power-monitoring inputs. The RP2040 ADC
// reads 0..65535 across 3.3V.
const (
	adcRefVolts = 3.3
	adcMax      = 65535

	// 12V battery through an 11:1 divider, current through a 0.1 ohm
	// shunt amplified x20.
	loadDividerRatio = 11.0
	shuntVoltsPerAmp = 2.0

	solarDividerRatio = 11.0
)

// rpAnalogBank converts the raw ADC channels into volts, amps and soil
// percent. Soil is the capacitive probe whose raw reading drops as
// moisture rises. Solar current has no sense channel on this board and
// reads zero.
type rpAnalogBank struct {
	adc core.ADCDriver
}

func newAnalogBank(adc core.ADCDriver) (*rpAnalogBank, error) {
	for _, ch := range []core.ADCChannel{adcLoadVolts, adcLoadCurrent, adcSolarVolts, adcSoil} {
		if err := adc.ConfigureChannel(ch); err != nil {
			return nil, err
		}
	}
	return &rpAnalogBank{adc: adc}, nil
}

func (b *rpAnalogBank) Read() (core.AnalogReadings, error) {
	loadV, err := b.adc.ReadRaw(adcLoadVolts)
	if err != nil {
		return core.AnalogReadings{}, err
	}
	loadI, err := b.adc.ReadRaw(adcLoadCurrent)
	if err != nil {
		return core.AnalogReadings{}, err
	}
	solarV, err := b.adc.ReadRaw(adcSolarVolts)
	if err != nil {
		return core.AnalogReadings{}, err
	}
	soil, err := b.adc.ReadRaw(adcSoil)
	if err != nil {
		return core.AnalogReadings{}, err
	}

	return core.AnalogReadings{
		LoadVoltage:  adcVolts(loadV) * loadDividerRatio,
		LoadCurrent:  adcVolts(loadI) / shuntVoltsPerAmp,
		SolarVoltage: adcVolts(solarV) * solarDividerRatio,
		SolarCurrent: 0,
		SoilMoisture: soilPercent(soil),
	}, nil
}

func adcVolts(raw uint16) float32 {
	return float32(raw) * adcRefVolts / adcMax
}

// soilPercent maps the probe's dry..wet raw range onto 0..100.
func soilPercent(raw uint16) float32 {
	const dry, wet = 52000, 22000
	if raw >= dry {
		return 0
	}
	if raw <= wet {
		return 100
	}
	return float32(dry-raw) * 100 / float32(dry-wet)
}
