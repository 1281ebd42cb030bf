//go:build rp2040

package main

import (
	"machine"

	"gofeeder/core"
)

// Board wiring. Logical pin numbers on the core side are the GPIO
// numbers, so the mapping below is the single translation table.
const (
	pinRelayLED core.GPIOPin = 2
	pinRelayFan core.GPIOPin = 3

	pinAugerIN1 core.GPIOPin = 10
	pinAugerIN2 core.GPIOPin = 11
	pinAugerENA core.PWMPin  = 12

	pinActuatorIN1 core.GPIOPin = 13
	pinActuatorIN2 core.GPIOPin = 14
	pinActuatorENA core.PWMPin  = 15

	pinBlowerR core.PWMPin = 16
	pinBlowerL core.PWMPin = 17

	pinHX711Data machine.Pin = machine.GP18
	pinHX711SCK  machine.Pin = machine.GP19

	pinDHTFeed    machine.Pin = machine.GP20
	pinDHTControl machine.Pin = machine.GP21

	// All four ADC inputs are spoken for; solar current has no sense
	// channel on this board.
	adcLoadVolts   core.ADCChannel = 0
	adcLoadCurrent core.ADCChannel = 1
	adcSolarVolts  core.ADCChannel = 2
	adcSoil        core.ADCChannel = 3
)

func adcPin(ch core.ADCChannel) machine.Pin {
	switch ch {
	case adcLoadVolts:
		return machine.ADC0
	case adcLoadCurrent:
		return machine.ADC1
	case adcSolarVolts:
		return machine.ADC2
	default:
		return machine.ADC3
	}
}

func boardPins() core.BoardPins {
	return core.BoardPins{
		RelayLED: pinRelayLED,
		RelayFan: pinRelayFan,
		Auger:    core.MotorPins{ENA: pinAugerENA, IN1: pinAugerIN1, IN2: pinAugerIN2},
		Actuator: core.MotorPins{ENA: pinActuatorENA, IN1: pinActuatorIN1, IN2: pinActuatorIN2},
		BlowerR:  pinBlowerR,
		BlowerL:  pinBlowerL,
	}
}

func machinePin(p core.GPIOPin) machine.Pin {
	return machine.Pin(p)
}
