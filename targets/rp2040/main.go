//go:build rp2040

package main

import (
	"machine"
	"time"

	"gofeeder/core"
)

// Super loop: drain USB serial into the controller, run one scheduler
// tick, flush whatever the controller wants to say. All timing decisions
// live in core; this loop just spins.
func main() {
	// Give USB CDC a moment to enumerate so early output is not lost.
	time.Sleep(2 * time.Second)

	store, err := newFlashStore()
	if err != nil {
		fatal("flash: " + err.Error())
	}

	analog, err := newAnalogBank(newRPADCDriver())
	if err != nil {
		fatal("adc: " + err.Error())
	}

	clock := core.SystemClock()
	ctrl, err := core.NewController(core.Options{
		GPIO:  rpGPIODriver{},
		PWM:   newRPPWMDriver(),
		Pins:  boardPins(),
		Store: store,
		Clock: clock,
		Sensors: core.Sensors{
			DHTFeed:    newDHT(pinDHTFeed),
			DHTControl: newDHT(pinDHTControl),
			Weight:     newHX711(pinHX711Data, pinHX711SCK),
			Analog:     analog,
		},
	})
	if err != nil {
		fatal("controller: " + err.Error())
	}

	for {
		for machine.Serial.Buffered() > 0 {
			b, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			ctrl.ProcessByte(b)
		}

		ctrl.RunOnce(clock())

		if out := ctrl.TakeOutput(); len(out) > 0 {
			machine.Serial.Write(out)
		}

		time.Sleep(5 * time.Millisecond)
	}
}

func fatal(msg string) {
	for {
		println("[FATAL] " + msg)
		time.Sleep(5 * time.Second)
	}
}
