//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/dht"
)

// dhtSensor adapts the drivers/dht DHT22 device to core.DHTSensor.
type dhtSensor struct {
	dev dht.DummyDevice
}

func newDHT(pin machine.Pin) *dhtSensor {
	return &dhtSensor{dev: dht.New(pin, dht.DHT22)}
}

func (s *dhtSensor) Read() (float32, float32, error) {
	temp, hum, err := s.dev.Measurements()
	if err != nil {
		return 0, 0, err
	}
	// The driver reports tenths of a degree / tenths of a percent.
	return float32(temp) / 10, float32(hum) / 10, nil
}
