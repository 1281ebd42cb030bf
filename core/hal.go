package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint8

// PWMPin identifies a hardware pin capable of PWM output
type PWMPin uint8

// ADCChannel identifies a logical analog input channel
type ADCChannel uint8

// PWMMax is the full-scale 8-bit duty value used throughout the controller.
const PWMMax = 255

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool)

	// ReadPin reads the current pin state
	ReadPin(pin GPIOPin) bool
}

// PWMDriver is the abstract PWM interface that core code uses.
type PWMDriver interface {
	// ConfigureOutput configures a pin for PWM output
	ConfigureOutput(pin PWMPin) error

	// SetDuty sets the duty cycle for a pin, 0 (off) to PWMMax (fully on)
	SetDuty(pin PWMPin, value uint8)
}

// ADCDriver is the abstract ADC interface that core code uses.
type ADCDriver interface {
	// ConfigureChannel prepares a channel for analog input
	ConfigureChannel(ch ADCChannel) error

	// ReadRaw performs a one-shot sample from the given channel
	ReadRaw(ch ADCChannel) (uint16, error)
}

// MotorPins is the pin triple of one L298N-style motor channel.
type MotorPins struct {
	ENA PWMPin  // speed (PWM enable)
	IN1 GPIOPin // direction 1
	IN2 GPIOPin // direction 2
}

// BoardPins maps every output the controller owns.
type BoardPins struct {
	RelayLED GPIOPin
	RelayFan GPIOPin

	Auger    MotorPins
	Actuator MotorPins

	// The blower is a PWM pair with no direction pins; only the right
	// channel is driven, the left is held low.
	BlowerR PWMPin
	BlowerL PWMPin
}
