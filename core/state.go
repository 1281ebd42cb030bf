package core

// Direction is the drive state of one DC motor channel. For the linear
// actuator, Forward means opening (up) and Reverse means closing (down).
type Direction uint8

const (
	DirStopped Direction = 0
	DirForward Direction = 1
	DirReverse Direction = 2
)

// SystemState is the controller's live view of every output it owns.
type SystemState struct {
	RelayLED bool
	RelayFan bool

	Auger    Direction
	Actuator Direction

	// BlowerSpeed is the last commanded duty; 0 means off.
	BlowerSpeed uint8

	AutoFanActive bool
}

// BlowerOn reports whether the blower is running.
func (s *SystemState) BlowerOn() bool {
	return s.BlowerSpeed > 0
}
