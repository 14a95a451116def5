package sim

import "fmt"

// Mode is the operator-selected behavior. Its numeric value is the wire mode tag.
type Mode uint8

const (
	ModeWalking  Mode = 1
	ModeFalling  Mode = 2
	ModeWobbling Mode = 3
	ModeStanding Mode = 4
)

// DefaultMode is active at power-on.
const DefaultMode = ModeWalking

func (m Mode) String() string {
	switch m {
	case ModeWalking:
		return "walking"
	case ModeFalling:
		return "falling"
	case ModeWobbling:
		return "wobbling"
	case ModeStanding:
		return "standing"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Tag is the byte carried in every frame.
func (m Mode) Tag() byte {
	return byte(m)
}

// Button is one of the four physical inputs on the dev kit.
type Button uint8

const (
	Button1 Button = 1
	Button2 Button = 2
	Button3 Button = 3
	Button4 Button = 4
)

// IndicatorButton also toggles the indicator output.
const IndicatorButton = Button1

var buttonModes = map[Button]Mode{
	Button1: ModeWalking,
	Button2: ModeFalling,
	Button3: ModeWobbling,
	Button4: ModeStanding,
}

// ModeForButton maps a button to the mode it selects.
func ModeForButton(b Button) (Mode, bool) {
	m, ok := buttonModes[b]
	return m, ok
}
