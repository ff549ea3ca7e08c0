// Package panel models the hardware control surface: three encoders, two
// tab buttons and a shift button driving tabbed pages of selectors.
package panel

import "fmt"

type InputID uint8

const (
	InputNone InputID = 0

	BtnLeft  InputID = 0x01
	BtnRight InputID = 0x02
	BtnShift InputID = 0x03

	Encoder0 InputID = 0x10
	Encoder1 InputID = 0x11
	Encoder2 InputID = 0x12
)

func (id InputID) String() string {
	switch id {
	case InputNone:
		return "none"
	case BtnLeft:
		return "left"
	case BtnRight:
		return "right"
	case BtnShift:
		return "shift"
	case Encoder0, Encoder1, Encoder2:
		return fmt.Sprintf("enc%d", id-Encoder0)
	default:
		return fmt.Sprintf("input(0x%02X)", uint8(id))
	}
}

func (id InputID) IsEncoder() bool { return id >= Encoder0 && id <= Encoder2 }

// Button event values.
const (
	Press   int16 = 1
	Release int16 = 2
)

// InputEvent is one user action. For encoders Value is the signed detent
// count; for buttons it is Press or Release.
type InputEvent struct {
	ID      InputID
	Value   int16
	Shifted bool
}

// remoteInput tags a remote input command.
const remoteInput = 0x01

// ParseRemoteInput decodes the 4-byte remote command [0x01, id, value, shift]
// where value is a signed byte.
func ParseRemoteInput(b []byte) (InputEvent, error) {
	if len(b) != 4 || b[0] != remoteInput {
		return InputEvent{}, fmt.Errorf("panel: not a remote input command: % X", b)
	}
	id := InputID(b[1])
	switch id {
	case BtnLeft, BtnRight, BtnShift, Encoder0, Encoder1, Encoder2:
	default:
		id = InputNone
	}
	return InputEvent{ID: id, Value: int16(int8(b[2])), Shifted: b[3] > 0}, nil
}
