package midi

import (
	"fmt"

	"maze.io/x/math32"
)

// Note is a MIDI pitch in [0,127]. None marks an empty slot and also
// compares greater than every real pitch.
type Note uint8

const (
	None Note = 255
	A4   Note = 69
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Frequency returns the equal-tempered frequency in Hz (A4 = 440).
func (n Note) Frequency() float32 {
	return 440 * math32.Pow(2, (float32(n)-69)/12)
}

func (n Note) Valid() bool { return n <= 127 }

func (n Note) String() string {
	if !n.Valid() {
		return "none"
	}
	return fmt.Sprintf("%s%d", noteNames[n%12], int(n)/12-1)
}
