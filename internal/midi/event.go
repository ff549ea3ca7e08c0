package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// EventKind is the resolved meaning of an Event.
type EventKind int

const (
	Empty EventKind = iota
	NoteOn
	NoteOff
	Other
)

func (k EventKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case NoteOn:
		return "note-on"
	case NoteOff:
		return "note-off"
	default:
		return "other"
	}
}

// Code index numbers carried in the low nibble of Header.
const (
	cinNoteOff = 0x8
	cinNoteOn  = 0x9
)

// Event is a 4-byte USB-MIDI style packet: a header whose low nibble is the
// code index number, followed by the MIDI status and two data bytes.
type Event struct {
	Header uint8
	Status uint8
	Data1  uint8
	Data2  uint8
}

// ParseEvent decodes exactly four bytes into an Event.
func ParseEvent(b []byte) (Event, error) {
	if len(b) != 4 {
		return Event{}, fmt.Errorf("midi event: want 4 bytes, got %d", len(b))
	}
	return Event{Header: b[0], Status: b[1], Data1: b[2], Data2: b[3]}, nil
}

// Kind resolves note-on/off. A note-on with zero velocity is a note-off.
func (e Event) Kind() EventKind {
	if e == (Event{}) {
		return Empty
	}
	cin := e.Header & 0x0F
	switch {
	case cin == cinNoteOn && e.Data2 != 0:
		return NoteOn
	case cin == cinNoteOff || (cin == cinNoteOn && e.Data2 == 0):
		return NoteOff
	default:
		return Other
	}
}

func (e Event) Channel() uint8  { return e.Status & 0x0F }
func (e Event) Note() Note      { return Note(e.Data1) }
func (e Event) Velocity() uint8 { return e.Data2 }

func (e Event) Bytes() [4]byte { return [4]byte{e.Header, e.Status, e.Data1, e.Data2} }

func (e Event) String() string {
	return fmt.Sprintf("%s ch=%d note=%s vel=%d", e.Kind(), e.Channel(), e.Note(), e.Velocity())
}

// FromMessage wraps a note message received from a MIDI port. Messages other
// than note start/end are reported as not ok.
func FromMessage(msg gomidi.Message) (Event, bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return NoteOnEvent(ch, Note(key), vel), true
	case msg.GetNoteEnd(&ch, &key):
		return NoteOffEvent(ch, Note(key)), true
	}
	return Event{}, false
}

// NoteOnEvent builds a note-on event.
func NoteOnEvent(channel uint8, n Note, velocity uint8) Event {
	return fromMessage(cinNoteOn, gomidi.NoteOn(channel&0x0F, uint8(n)&0x7F, velocity&0x7F))
}

// NoteOffEvent builds a note-off event.
func NoteOffEvent(channel uint8, n Note) Event {
	return fromMessage(cinNoteOff, gomidi.NoteOff(channel&0x0F, uint8(n)&0x7F))
}

func fromMessage(cin uint8, msg gomidi.Message) Event {
	b := msg.Bytes()
	ev := Event{Header: cin}
	if len(b) > 0 {
		ev.Status = b[0]
	}
	if len(b) > 1 {
		ev.Data1 = b[1]
	}
	if len(b) > 2 {
		ev.Data2 = b[2]
	}
	return ev
}
