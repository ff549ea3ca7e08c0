// Package packet decodes the byte-stuffed, CRC-checked frames that carry
// note events and log lines over a serial link.
package packet

import (
	"errors"
	"fmt"
)

const (
	Flag    = 0x7E
	Escape  = 0x7D
	escFlag = 0x53
	escEsc  = 0x54

	MaxPayload = 128
	// MaxFrame is the largest unstuffed frame: header, type, payload, CRC.
	MaxFrame = MaxPayload + 2 + 2
	minFrame = 4
)

// Type identifies the payload of a frame.
type Type uint8

const (
	TypeMidi Type = 0xA0
	TypeLog  Type = 0xF0
)

func (t Type) String() string {
	switch t {
	case TypeMidi:
		return "midi"
	case TypeLog:
		return "log"
	default:
		return fmt.Sprintf("type(0x%02X)", uint8(t))
	}
}

var (
	ErrCRC       = errors.New("packet: crc mismatch")
	ErrTooLong   = errors.New("packet: frame too long")
	ErrBadEscape = errors.New("packet: invalid escape sequence")
)

// Packet is one decoded frame. Payload aliases the decoder's buffer and is
// only valid until the next call to Feed.
type Packet struct {
	Header  uint8
	Type    Type
	Payload []byte
}

type Stats struct {
	Decoded  uint64
	Failed   uint64
	Overflow uint64
}

// Decoder reassembles frames one byte at a time. The zero value is ready to
// use.
type Decoder struct {
	buf      [MaxFrame]byte
	n        int
	escaping bool
	overflow bool
	badEsc   bool
	stats    Stats
}

// Feed consumes one byte. It returns a packet when b completes a valid
// frame, or an error when it completes an invalid one. Frames shorter than
// the minimum are silently discarded.
func (d *Decoder) Feed(b byte) (Packet, bool, error) {
	switch b {
	case Flag:
		defer d.Reset()
		if d.overflow {
			d.stats.Overflow++
			return Packet{}, false, ErrTooLong
		}
		if d.badEsc {
			d.stats.Failed++
			return Packet{}, false, ErrBadEscape
		}
		if d.n < minFrame {
			return Packet{}, false, nil
		}
		frame := d.buf[:d.n]
		body := frame[:d.n-2]
		want := uint16(frame[d.n-2]) | uint16(frame[d.n-1])<<8
		if got := CRC16(body); got != want {
			d.stats.Failed++
			return Packet{}, false, fmt.Errorf("%w: got 0x%04X want 0x%04X", ErrCRC, got, want)
		}
		d.stats.Decoded++
		return Packet{Header: frame[0], Type: Type(frame[1]), Payload: body[2:]}, true, nil
	case Escape:
		d.escaping = true
		return Packet{}, false, nil
	}

	if d.escaping {
		d.escaping = false
		switch b {
		case escEsc:
			b = Escape
		case escFlag:
			b = Flag
		default:
			d.badEsc = true
			return Packet{}, false, nil
		}
	}
	if d.n >= len(d.buf) {
		d.overflow = true
		return Packet{}, false, nil
	}
	d.buf[d.n] = b
	d.n++
	return Packet{}, false, nil
}

// Reset drops any partially received frame.
func (d *Decoder) Reset() {
	d.n = 0
	d.escaping = false
	d.overflow = false
	d.badEsc = false
}

func (d *Decoder) Stats() Stats { return d.stats }

// Encode builds a complete stuffed frame terminated by Flag.
func Encode(header uint8, typ Type, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: payload %d bytes", ErrTooLong, len(payload))
	}
	raw := make([]byte, 0, len(payload)+4)
	raw = append(raw, header, byte(typ))
	raw = append(raw, payload...)
	crc := CRC16(raw)
	raw = append(raw, byte(crc), byte(crc>>8))

	out := make([]byte, 0, len(raw)*2+1)
	for _, b := range raw {
		switch b {
		case Flag:
			out = append(out, Escape, escFlag)
		case Escape:
			out = append(out, Escape, escEsc)
		default:
			out = append(out, b)
		}
	}
	return append(out, Flag), nil
}
