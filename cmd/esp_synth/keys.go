package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/jackss011/esp-synth"
)

var errQuit = errors.New("quit")

// keyRow maps the home rows of a QWERTY keyboard onto one octave and a bit,
// tracker style.
var keyRow = map[byte]int{
	'z': 0, 's': 1, 'x': 2, 'd': 3, 'c': 4, 'v': 5, 'g': 6,
	'b': 7, 'h': 8, 'n': 9, 'j': 10, 'm': 11, ',': 12, 'l': 13, '.': 14,
}

// keyboard plays notes from a raw terminal. Terminals report no key-up, so
// each key toggles its note.
type keyboard struct {
	player noteSink
	in     io.Reader
	octave int
	held   map[espsynth.Note]bool
}

type noteSink interface {
	NoteOn(n espsynth.Note, velocity uint8) bool
	NoteOff(n espsynth.Note) bool
}

func newKeyboard(pl noteSink, in io.Reader) *keyboard {
	return &keyboard{player: pl, in: in, octave: 4, held: make(map[espsynth.Note]bool)}
}

func (k *keyboard) Run(ctx context.Context) error {
	if f, ok := k.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer term.Restore(int(f.Fd()), state)
	}
	fmt.Fprint(os.Stderr, "keys: z..m play, [ ] octave, space releases all, q quits\r\n")

	// stdin reads cannot be interrupted, so the reader may outlive Run by
	// one pending read.
	keys := make(chan byte)
	done := make(chan struct{})
	defer close(done)
	go readKeys(k.in, keys, done)

	defer k.releaseAll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b, ok := <-keys:
			if !ok {
				return nil
			}
			if err := k.press(b); err != nil {
				return err
			}
		}
	}
}

// readKeys forwards bytes from in until a read fails or done is closed,
// then closes keys.
func readKeys(in io.Reader, keys chan<- byte, done <-chan struct{}) {
	defer close(keys)
	buf := make([]byte, 1)
	for {
		if _, err := in.Read(buf); err != nil {
			return
		}
		select {
		case keys <- buf[0]:
		case <-done:
			return
		}
	}
}

func (k *keyboard) press(b byte) error {
	switch b {
	case 'q', 0x03, 0x04:
		return errQuit
	case ' ':
		k.releaseAll()
	case '[':
		if k.octave > 0 {
			k.releaseAll()
			k.octave--
		}
	case ']':
		if k.octave < 8 {
			k.releaseAll()
			k.octave++
		}
	default:
		off, ok := keyRow[b]
		if !ok {
			return nil
		}
		n := 12*(k.octave+1) + off
		if n > 127 {
			return nil
		}
		note := espsynth.Note(n)
		if k.held[note] {
			delete(k.held, note)
			k.player.NoteOff(note)
		} else {
			k.held[note] = true
			k.player.NoteOn(note, 100)
		}
	}
	return nil
}

func (k *keyboard) releaseAll() {
	for n := range k.held {
		k.player.NoteOff(n)
		delete(k.held, n)
	}
}
