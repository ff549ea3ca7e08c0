// Package patch loads synth patches written as Lua scripts. A script sets
// the voice parameters and may play a timed score:
//
//	osc(1, {wave = "saw", range = 8, detune = -7, gain = 0.6})
//	envelope{attack = 0.01, decay = 0.3, sustain = 0.5, release = 0.6}
//	filter{cutoff = 2000, resonance = 0.4, contour = 1000}
//	note_on(60) wait(500) note_off(60)
package patch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/jackss011/esp-synth/internal/midi"
	"github.com/jackss011/esp-synth/internal/osc"
	"github.com/jackss011/esp-synth/internal/synth"
	"github.com/jackss011/esp-synth/internal/wave"
)

// Timeout bounds script execution.
const Timeout = 2 * time.Second

// Step is a note event at an offset from the start of the score.
type Step struct {
	At    time.Duration
	Event midi.Event
}

type Patch struct {
	Config synth.Config
	Score  []Step
	// Length is the score cursor after the last wait.
	Length time.Duration
}

// Load runs src and returns the patch it describes. Parameters the script
// does not set keep their synth.DefaultConfig values.
func Load(src string) (*Patch, error) {
	return load(strings.NewReader(src), "patch")
}

func LoadFile(path string) (*Patch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(f, path)
}

func load(r io.Reader, name string) (*Patch, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, unsafe := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(unsafe, lua.LNil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	L.SetContext(ctx)

	b := &builder{patch: &Patch{Config: synth.DefaultConfig()}}
	for i := range b.pitch {
		b.pitch[i].feet = 8
	}
	b.register(L)

	fn, err := L.Load(r, name)
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, 0, nil); err != nil {
		return nil, fmt.Errorf("patch %s: %w", name, err)
	}
	b.patch.Length = b.cursor
	return b.patch, nil
}

type builder struct {
	patch  *Patch
	cursor time.Duration
	// pitch keeps each slot's range and detune so a call may change
	// either one alone.
	pitch [synth.OscCount]struct{ feet, cents float32 }
}

func (b *builder) register(L *lua.LState) {
	for name, fn := range map[string]lua.LGFunction{
		"osc":      b.osc,
		"envelope": b.envelope,
		"boost":    b.boost,
		"filter":   b.filter,
		"arp":      b.arp,
		"note_on":  b.noteOn,
		"note_off": b.noteOff,
		"wait":     b.wait,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

func (b *builder) osc(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 1 || n > synth.OscCount {
		L.ArgError(1, fmt.Sprintf("oscillator must be 1..%d", synth.OscCount))
	}
	t := fields{L: L, tbl: L.CheckTable(2), arg: 2}
	o := &b.patch.Config.Osc[n-1]
	o.Enabled = true
	t.boolean("enabled", &o.Enabled)
	if name, ok := t.str("wave"); ok {
		k, valid := wave.ParseKind(name)
		if !valid {
			L.ArgError(2, "unknown wave "+name)
		}
		o.Wave = k
	}
	t.number("gain", &o.GainMult)
	pitch := &b.pitch[n-1]
	hasRange := t.number("range", &pitch.feet)
	hasDetune := t.number("detune", &pitch.cents)
	if hasRange || hasDetune {
		o.SetFreqMult(osc.RangeMult(int(pitch.feet)), int32(pitch.cents))
	}
	t.number("mult", &o.FreqMult)
	t.done()
	return 0
}

func (b *builder) envelope(L *lua.LState) int {
	t := fields{L: L, tbl: L.CheckTable(1), arg: 1}
	e := &b.patch.Config.Envelope
	t.number("attack", &e.AttackSecs)
	t.number("decay", &e.DecaySecs)
	t.number("sustain", &e.SustainGain)
	t.number("release", &e.ReleaseSecs)
	t.done()
	return 0
}

func (b *builder) boost(L *lua.LState) int {
	t := fields{L: L, tbl: L.CheckTable(1), arg: 1}
	bo := &b.patch.Config.Boost
	t.number("boost", &bo.Boost)
	t.number("gain", &bo.Gain)
	t.done()
	return 0
}

func (b *builder) filter(L *lua.LState) int {
	t := fields{L: L, tbl: L.CheckTable(1), arg: 1}
	lp := &b.patch.Config.LowPass
	lp.Enabled = true
	t.boolean("enabled", &lp.Enabled)
	t.number("cutoff", &lp.CutoffHz)
	t.number("resonance", &lp.Resonance)
	t.number("contour", &lp.ContourHz)
	t.number("attack", &lp.Envelope.AttackSecs)
	t.number("decay", &lp.Envelope.DecaySecs)
	t.number("sustain", &lp.Envelope.SustainGain)
	t.number("release", &lp.Envelope.ReleaseSecs)
	t.done()
	return 0
}

func (b *builder) arp(L *lua.LState) int {
	t := fields{L: L, tbl: L.CheckTable(1), arg: 1}
	a := &b.patch.Config.Arp
	a.Enabled = true
	t.boolean("enabled", &a.Enabled)
	t.number("bpm", &a.TempoBPM)
	var div float32
	if t.number("division", &div) {
		if div < 0 || div > 255 {
			L.ArgError(1, "division must be 0..255")
		}
		a.Division = uint8(div)
	}
	t.done()
	return 0
}

func checkNote(L *lua.LState, n int) midi.Note {
	v := L.CheckInt(n)
	if v < 0 || v > 127 {
		L.ArgError(n, "note must be 0..127")
	}
	return midi.Note(v)
}

func (b *builder) noteOn(L *lua.LState) int {
	n := checkNote(L, 1)
	vel := L.OptInt(2, 100)
	if vel < 0 || vel > 127 {
		L.ArgError(2, "velocity must be 0..127")
	}
	b.add(midi.NoteOnEvent(0, n, uint8(vel)))
	return 0
}

func (b *builder) noteOff(L *lua.LState) int {
	b.add(midi.NoteOffEvent(0, checkNote(L, 1)))
	return 0
}

func (b *builder) wait(L *lua.LState) int {
	ms := float64(L.CheckNumber(1))
	if ms < 0 {
		L.ArgError(1, "wait must not be negative")
	}
	b.cursor += time.Duration(ms * float64(time.Millisecond))
	return 0
}

func (b *builder) add(ev midi.Event) {
	b.patch.Score = append(b.patch.Score, Step{At: b.cursor, Event: ev})
}

// fields reads named entries from a Lua table argument and rejects keys that
// were never read.
type fields struct {
	L    *lua.LState
	tbl  *lua.LTable
	arg  int
	seen []string
}

func (f *fields) get(key string) lua.LValue {
	f.seen = append(f.seen, key)
	return f.tbl.RawGetString(key)
}

func (f *fields) number(key string, dst *float32) bool {
	v := f.get(key)
	if v == lua.LNil {
		return false
	}
	n, ok := v.(lua.LNumber)
	if !ok {
		f.L.ArgError(f.arg, fmt.Sprintf("%s: number expected, got %s", key, v.Type()))
	}
	*dst = float32(n)
	return true
}

func (f *fields) boolean(key string, dst *bool) bool {
	v := f.get(key)
	if v == lua.LNil {
		return false
	}
	bv, ok := v.(lua.LBool)
	if !ok {
		f.L.ArgError(f.arg, fmt.Sprintf("%s: boolean expected, got %s", key, v.Type()))
	}
	*dst = bool(bv)
	return true
}

func (f *fields) str(key string) (string, bool) {
	v := f.get(key)
	if v == lua.LNil {
		return "", false
	}
	s, ok := v.(lua.LString)
	if !ok {
		f.L.ArgError(f.arg, fmt.Sprintf("%s: string expected, got %s", key, v.Type()))
	}
	return string(s), true
}

func (f *fields) done() {
	f.tbl.ForEach(func(k, _ lua.LValue) {
		name := k.String()
		for _, s := range f.seen {
			if s == name {
				return
			}
		}
		f.L.ArgError(f.arg, "unknown field "+name)
	})
}
