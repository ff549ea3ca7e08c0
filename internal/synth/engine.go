// Package synth runs the monophonic voice: note selection, oscillators,
// amplitude envelope, boost, filter and output saturation.
package synth

import (
	"math"
	"sync/atomic"

	"github.com/jackss011/esp-synth/internal/arp"
	"github.com/jackss011/esp-synth/internal/effects"
	"github.com/jackss011/esp-synth/internal/envelope"
	"github.com/jackss011/esp-synth/internal/filter"
	"github.com/jackss011/esp-synth/internal/mailbox"
	"github.com/jackss011/esp-synth/internal/midi"
	"github.com/jackss011/esp-synth/internal/osc"
)

// Voice is the note currently sounding.
type Voice struct {
	Enabled bool
	Note    midi.Note
	dt      float32
}

func (v *Voice) setNote(n midi.Note) {
	v.Note = n
	v.dt = n.Frequency() / SampleRate
}

// Clock returns a monotonic time in milliseconds.
type Clock func() int64

type Option func(*Engine)

// WithClock replaces the sample-count clock used for arpeggiator timing.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithConfig sets the configuration used until the first mailbox update.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// Engine owns all voice state. ProcessBlock must be called from a single
// goroutine; configuration and events arrive through the mailbox and queue,
// either of which may be nil.
type Engine struct {
	params *mailbox.Mailbox[Config]
	events *mailbox.Queue[midi.Event]

	cfg     Config
	tracker midi.NoteTracker
	arp     arp.State
	voice   Voice
	osc     [OscCount]osc.State
	env     envelope.State
	lowpass *filter.LowPass
	handle  func(midi.Event) // bound once so draining does not allocate

	clock      Clock
	elapsed    int64 // samples rendered
	masterGain uint64
}

func New(params *mailbox.Mailbox[Config], events *mailbox.Queue[midi.Event], opts ...Option) *Engine {
	e := &Engine{
		params:  params,
		events:  events,
		cfg:     DefaultConfig(),
		lowpass: filter.New(SampleRate),
	}
	e.handle = e.HandleEvent
	e.voice.setNote(midi.A4)
	e.SetMasterGain(1)
	for _, opt := range opts {
		opt(e)
	}
	e.env.SetRates(e.cfg.Envelope, SampleRate)
	return e
}

func (e *Engine) SetMasterGain(v float64) {
	atomic.StoreUint64(&e.masterGain, math.Float64bits(v))
}

func (e *Engine) MasterGain() float64 {
	return math.Float64frombits(atomic.LoadUint64(&e.masterGain))
}

func (e *Engine) Config() Config { return e.cfg }

// HandleEvent applies a note event to the tracker. Other kinds are ignored.
func (e *Engine) HandleEvent(ev midi.Event) {
	switch ev.Kind() {
	case midi.NoteOn:
		e.tracker.Push(ev.Note())
	case midi.NoteOff:
		e.tracker.Pop(ev.Note())
	}
}

func (e *Engine) Voice() Voice                  { return e.voice }
func (e *Engine) EnvelopeStage() envelope.Stage { return e.env.Stage }
func (e *Engine) EnvelopeValue() float32        { return e.env.Value }
func (e *Engine) Tracker() midi.NoteTracker     { return e.tracker }
func (e *Engine) ArpCounter() uint32            { return e.arp.Counter() }

// Now returns the engine time in milliseconds.
func (e *Engine) Now() int64 {
	if e.clock != nil {
		return e.clock()
	}
	return e.elapsed * 1000 / SampleRate
}

// ProcessBlock renders len(out) samples in [-1,1]. It never blocks and never
// allocates.
func (e *Engine) ProcessBlock(out []float32) {
	if e.params != nil {
		if cfg, ok := e.params.TryTake(); ok {
			e.cfg = cfg
		}
	}
	if e.events != nil {
		e.events.Drain(e.handle)
	}

	e.selectNote()
	e.env.SetRates(e.cfg.Envelope, SampleRate)

	cfg := &e.cfg
	gain := float32(e.MasterGain())
	dt := e.voice.dt
	for i := range out {
		var x float32
		for k := range e.osc {
			x += e.osc[k].Step(dt, &cfg.Osc[k])
		}
		x *= e.env.Step()
		out[i] = cfg.Boost.Process(x)
	}
	if cfg.LowPass.Enabled {
		e.lowpass.ProcessBlock(out, &cfg.LowPass)
	}
	for i, s := range out {
		out[i] = effects.SaturateHard(s * gain)
	}
	e.elapsed += int64(len(out))
}

func (e *Engine) selectNote() {
	if e.tracker.Len() == 0 {
		if e.voice.Enabled {
			e.voice.Enabled = false
			e.env.TriggerOff()
			e.lowpass.TriggerOff()
		}
		e.arp.Clear()
		return
	}

	var next midi.Note
	if e.cfg.Arp.Enabled {
		e.arp.Step(e.Now(), e.cfg.Arp)
		next = e.tracker.At(e.arp.Index(e.tracker.Len()))
	} else {
		next = e.tracker.MostRecent()
	}

	if next != e.voice.Note || !e.voice.Enabled {
		e.voice.Enabled = true
		e.voice.setNote(next)
		e.env.TriggerOn()
		e.lowpass.TriggerOn()
	}
}

// Reset silences the voice and forgets held notes.
func (e *Engine) Reset() {
	e.tracker.Clear()
	e.arp.Clear()
	e.voice = Voice{}
	e.voice.setNote(midi.A4)
	for i := range e.osc {
		e.osc[i].Reset()
	}
	e.env.Reset()
	e.lowpass.Reset()
}
