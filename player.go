// Package espsynth is a monophonic synthesizer voice with an arpeggiator,
// three oscillators, an amplitude envelope, boost and a resonant low-pass.
//
// A Player owns the engine and its inputs. Control code posts whole
// configurations and note events; the audio goroutine picks them up at the
// start of each block and never waits on the control side.
package espsynth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	intaudio "github.com/jackss011/esp-synth/internal/audio"
	intfx "github.com/jackss011/esp-synth/internal/effects"
	"github.com/jackss011/esp-synth/internal/ingest"
	"github.com/jackss011/esp-synth/internal/mailbox"
	"github.com/jackss011/esp-synth/internal/midi"
	"github.com/jackss011/esp-synth/internal/synth"
)

type (
	Config = synth.Config
	Event  = midi.Event
	Note   = midi.Note
)

const (
	SampleRate = synth.SampleRate
	BlockSize  = synth.BlockSize
)

func DefaultConfig() Config { return synth.DefaultConfig() }

// Backend selects the audio output.
type Backend string

const (
	BackendEbiten Backend = "ebiten"
	BackendOto    Backend = "oto"
	// BackendNone renders only when Process is called.
	BackendNone Backend = "none"
)

type PlayerOption func(*playerConfig)

type playerConfig struct {
	backend       Backend
	logger        *slog.Logger
	sampleTap     func([]float32)
	clock         synth.Clock
	queueCapacity int
	config        Config
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{
		backend:       BackendEbiten,
		logger:        slog.Default(),
		queueCapacity: mailbox.DefaultCapacity,
		config:        synth.DefaultConfig(),
	}
}

func WithBackend(b Backend) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.backend = b
	}
}

func WithLogger(l *slog.Logger) PlayerOption {
	return func(cfg *playerConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithSampleTap installs a callback invoked with each rendered mono block.
// The callback runs on the audio goroutine; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

// WithClock drives the arpeggiator from c instead of the rendered sample
// count.
func WithClock(c synth.Clock) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.clock = c
	}
}

func WithQueueCapacity(n int) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.queueCapacity = n
	}
}

// WithConfig sets the initial synthesis configuration.
func WithConfig(c Config) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.config = c
	}
}

type output interface {
	Play()
	Pause()
	IsPlaying() bool
	Stop() error
}

// Player is the synth's context object.
type Player struct {
	mu      sync.Mutex
	params  *mailbox.Mailbox[Config]
	events  *mailbox.Queue[Event]
	engine  *synth.Engine
	chain   *voiceChain
	reader  *intaudio.StreamReader
	backend Backend
	audio   output
	opened  atomic.Bool // a backend owns the stream reader
	config  Config
	volume  float64
	logger  *slog.Logger
}

// voiceChain is the audio goroutine's view: engine, master EQ, limiter.
type voiceChain struct {
	engine   *synth.Engine
	masterEQ *intfx.EQ5Band
}

func (c *voiceChain) ProcessBlock(out []float32) {
	c.engine.ProcessBlock(out)
	if c.masterEQ.Process(out) {
		intfx.SaturateBlock(out)
	}
}

var ErrSampleRate = errors.New("espsynth: unsupported sample rate")

// NewPlayer builds the engine and its mailbox and queue. The engine runs at
// a fixed rate, so sampleRate must equal SampleRate.
func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate != SampleRate {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrSampleRate, sampleRate, SampleRate)
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	params := &mailbox.Mailbox[Config]{}
	events := mailbox.NewQueue[Event](cfg.queueCapacity)
	engineOpts := []synth.Option{synth.WithConfig(cfg.config)}
	if cfg.clock != nil {
		engineOpts = append(engineOpts, synth.WithClock(cfg.clock))
	}
	engine := synth.New(params, events, engineOpts...)
	chain := &voiceChain{engine: engine, masterEQ: intfx.NewEQ5Band(sampleRate)}
	reader := intaudio.NewStreamReader(chain, BlockSize)
	if cfg.sampleTap != nil {
		reader.SetTap(cfg.sampleTap)
	}
	return &Player{
		params:  params,
		events:  events,
		engine:  engine,
		chain:   chain,
		reader:  reader,
		backend: cfg.backend,
		config:  cfg.config,
		volume:  1,
		logger:  cfg.logger,
	}, nil
}

// Send queues a note event without waiting. It reports false, and counts a
// drop, when the queue is full.
func (p *Player) Send(ev Event) bool {
	if !p.events.TrySend(ev) {
		p.logger.Warn("event queue full, dropped", "event", ev.String())
		return false
	}
	return true
}

func (p *Player) NoteOn(n Note, velocity uint8) bool {
	return p.Send(midi.NoteOnEvent(0, n, velocity))
}

func (p *Player) NoteOff(n Note) bool {
	return p.Send(midi.NoteOffEvent(0, n))
}

// UpdateConfig publishes cfg to the engine. A config the engine has not yet
// picked up is replaced.
func (p *Player) UpdateConfig(cfg Config) {
	p.mu.Lock()
	p.config = cfg
	p.mu.Unlock()
	p.params.Put(cfg)
}

// Config returns the last configuration posted.
func (p *Player) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config
}

// Dropped returns how many note events were discarded on a full queue.
func (p *Player) Dropped() uint64 { return p.events.Dropped() }

// Process renders one block directly, for hosts that pull audio themselves
// (BackendNone). It does nothing while a backend is playing. It never takes
// the control lock.
func (p *Player) Process(out []float32) {
	if p.opened.Load() {
		return
	}
	p.chain.ProcessBlock(out)
}

// Play opens the audio backend on first use and starts output.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		var (
			out output
			err error
		)
		switch p.backend {
		case BackendEbiten:
			p.opened.Store(true)
			out, err = intaudio.NewPlayer(SampleRate, p.reader)
		case BackendOto:
			p.opened.Store(true)
			out, err = intaudio.NewOtoPlayer(SampleRate, p.reader)
		case BackendNone:
			return nil
		default:
			return fmt.Errorf("espsynth: unknown backend %q", p.backend)
		}
		if err != nil {
			p.opened.Store(false)
			return fmt.Errorf("open %s audio: %w", p.backend, err)
		}
		p.audio = out
		p.logger.Info("audio started", "backend", string(p.backend), "rate", SampleRate, "block", BlockSize)
	}
	p.audio.Play()
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audio != nil && p.audio.IsPlaying()
}

func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return nil
	}
	err := p.audio.Stop()
	p.audio = nil
	p.opened.Store(false)
	p.logger.Info("audio stopped")
	return err
}

// Source is a control-side task feeding the player, such as a serial
// reader or a MIDI port.
type Source interface {
	Run(ctx context.Context) error
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) error

func (f SourceFunc) Run(ctx context.Context) error { return f(ctx) }

// FrameSource reads framed note events from r.
func (p *Player) FrameSource(r io.Reader) Source {
	return ingest.NewReader(r, p.events, ingest.WithLogger(p.logger))
}

// Run runs sources until one fails or ctx is cancelled. A source returning
// nil does not stop the others.
func (p *Player) Run(ctx context.Context, sources ...Source) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			return src.Run(ctx)
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// SetMasterVolume sets the output scalar. 1.0 is default.
func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	p.engine.SetMasterGain(volume)
}

func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetEQBand sets the gain for a master EQ band (0-4). 1.0 = unity.
// Band frequencies: 0=<200Hz, 1=200-800Hz, 2=800-2.5kHz, 3=2.5-8kHz, 4=>8kHz.
// This takes effect immediately on the audio goroutine.
func (p *Player) SetEQBand(band int, gain float32) {
	p.chain.masterEQ.SetGain(band, gain)
}

func (p *Player) EQBand(band int) float32 {
	return p.chain.masterEQ.Gain(band)
}
