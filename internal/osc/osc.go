package osc

import (
	"maze.io/x/math32"

	"github.com/jackss011/esp-synth/internal/wave"
)

// Config describes one oscillator slot of the voice.
type Config struct {
	Enabled  bool
	Wave     wave.Kind
	FreqMult float32
	GainMult float32
}

func DefaultConfig() Config {
	return Config{Wave: wave.Tri, FreqMult: 1, GainMult: 0.5}
}

// SetFreqMult sets the frequency multiplier from a base ratio and a detune
// in cents.
func (c *Config) SetFreqMult(base float32, detuneCents int32) {
	c.FreqMult = base * math32.Pow(2, float32(detuneCents)/1200)
}

// RangeMult converts an organ footage ("32'", "16'", "8'", ...) to a
// frequency ratio relative to 8'.
func RangeMult(feet int) float32 {
	if feet <= 0 {
		return 1
	}
	return 8 / float32(feet)
}

// State is the running phase in [0,1).
type State struct {
	Phase float32
}

// Step advances the phase by dt scaled by the slot's multiplier and returns
// the gained waveform sample. Disabled slots return 0 and keep their phase.
func (s *State) Step(dt float32, cfg *Config) float32 {
	if !cfg.Enabled {
		return 0
	}
	s.Phase = wrap(s.Phase + dt*cfg.FreqMult)
	return cfg.Wave.Sample(s.Phase) * cfg.GainMult
}

func (s *State) Reset() { s.Phase = 0 }

// wrap keeps the fractional part, always non-negative.
func wrap(p float32) float32 {
	p -= math32.Floor(p)
	if p >= 1 || p < 0 {
		return 0
	}
	return p
}
