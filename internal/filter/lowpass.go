// Package filter implements the voice's resonant low-pass.
package filter

import (
	"maze.io/x/math32"

	"github.com/jackss011/esp-synth/internal/effects"
	"github.com/jackss011/esp-synth/internal/envelope"
)

const (
	// SmoothingSecs is the time constant of the cutoff glide.
	SmoothingSecs = 0.1

	minCutoffHz   = 20
	maxCutoffFrac = 0.45 // of the sample rate
)

// Config controls the low-pass. ContourHz is added to the cutoff, scaled by
// the contour envelope.
type Config struct {
	Enabled   bool
	CutoffHz  float32
	Resonance float32 // [0,1]
	ContourHz float32
	Envelope  envelope.Config
}

func DefaultConfig() Config {
	return Config{
		CutoffHz:  18000,
		Resonance: 0.3,
		Envelope:  envelope.Config{AttackSecs: 1, DecaySecs: 1, SustainGain: 0.5, ReleaseSecs: 0.5},
	}
}

// LowPass is a four-pole cascade of trapezoidal (TPT) one-pole sections with
// resonance fed back from the last pole through a soft saturator. The
// feedback path is bounded, so the output stays bounded for any resonance.
type LowPass struct {
	sampleRate float32
	smoothing  float32
	cutoff     float32
	primed     bool
	s          [4]float32
	out        float32
	contour    envelope.State
}

func New(sampleRate int) *LowPass {
	sr := float32(sampleRate)
	return &LowPass{
		sampleRate: sr,
		smoothing:  1 / (SmoothingSecs * sr),
	}
}

// TriggerOn starts the contour envelope.
func (f *LowPass) TriggerOn() { f.contour.TriggerOn() }

// TriggerOff releases the contour envelope.
func (f *LowPass) TriggerOff() { f.contour.TriggerOff() }

// Cutoff returns the current smoothed cutoff in Hz.
func (f *LowPass) Cutoff() float32 { return f.cutoff }

func (f *LowPass) Reset() {
	f.s = [4]float32{}
	f.out = 0
	f.primed = false
	f.cutoff = 0
	f.contour.Reset()
}

// ProcessBlock filters samples in place. The integrator state carries over
// between calls.
func (f *LowPass) ProcessBlock(samples []float32, cfg *Config) {
	f.contour.SetRates(cfg.Envelope, f.sampleRate)
	k := 4 * clamp(cfg.Resonance, 0, 1)
	if !f.primed {
		f.cutoff = f.clampCutoff(cfg.CutoffHz)
		f.primed = true
	}
	for i, x := range samples {
		target := f.clampCutoff(cfg.CutoffHz + cfg.ContourHz*f.contour.Step())
		f.cutoff += (target - f.cutoff) * f.smoothing

		g := math32.Tan(math32.Pi * f.cutoff / f.sampleRate)
		gg := g / (1 + g)

		u := effects.SaturateSoft(x - k*f.out)
		for p := range f.s {
			v := (u - f.s[p]) * gg
			y := v + f.s[p]
			f.s[p] = y + v
			u = y
		}
		f.out = u
		samples[i] = u
	}
}

func (f *LowPass) clampCutoff(hz float32) float32 {
	return clamp(hz, minCutoffHz, maxCutoffFrac*f.sampleRate)
}

func clamp(v, lo, hi float32) float32 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
