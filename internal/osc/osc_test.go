package osc

import (
	"math"
	"testing"

	"github.com/jackss011/esp-synth/internal/wave"
)

func TestDisabledOscillatorIsSilent(t *testing.T) {
	cfg := DefaultConfig()
	var s State
	for i := 0; i < 100; i++ {
		if v := s.Step(0.01, &cfg); v != 0 {
			t.Fatalf("disabled oscillator produced %v", v)
		}
	}
	if s.Phase != 0 {
		t.Fatalf("disabled oscillator advanced phase to %v", s.Phase)
	}
}

func TestPhaseWrapsIntoUnitInterval(t *testing.T) {
	cfg := Config{Enabled: true, Wave: wave.Saw, FreqMult: 3.7, GainMult: 1}
	var s State
	for i := 0; i < 10000; i++ {
		v := s.Step(0.0137, &cfg)
		if s.Phase < 0 || s.Phase >= 1 {
			t.Fatalf("phase %v outside [0,1) at step %d", s.Phase, i)
		}
		if v < -1 || v > 1 {
			t.Fatalf("sample %v out of range", v)
		}
	}
}

func TestNegativeStepWrapsNonNegative(t *testing.T) {
	cfg := Config{Enabled: true, Wave: wave.Sin, FreqMult: 1, GainMult: 1}
	s := State{Phase: 0.1}
	s.Step(-0.25, &cfg)
	if math.Abs(float64(s.Phase)-0.85) > 1e-5 {
		t.Fatalf("phase = %v, want 0.85", s.Phase)
	}
}

func TestGainScalesOutput(t *testing.T) {
	cfg := Config{Enabled: true, Wave: wave.Square, FreqMult: 1, GainMult: 0.25}
	var s State
	if v := s.Step(0.1, &cfg); v != 0.25 {
		t.Fatalf("square at phase 0.1 with gain 0.25 = %v", v)
	}
}

func TestFreqMultFromRangeAndDetune(t *testing.T) {
	var cfg Config
	cfg.SetFreqMult(RangeMult(16), 0)
	if cfg.FreqMult != 0.5 {
		t.Fatalf("16' = %v, want 0.5", cfg.FreqMult)
	}
	cfg.SetFreqMult(RangeMult(8), -1200)
	if math.Abs(float64(cfg.FreqMult)-0.5) > 1e-6 {
		t.Fatalf("8' detuned an octave down = %v", cfg.FreqMult)
	}
	cfg.SetFreqMult(RangeMult(2), 0)
	if cfg.FreqMult != 4 {
		t.Fatalf("2' = %v, want 4", cfg.FreqMult)
	}
}
