package effects

import (
	"math"
	"sync/atomic"

	"maze.io/x/math32"
)

// Bands is the number of EQ5Band bands.
const Bands = 5

// EQ5Band is a mono five-band tone control split at 200 Hz, 800 Hz, 2.5 kHz
// and 8 kHz. Gains are float32 bit patterns so the control side can change
// them while the audio goroutine reads.
type EQ5Band struct {
	gains  [Bands]atomic.Uint32
	alphas [Bands - 1]float32
	lp     [Bands - 1]float32
	// bypassed is owned by the audio goroutine.
	bypassed bool
}

var crossoversHz = [Bands - 1]float32{200, 800, 2500, 8000}

func NewEQ5Band(sampleRate int) *EQ5Band {
	eq := &EQ5Band{bypassed: true}
	dt := 1 / float32(sampleRate)
	for i, hz := range crossoversHz {
		rc := 1 / (2 * math32.Pi * hz)
		eq.alphas[i] = dt / (rc + dt)
	}
	for i := range eq.gains {
		eq.gains[i].Store(math.Float32bits(1))
	}
	return eq
}

// SetGain sets band's linear gain; 1 is unity. Out of range bands are
// ignored.
func (eq *EQ5Band) SetGain(band int, gain float32) {
	if band >= 0 && band < Bands {
		if gain < 0 {
			gain = 0
		}
		eq.gains[band].Store(math.Float32bits(gain))
	}
}

func (eq *EQ5Band) Gain(band int) float32 {
	if band >= 0 && band < Bands {
		return math.Float32frombits(eq.gains[band].Load())
	}
	return 1
}

// Flat reports whether every band is at unity.
func (eq *EQ5Band) Flat() bool {
	for i := range eq.gains {
		if eq.Gain(i) != 1 {
			return false
		}
	}
	return true
}

// Process filters samples unless every band is at unity, and reports
// whether it did. Crossover state goes stale while bypassed, so it is
// cleared when filtering resumes.
func (eq *EQ5Band) Process(samples []float32) bool {
	if eq.Flat() {
		eq.bypassed = true
		return false
	}
	if eq.bypassed {
		eq.Reset()
		eq.bypassed = false
	}
	eq.ProcessBlock(samples)
	return true
}

// ProcessBlock filters samples in place. Each crossover peels the low part
// off the remainder, so at unity the bands sum back to the input.
func (eq *EQ5Band) ProcessBlock(samples []float32) {
	var g [Bands]float32
	for i := range g {
		g[i] = eq.Gain(i)
	}
	for n, x := range samples {
		var out float32
		rem := x
		for i := range eq.lp {
			eq.lp[i] += eq.alphas[i] * (rem - eq.lp[i])
			out += eq.lp[i] * g[i]
			rem -= eq.lp[i]
		}
		samples[n] = out + rem*g[Bands-1]
	}
}

func (eq *EQ5Band) Reset() {
	eq.lp = [Bands - 1]float32{}
}
