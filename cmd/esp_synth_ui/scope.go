package main

import (
	"image/color"
	"math"
	"math/cmplx"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/madelynnblue/go-dsp/fft"
)

const (
	fftSize    = 2048
	ringBufLen = 16384
)

// analyzer keeps the most recent rendered samples for the scope.
type analyzer struct {
	mu         sync.Mutex
	sampleRate int
	ring       []float32
	writePos   int
}

func newAnalyzer(sampleRate int) *analyzer {
	return &analyzer{
		sampleRate: sampleRate,
		ring:       make([]float32, ringBufLen),
	}
}

// Tap is called from the audio goroutine with each mono block.
func (a *analyzer) Tap(samples []float32) {
	a.mu.Lock()
	for _, s := range samples {
		a.ring[a.writePos] = s
		a.writePos = (a.writePos + 1) % ringBufLen
	}
	a.mu.Unlock()
}

// Snapshot copies the last n samples.
func (a *analyzer) Snapshot(n int) []float32 {
	if n > ringBufLen {
		n = ringBufLen
	}
	out := make([]float32, n)
	a.mu.Lock()
	start := (a.writePos - n + ringBufLen) % ringBufLen
	for i := range out {
		out[i] = a.ring[(start+i)%ringBufLen]
	}
	a.mu.Unlock()
	return out
}

type scope struct {
	img      *ebiten.Image
	w, h     int
	specBins []float64
	wavePeak float64
}

func (s *scope) draw(dst *ebiten.Image, samples []float32, sampleRate int, x, y, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if s.img == nil || s.w != width || s.h != height {
		s.w, s.h = width, height
		s.img = ebiten.NewImage(width, height)
	}
	s.img.Fill(color.RGBA{14, 16, 22, 255})

	waveH := int(float64(height) * 0.45)
	s.drawWaveform(samples, width, waveH)
	ebitenutil.DrawRect(s.img, 0, float64(waveH), float64(width), 1, color.RGBA{50, 54, 68, 180})
	s.drawSpectrum(samples, sampleRate, width, height-waveH-1, waveH+1)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	dst.DrawImage(s.img, op)
}

func (s *scope) drawWaveform(samples []float32, width, height int) {
	if len(samples) < 2 || width < 2 || height < 4 {
		return
	}
	midY := height / 2
	ebitenutil.DrawRect(s.img, 0, float64(midY), float64(width), 1, color.RGBA{40, 44, 58, 100})

	// Auto-gain with fast attack and slow release.
	var peak float32
	for _, v := range samples {
		if v < 0 {
			v = -v
		}
		peak = max(peak, v)
	}
	target := max(float64(peak), 0.01)
	if target > s.wavePeak {
		s.wavePeak = s.wavePeak*0.3 + target*0.7
	} else {
		s.wavePeak = s.wavePeak*0.995 + target*0.005
	}
	s.wavePeak = max(s.wavePeak, 0.01)
	gain := float64(midY-2) / s.wavePeak

	trigger := findZeroCrossing(samples, len(samples)/4)
	// Show about 20ms so single cycles are readable.
	visible := min(len(samples)-trigger, 882)
	if visible < 2 {
		visible = 2
	}

	waveColor := color.RGBA{80, 200, 255, 220}
	prevY := midY - int(float64(samples[trigger])*gain)
	for px := 1; px < width; px++ {
		si := min(trigger+px*visible/width, len(samples)-1)
		y := midY - int(float64(samples[si])*gain)
		ebitenutil.DrawLine(s.img, float64(px-1), float64(prevY), float64(px), float64(y), waveColor)
		prevY = y
	}
}

// findZeroCrossing finds a rising zero crossing to keep the trace still.
func findZeroCrossing(samples []float32, searchLen int) int {
	searchLen = min(searchLen, len(samples)-2)
	for i := 1; i < searchLen; i++ {
		if samples[i-1] <= 0 && samples[i] > 0 {
			return i
		}
	}
	return 0
}

func (s *scope) drawSpectrum(samples []float32, sampleRate, width, height, yOffset int) {
	if len(samples) < fftSize || width < 4 || height < 4 {
		return
	}
	in := make([]float64, fftSize)
	for i := range in {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
		in[i] = float64(samples[len(samples)-fftSize+i]) * w
	}
	bins := fft.FFTReal(in)

	numBars := min(max(width/3, 16), 256)
	if len(s.specBins) != numBars {
		s.specBins = make([]float64, numBars)
	}

	half := fftSize / 2
	maxBin := min(half*18000/(sampleRate/2), half)
	logMin := 0.0 // bin 1, skipping DC
	logMax := math.Log(float64(maxBin))

	for i := range numBars {
		b0 := int(math.Exp(logMin + float64(i)/float64(numBars)*(logMax-logMin)))
		b1 := int(math.Exp(logMin + float64(i+1)/float64(numBars)*(logMax-logMin)))
		if b1 <= b0 {
			b1 = b0 + 1
		}
		b1 = min(b1, half)
		sum := 0.0
		for b := b0; b < b1; b++ {
			sum += cmplx.Abs(bins[b])
		}
		avg := sum / float64(b1-b0)

		db := 20 * math.Log10(avg/fftSize+1e-10)
		norm := min(max((db+80)/80, 0), 1)
		prev := s.specBins[i]
		if norm > prev {
			s.specBins[i] = prev*0.3 + norm*0.7
		} else {
			s.specBins[i] = prev*0.85 + norm*0.15
		}
	}

	barW := float64(width) / float64(numBars)
	for i, v := range s.specBins {
		barH := max(v*float64(height-4), 1)
		x := float64(i) * barW
		y := float64(yOffset) + float64(height-2) - barH
		r, g, b := spectrumColor(v)
		ebitenutil.DrawRect(s.img, x+1, y, barW-1, barH, color.RGBA{r, g, b, 220})
	}
}

func spectrumColor(v float64) (uint8, uint8, uint8) {
	if v < 0.33 {
		t := v / 0.33
		return uint8(30 + 20*t), uint8(80 + 120*t), uint8(200 + 55*t)
	}
	if v < 0.66 {
		t := (v - 0.33) / 0.33
		return uint8(50 + 140*t), uint8(200 + 30*t), uint8(255 - 100*t)
	}
	t := (v - 0.66) / 0.34
	return uint8(190 + 65*t), uint8(230 - 100*t), uint8(155 - 100*t)
}
