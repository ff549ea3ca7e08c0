package espsynth

import (
	"fmt"
	"io"
	"math"
	"time"

	wav "github.com/youpy/go-wav"

	intaudio "github.com/jackss011/esp-synth/internal/audio"
	"github.com/jackss011/esp-synth/internal/patch"
	"github.com/jackss011/esp-synth/internal/synth"
)

type Patch = patch.Patch

func LoadPatch(src string) (*Patch, error)      { return patch.Load(src) }
func LoadPatchFile(path string) (*Patch, error) { return patch.LoadFile(path) }
func FormatPatch(cfg Config) string             { return patch.Format(cfg) }

// TailSeconds is rendered after a score's last step when RenderPatch is
// asked for the natural length.
const TailSeconds = 0.5

// RenderPatch renders p's score with p's configuration. Events land on the
// first block boundary at or after their time. seconds <= 0 renders the score
// plus the amplitude release and TailSeconds. The result is the same on
// every call.
func RenderPatch(p *Patch, seconds float64) []float32 {
	if seconds <= 0 {
		seconds = p.Length.Seconds() + float64(p.Config.Envelope.ReleaseSecs) + TailSeconds
	}
	frames := int(math.Ceil(seconds * SampleRate))
	out := make([]float32, frames)

	engine := synth.New(nil, nil, synth.WithConfig(p.Config))
	block := make([]float32, BlockSize)
	next := 0
	for pos := 0; pos < frames; pos += BlockSize {
		now := time.Duration(pos) * time.Second / SampleRate
		for next < len(p.Score) && p.Score[next].At <= now {
			engine.HandleEvent(p.Score[next].Event)
			next++
		}
		engine.ProcessBlock(block)
		copy(out[pos:], block)
	}
	return out
}

// EncodeWAV writes samples as 16-bit mono PCM at SampleRate, with the same
// headroom as the hardware output.
func EncodeWAV(w io.Writer, samples []float32) error {
	pcm := intaudio.ToPCM16(make([]int16, 0, len(samples)), samples)
	frames := make([]wav.Sample, len(pcm))
	for i, v := range pcm {
		frames[i].Values[0] = int(v)
	}
	ww := wav.NewWriter(w, uint32(len(frames)), 1, SampleRate, 16)
	if err := ww.WriteSamples(frames); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}
