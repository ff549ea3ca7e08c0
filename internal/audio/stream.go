// Package audio adapts the block-oriented synth engine to pull-based audio
// players.
package audio

import (
	"encoding/binary"
	"math"
	"sync"
)

// BlockSource renders mono samples one fixed-size block at a time.
type BlockSource interface {
	ProcessBlock(out []float32)
}

const (
	Channels    = 2
	frameBytes  = 4 * Channels
	sampleBytes = 4
)

// StreamReader is an io.ReadCloser of interleaved stereo float32 LE. It pulls
// whole blocks from the source and carries the unread tail of a block over
// to the next Read, so players may ask for any byte count.
type StreamReader struct {
	mu     sync.Mutex
	source BlockSource
	block  []float32
	pos    int
	tap    func([]float32)
}

func NewStreamReader(source BlockSource, blockSize int) *StreamReader {
	block := make([]float32, blockSize)
	return &StreamReader{source: source, block: block, pos: len(block)}
}

// SetTap installs a callback invoked with each rendered mono block. It runs
// on the audio goroutine.
func (r *StreamReader) SetTap(tap func([]float32)) {
	r.mu.Lock()
	r.tap = tap
	r.mu.Unlock()
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / frameBytes
	for f := 0; f < frames; f++ {
		if r.pos == len(r.block) {
			r.source.ProcessBlock(r.block)
			r.pos = 0
			if r.tap != nil {
				r.tap(r.block)
			}
		}
		u := math.Float32bits(r.block[r.pos])
		r.pos++
		off := f * frameBytes
		for c := 0; c < Channels; c++ {
			binary.LittleEndian.PutUint32(p[off+c*sampleBytes:], u)
		}
	}
	return frames * frameBytes, nil
}

func (r *StreamReader) Close() error { return nil }

// pcmMax leaves half of the int16 range as headroom.
const pcmMax = math.MaxInt16 / 2

// ToPCM16 converts samples in [-1,1] to int16, appending to dst.
func ToPCM16(dst []int16, samples []float32) []int16 {
	for _, s := range samples {
		dst = append(dst, int16(s*pcmMax))
	}
	return dst
}
