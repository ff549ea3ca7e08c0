package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

// rampSource emits 0,1,2,... and counts blocks.
type rampSource struct {
	next   float32
	blocks int
}

func (s *rampSource) ProcessBlock(out []float32) {
	s.blocks++
	for i := range out {
		out[i] = s.next
		s.next++
	}
}

func decode(p []byte) []float32 {
	out := make([]float32, len(p)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	return out
}

func TestStreamReaderCarriesBlockTail(t *testing.T) {
	src := &rampSource{}
	r := NewStreamReader(src, 8)
	var mono []float32
	for _, size := range []int{24, 8, 64, 3, 40} {
		p := make([]byte, size)
		n, err := r.Read(p)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if n != size/frameBytes*frameBytes {
			t.Fatalf("Read(%d) = %d", size, n)
		}
		s := decode(p[:n])
		for i := 0; i+1 < len(s); i += 2 {
			if s[i] != s[i+1] {
				t.Fatalf("channels differ: %v %v", s[i], s[i+1])
			}
			mono = append(mono, s[i])
		}
	}
	for i, v := range mono {
		if v != float32(i) {
			t.Fatalf("sample %d = %v; stream skipped or repeated samples", i, v)
		}
	}
	// 3+1+8+0+5 = 17 frames over blocks of 8
	if len(mono) != 17 || src.blocks != 3 {
		t.Fatalf("frames=%d blocks=%d", len(mono), src.blocks)
	}
}

func TestStreamReaderTap(t *testing.T) {
	src := &rampSource{}
	r := NewStreamReader(src, 4)
	var tapped int
	r.SetTap(func(b []float32) { tapped += len(b) })
	r.Read(make([]byte, 10*frameBytes))
	if tapped != 12 {
		t.Fatalf("tapped %d samples, want 12", tapped)
	}
}

func TestToPCM16(t *testing.T) {
	got := ToPCM16(nil, []float32{0, 1, -1, 0.5})
	want := []int16{0, 16383, -16383, 8191}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ToPCM16 = %v, want %v", got, want)
		}
	}
}
