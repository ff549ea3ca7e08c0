package synth

import (
	"testing"

	"github.com/jackss011/esp-synth/internal/envelope"
	"github.com/jackss011/esp-synth/internal/mailbox"
	"github.com/jackss011/esp-synth/internal/midi"
	"github.com/jackss011/esp-synth/internal/wave"
)

func on(n midi.Note) midi.Event  { return midi.NoteOnEvent(0, n, 100) }
func off(n midi.Note) midi.Event { return midi.NoteOffEvent(0, n) }

func TestSilentWithoutNotes(t *testing.T) {
	e := New(nil, nil)
	buf := make([]float32, BlockSize)
	for i := 0; i < 10; i++ {
		e.ProcessBlock(buf)
		for _, s := range buf {
			if s != 0 {
				t.Fatalf("idle engine produced %v", s)
			}
		}
	}
	if e.Voice().Enabled {
		t.Fatalf("voice enabled without notes")
	}
}

func TestMostRecentNoteAndRelease(t *testing.T) {
	events := mailbox.NewQueue[midi.Event](mailbox.DefaultCapacity)
	e := New(nil, events)
	buf := make([]float32, BlockSize)

	events.TrySend(on(60))
	e.ProcessBlock(buf)
	if v := e.Voice(); !v.Enabled || v.Note != 60 {
		t.Fatalf("voice = %+v, want 60 enabled", v)
	}
	if e.EnvelopeStage() != envelope.Attack {
		t.Fatalf("stage = %v, want attack", e.EnvelopeStage())
	}

	events.TrySend(on(64))
	e.ProcessBlock(buf)
	if v := e.Voice(); v.Note != 64 {
		t.Fatalf("note = %v, want 64", v.Note)
	}

	events.TrySend(off(64))
	e.ProcessBlock(buf)
	if v := e.Voice(); !v.Enabled || v.Note != 60 {
		t.Fatalf("after releasing 64 voice = %+v, want 60", v)
	}

	events.TrySend(off(60))
	e.ProcessBlock(buf)
	if e.Voice().Enabled {
		t.Fatalf("voice still enabled with no held notes")
	}
	if e.EnvelopeStage() != envelope.Release {
		t.Fatalf("stage = %v, want release", e.EnvelopeStage())
	}

	blocks := 0
	for e.EnvelopeStage() != envelope.Off {
		e.ProcessBlock(buf)
		if blocks++; blocks > 2000 {
			t.Fatalf("envelope never reached off")
		}
	}
	if e.EnvelopeValue() != 0 {
		t.Fatalf("envelope value at off = %v", e.EnvelopeValue())
	}
	e.ProcessBlock(buf)
	for _, s := range buf {
		if s != 0 {
			t.Fatalf("released voice produced %v", s)
		}
	}
}

func TestZeroVelocityNoteOnReleases(t *testing.T) {
	e := New(nil, nil)
	buf := make([]float32, BlockSize)
	e.HandleEvent(on(48))
	e.ProcessBlock(buf)
	e.HandleEvent(midi.NoteOnEvent(0, 48, 0))
	e.ProcessBlock(buf)
	if e.Voice().Enabled || e.Tracker().Len() != 0 {
		t.Fatalf("zero velocity note-on did not release")
	}
}

func TestArpeggiatorCyclesHeldNotes(t *testing.T) {
	var now int64
	cfg := DefaultConfig()
	cfg.Arp.Enabled = true
	cfg.Arp.TempoBPM = 120
	cfg.Arp.Division = 1
	e := New(nil, nil, WithConfig(cfg), WithClock(func() int64 { return now }))
	for _, n := range []midi.Note{60, 64, 67} {
		e.HandleEvent(on(n))
	}
	tracker := e.Tracker()
	buf := make([]float32, BlockSize)

	steps := []struct {
		at    int64
		index int
	}{
		{0, 0}, {250, 0}, {499, 0},
		{500, 1}, {999, 1},
		{1000, 2},
		{1500, 0},
		{2000, 1},
	}
	for _, s := range steps {
		now = s.at
		e.ProcessBlock(buf)
		want := tracker.At(s.index)
		if got := e.Voice().Note; got != want {
			t.Fatalf("t=%dms note = %v, want %v (index %d)", s.at, got, want, s.index)
		}
	}
}

func TestArpeggiatorSampleClock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Arp.Enabled = true
	e := New(nil, nil, WithConfig(cfg))
	e.HandleEvent(on(60))
	e.HandleEvent(on(64))
	buf := make([]float32, BlockSize)
	changes := 0
	last := midi.None
	for e.Now() < 1600 {
		e.ProcessBlock(buf)
		if n := e.Voice().Note; n != last {
			changes++
			last = n
		}
	}
	if e.ArpCounter() != 3 {
		t.Fatalf("counter after 1.6s = %d, want 3", e.ArpCounter())
	}
	if changes != 4 {
		t.Fatalf("note changes = %d, want 4", changes)
	}
}

func TestArpeggiatorClearedWhenNotesReleased(t *testing.T) {
	var now int64
	cfg := DefaultConfig()
	cfg.Arp.Enabled = true
	e := New(nil, nil, WithConfig(cfg), WithClock(func() int64 { return now }))
	buf := make([]float32, BlockSize)
	e.HandleEvent(on(60))
	e.HandleEvent(on(62))
	for ; now <= 1000; now += 100 {
		e.ProcessBlock(buf)
	}
	e.HandleEvent(off(60))
	e.HandleEvent(off(62))
	e.ProcessBlock(buf)
	if e.ArpCounter() != 0 {
		t.Fatalf("arp counter not cleared: %d", e.ArpCounter())
	}
	e.HandleEvent(on(70))
	e.ProcessBlock(buf)
	if e.Voice().Note != 70 {
		t.Fatalf("arp did not restart at the first held note")
	}
}

func TestConfigFromMailbox(t *testing.T) {
	params := &mailbox.Mailbox[Config]{}
	e := New(params, nil)
	e.HandleEvent(on(69))
	buf := make([]float32, BlockSize)
	e.ProcessBlock(buf)
	if !hasSignal(buf) {
		t.Fatalf("default config produced silence for a held note")
	}

	muted := DefaultConfig()
	for i := range muted.Osc {
		muted.Osc[i].Enabled = false
	}
	params.Put(muted)
	e.ProcessBlock(buf)
	if hasSignal(buf) {
		t.Fatalf("all oscillators disabled but output not silent")
	}
	if e.Config().Osc[0].Enabled {
		t.Fatalf("config not taken from mailbox")
	}

	e.ProcessBlock(buf)
	if e.Config().Osc[0].Enabled {
		t.Fatalf("empty mailbox should keep the previous config")
	}
}

func TestOutputBoundedUnderExtremeSettings(t *testing.T) {
	cfg := DefaultConfig()
	for i := range cfg.Osc {
		cfg.Osc[i].Enabled = true
		cfg.Osc[i].GainMult = 1
		cfg.Osc[i].Wave = wave.Square
	}
	cfg.Envelope.AttackSecs = 0.001
	cfg.Boost.Boost = 20
	cfg.Boost.Gain = 1
	cfg.LowPass.Enabled = true
	cfg.LowPass.Resonance = 1
	cfg.LowPass.CutoffHz = 800
	cfg.LowPass.ContourHz = 4000
	e := New(nil, nil, WithConfig(cfg))
	e.SetMasterGain(4)
	e.HandleEvent(on(36))
	buf := make([]float32, BlockSize)
	for b := 0; b < 500; b++ {
		e.ProcessBlock(buf)
		for _, s := range buf {
			if s < -1 || s > 1 || s != s {
				t.Fatalf("block %d: sample %v out of range", b, s)
			}
		}
	}
}

func TestRenderingIsDeterministic(t *testing.T) {
	render := func() []float32 {
		cfg := DefaultConfig()
		cfg.Arp.Enabled = true
		cfg.Arp.Division = 4
		cfg.LowPass.Enabled = true
		e := New(nil, nil, WithConfig(cfg))
		e.HandleEvent(on(57))
		e.HandleEvent(on(60))
		e.HandleEvent(on(64))
		out := make([]float32, 0, BlockSize*200)
		buf := make([]float32, BlockSize)
		for i := 0; i < 200; i++ {
			e.ProcessBlock(buf)
			out = append(out, buf...)
		}
		return out
	}
	a, b := render(), render()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestResetSilences(t *testing.T) {
	e := New(nil, nil)
	buf := make([]float32, BlockSize)
	e.HandleEvent(on(60))
	e.ProcessBlock(buf)
	e.Reset()
	e.ProcessBlock(buf)
	if hasSignal(buf) || e.Voice().Enabled {
		t.Fatalf("reset engine still sounding")
	}
}

func hasSignal(buf []float32) bool {
	for _, s := range buf {
		if s != 0 {
			return true
		}
	}
	return false
}

func BenchmarkEngineBlock(b *testing.B) {
	cfg := DefaultConfig()
	for i := range cfg.Osc {
		cfg.Osc[i].Enabled = true
	}
	cfg.LowPass.Enabled = true
	e := New(nil, nil, WithConfig(cfg))
	e.HandleEvent(on(60))
	buf := make([]float32, BlockSize)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.ProcessBlock(buf)
	}
}
