package espsynth

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackss011/esp-synth/internal/midi"
	"github.com/jackss011/esp-synth/internal/packet"
)

func newTestPlayer(t *testing.T, opts ...PlayerOption) *Player {
	t.Helper()
	opts = append([]PlayerOption{
		WithBackend(BackendNone),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	pl, err := NewPlayer(SampleRate, opts...)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	return pl
}

func peak(buf []float32) float32 {
	var m float32
	for _, s := range buf {
		if s < 0 {
			s = -s
		}
		if s > m {
			m = s
		}
	}
	return m
}

func TestNewPlayerRejectsOtherRates(t *testing.T) {
	if _, err := NewPlayer(48000); !errors.Is(err, ErrSampleRate) {
		t.Fatalf("err = %v, want ErrSampleRate", err)
	}
}

func TestPlayerMasterVolumeRuntimeAPI(t *testing.T) {
	pl := newTestPlayer(t)
	if got := pl.MasterVolume(); got != 1 {
		t.Fatalf("default master volume = %v, want 1", got)
	}
	pl.SetMasterVolume(0.35)
	if got := pl.MasterVolume(); got != 0.35 {
		t.Fatalf("master volume = %v, want 0.35", got)
	}
	pl.SetMasterVolume(-2)
	if got := pl.MasterVolume(); got != 0 {
		t.Fatalf("master volume should clamp to 0, got %v", got)
	}
}

func TestPlayerNotesAndConfig(t *testing.T) {
	var tapped int
	pl := newTestPlayer(t, WithSampleTap(func(b []float32) { tapped += len(b) }))
	buf := make([]float32, BlockSize)

	pl.Process(buf)
	if peak(buf) != 0 {
		t.Fatalf("idle player is not silent")
	}
	if !pl.NoteOn(57, 100) {
		t.Fatalf("NoteOn dropped")
	}
	for i := 0; i < 50; i++ {
		pl.Process(buf)
	}
	if peak(buf) == 0 {
		t.Fatalf("held note produced silence")
	}

	cfg := pl.Config()
	for i := range cfg.Osc {
		cfg.Osc[i].Enabled = false
	}
	pl.UpdateConfig(cfg)
	if pl.Config().Osc[0].Enabled {
		t.Fatalf("Config did not return the posted value")
	}
	pl.Process(buf)
	if peak(buf) != 0 {
		t.Fatalf("muted config still sounding")
	}
	if tapped != 0 {
		t.Fatalf("tap should only see blocks pulled by the audio backend")
	}
}

func TestPlayerDropsOnFullQueue(t *testing.T) {
	pl := newTestPlayer(t, WithQueueCapacity(2))
	for n := Note(60); n < 65; n++ {
		pl.NoteOn(n, 90)
	}
	if got := pl.Dropped(); got != 3 {
		t.Fatalf("dropped = %d, want 3", got)
	}
}

func TestPlayerRunSources(t *testing.T) {
	pl := newTestPlayer(t)
	on := midi.NoteOnEvent(0, 64, 80).Bytes()
	frame, err := packet.Encode(0, packet.TypeMidi, on[:])
	if err != nil {
		t.Fatal(err)
	}
	var ran bool
	err = pl.Run(context.Background(),
		pl.FrameSource(bytes.NewReader(frame)),
		SourceFunc(func(ctx context.Context) error {
			ran = true
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !ran {
		t.Fatalf("source func not run")
	}
	buf := make([]float32, BlockSize)
	pl.Process(buf)
	if pl.engine.Voice().Note != 64 || !pl.engine.Voice().Enabled {
		t.Fatalf("framed note not delivered: %+v", pl.engine.Voice())
	}
}

func TestPlayerRunPropagatesErrors(t *testing.T) {
	pl := newTestPlayer(t)
	boom := errors.New("boom")
	blocked := SourceFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	failing := SourceFunc(func(context.Context) error { return boom })
	if err := pl.Run(context.Background(), blocked, failing); !errors.Is(err, boom) {
		t.Fatalf("Run = %v, want boom", err)
	}
}

func TestPlayerEQBand(t *testing.T) {
	pl := newTestPlayer(t)
	pl.SetEQBand(4, 0.25)
	if got := pl.EQBand(4); got != 0.25 {
		t.Fatalf("band 4 = %v", got)
	}
	pl.NoteOn(69, 100)
	buf := make([]float32, BlockSize)
	for i := 0; i < 100; i++ {
		pl.Process(buf)
		if p := peak(buf); p > 1 {
			t.Fatalf("EQ output escaped [-1,1]: %v", p)
		}
	}
}

func TestPlayerProcessIgnoresControlLock(t *testing.T) {
	pl := newTestPlayer(t)
	pl.NoteOn(69, 100)
	buf := make([]float32, BlockSize)

	pl.mu.Lock()
	defer pl.mu.Unlock()
	done := make(chan struct{})
	go func() {
		pl.Process(buf)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Process waited on the control lock")
	}
	if peak(buf) == 0 {
		t.Fatal("Process rendered silence for a held note")
	}
}
