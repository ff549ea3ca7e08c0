// Command esp_synth runs the synth headless. Notes come from a framed serial
// stream, a MIDI input, the terminal keyboard, or the score of a Lua patch.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackss011/esp-synth"
	"github.com/jackss011/esp-synth/internal/midiport"
	"github.com/jackss011/esp-synth/internal/panel"
)

func main() {
	var (
		inPath    = flag.String("in", "", "framed note stream: serial device, file, or - for stdin")
		remote    = flag.String("remote", "", "remote panel commands: device, fifo, or file; edits start from the power-on panel")
		midiName  = flag.String("midi", "", "MIDI input name (substring); \"list\" prints inputs")
		keys      = flag.Bool("keys", false, "play notes from the terminal keyboard")
		patchPath = flag.String("patch", "", "Lua patch file")
		backend   = flag.String("backend", "oto", "audio backend: oto|ebiten")
		volume    = flag.Float64("volume", 1.0, "master volume scalar")
		debug     = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	logger := newLogger(*debug)
	slog.SetDefault(logger)

	if *midiName == "list" {
		names, err := midiport.List()
		if err != nil {
			log.Fatal(err)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	cfg := espsynth.DefaultConfig()
	var p *espsynth.Patch
	if *patchPath != "" {
		var err error
		p, err = espsynth.LoadPatchFile(*patchPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = p.Config
		logger.Info("patch loaded", "path", *patchPath, "steps", len(p.Score))
	}

	pl, err := espsynth.NewPlayer(espsynth.SampleRate,
		espsynth.WithBackend(espsynth.Backend(*backend)),
		espsynth.WithLogger(logger),
		espsynth.WithConfig(cfg),
	)
	if err != nil {
		log.Fatal(err)
	}
	pl.SetMasterVolume(*volume)
	if err := pl.Play(); err != nil {
		log.Fatal(err)
	}
	defer pl.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sources []espsynth.Source
	if *inPath != "" {
		r, err := openInput(*inPath)
		if err != nil {
			log.Fatal(err)
		}
		sources = append(sources, pl.FrameSource(r))
	}
	if *remote != "" {
		r, err := openInput(*remote)
		if err != nil {
			log.Fatal(err)
		}
		sources = append(sources, panel.NewRemote(r, panel.New(), pl.UpdateConfig, logger))
	}
	if *midiName != "" {
		sources = append(sources, midiport.New(*midiName, pl.Send, logger))
	}
	if *keys {
		sources = append(sources, newKeyboard(pl, os.Stdin))
	}
	if p != nil && len(p.Score) > 0 {
		sources = append(sources, scoreSource(pl, p, len(sources) == 0))
	}
	if len(sources) == 0 {
		sources = append(sources, espsynth.SourceFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}))
	}

	err = pl.Run(ctx, sources...)
	if err != nil && !errors.Is(err, errQuit) && !errors.Is(err, errScoreDone) {
		log.Fatal(err)
	}
	if d := pl.Dropped(); d > 0 {
		logger.Warn("note events dropped", "count", d)
	}
}

func newLogger(debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func openInput(path string) (io.Reader, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

var errScoreDone = errors.New("score finished")

// scoreSource plays the patch's score in real time. When it is the only
// source it ends the run once the release has rung out.
func scoreSource(pl *espsynth.Player, p *espsynth.Patch, last bool) espsynth.Source {
	return espsynth.SourceFunc(func(ctx context.Context) error {
		start := time.Now()
		for _, step := range p.Score {
			if d := time.Until(start.Add(step.At)); d > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(d):
				}
			}
			pl.Send(step.Event)
		}
		if !last {
			return nil
		}
		tail := time.Until(start.Add(p.Length)) +
			time.Duration(float64(p.Config.Envelope.ReleaseSecs)*float64(time.Second)) +
			time.Duration(espsynth.TailSeconds*float64(time.Second))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(tail):
		}
		return errScoreDone
	})
}
