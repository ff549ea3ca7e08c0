// Package midiport feeds note messages from a hardware MIDI input into the
// synth.
package midiport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/jackss011/esp-synth/internal/midi"
)

// Source listens on one input port until its context ends.
type Source struct {
	name   string
	send   func(midi.Event) bool
	logger *slog.Logger
}

// New returns a source for the first input whose name contains name
// (case-insensitive); an empty name picks the first input. send is called
// from the driver's goroutine.
func New(name string, send func(midi.Event) bool, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{name: name, send: send, logger: logger}
}

// List returns the names of the available inputs.
func List() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, err
	}
	defer drv.Close()
	ins, err := drv.Ins()
	if err != nil {
		return nil, err
	}
	return names(ins), nil
}

func (s *Source) Run(ctx context.Context) error {
	drv, err := rtmididrv.New()
	if err != nil {
		return fmt.Errorf("midi driver: %w", err)
	}
	defer drv.Close()

	ins, err := drv.Ins()
	if err != nil {
		return fmt.Errorf("list midi inputs: %w", err)
	}
	i, ok := match(names(ins), s.name)
	if !ok {
		return fmt.Errorf("midi input %q not found", s.name)
	}
	in := ins[i]
	if err := in.Open(); err != nil {
		return fmt.Errorf("open midi input %s: %w", in, err)
	}
	defer in.Close()

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		if ev, ok := midi.FromMessage(msg); ok {
			s.send(ev)
		}
	}, gomidi.HandleError(func(err error) {
		s.logger.Warn("midi listener error", "device", in.String(), "err", err)
	}))
	if err != nil {
		return fmt.Errorf("listen on %s: %w", in, err)
	}
	defer stop()
	s.logger.Info("midi input connected", "device", in.String())

	<-ctx.Done()
	s.logger.Info("midi input closed", "device", in.String())
	return ctx.Err()
}

func names(ins []drivers.In) []string {
	out := make([]string, len(ins))
	for i, in := range ins {
		out[i] = in.String()
	}
	return out
}

func match(names []string, want string) (int, bool) {
	if len(names) == 0 {
		return 0, false
	}
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return 0, true
	}
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), want) {
			return i, true
		}
	}
	return 0, false
}
