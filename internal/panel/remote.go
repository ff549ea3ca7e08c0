package panel

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/jackss011/esp-synth/internal/synth"
)

// Remote drives a panel from a stream of 4-byte remote input commands, the
// same commands the wireless remote writes.
type Remote struct {
	src    io.Reader
	panel  *Panel
	apply  func(synth.Config)
	logger *slog.Logger
}

// NewRemote returns a Remote feeding p. apply receives the configuration
// each time a command changes it. The panel must not be used elsewhere
// while Run is active.
func NewRemote(src io.Reader, p *Panel, apply func(synth.Config), logger *slog.Logger) *Remote {
	if logger == nil {
		logger = slog.Default()
	}
	return &Remote{src: src, panel: p, apply: apply, logger: logger}
}

// Run reads commands until EOF (returning nil) or until ctx is done. Bytes
// before a command tag are skipped so a stream joined mid-command resyncs.
func (r *Remote) Run(ctx context.Context) error {
	if c, ok := r.src.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { c.Close() })
		defer stop()
	}
	br := bufio.NewReader(r.src)
	var cmd [4]byte
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := br.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if n == 0 && b != remoteInput {
			r.logger.Debug("skipped remote byte", "byte", b)
			continue
		}
		cmd[n] = b
		if n++; n < len(cmd) {
			continue
		}
		n = 0
		ev, err := ParseRemoteInput(cmd[:])
		if err != nil {
			r.logger.Warn("bad remote command", "err", err)
			continue
		}
		if ev.ID == InputNone {
			r.logger.Warn("unknown remote input", "id", cmd[1])
			continue
		}
		r.logger.Debug("remote input", "id", ev.ID.String(), "value", ev.Value, "shift", ev.Shifted)
		if r.panel.Process(ev) {
			r.apply(r.panel.Config())
		}
	}
}
