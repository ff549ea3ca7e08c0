// Package ingest turns a framed byte stream into note events for the engine.
package ingest

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jackss011/esp-synth/internal/mailbox"
	"github.com/jackss011/esp-synth/internal/midi"
	"github.com/jackss011/esp-synth/internal/packet"
)

// DefaultSendWait bounds how long a full event queue may hold up the reader.
const DefaultSendWait = 200 * time.Millisecond

type Option func(*Reader)

func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithSendWait(d time.Duration) Option {
	return func(r *Reader) {
		r.wait = d
	}
}

// Reader decodes frames from src and forwards MIDI payloads to events.
type Reader struct {
	src    io.Reader
	events *mailbox.Queue[midi.Event]
	logger *slog.Logger
	wait   time.Duration
	dec    packet.Decoder
}

func NewReader(src io.Reader, events *mailbox.Queue[midi.Event], opts ...Option) *Reader {
	r := &Reader{
		src:    src,
		events: events,
		logger: slog.Default(),
		wait:   DefaultSendWait,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads until src is exhausted or ctx is cancelled. EOF is a clean
// stop. If src is an io.Closer it is closed on cancellation to unblock the
// pending read.
func (r *Reader) Run(ctx context.Context) error {
	if c, ok := r.src.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { c.Close() })
		defer stop()
	}
	r.logger.Debug("ingest started")
	defer r.logger.Debug("ingest stopped", "decoded", r.dec.Stats().Decoded, "failed", r.dec.Stats().Failed)

	br := bufio.NewReader(r.src)
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
		r.feed(ctx, b)
	}
}

func (r *Reader) feed(ctx context.Context, b byte) {
	p, ok, err := r.dec.Feed(b)
	if err != nil {
		r.logger.Warn("dropped frame", "err", err)
		return
	}
	if !ok {
		return
	}
	switch p.Type {
	case packet.TypeMidi:
		ev, err := midi.ParseEvent(p.Payload)
		if err != nil {
			r.logger.Warn("bad midi payload", "err", err)
			return
		}
		if !r.events.Send(ctx, ev, r.wait) {
			r.logger.Warn("event queue full, dropped", "event", ev.String())
		}
	case packet.TypeLog:
		r.logger.Info("remote log", "text", strings.TrimRight(string(p.Payload), "\r\n\x00"))
	default:
		r.logger.Debug("ignored packet", "type", p.Type.String(), "len", len(p.Payload))
	}
}

// Stats reports the decoder counters.
func (r *Reader) Stats() packet.Stats { return r.dec.Stats() }
