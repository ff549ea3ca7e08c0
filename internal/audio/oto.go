package audio

import (
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer plays a stream without a window, for headless hosts.
type OtoPlayer struct {
	mu      sync.Mutex
	ctx     *oto.Context
	player  *oto.Player
	reader  *StreamReader
	started bool
}

var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func NewOtoPlayer(sampleRate int, reader *StreamReader) (*OtoPlayer, error) {
	otoOnce.Do(func() {
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatFloat32LE,
		})
		if otoErr == nil {
			<-ready
		}
	})
	if otoErr != nil {
		return nil, otoErr
	}
	return &OtoPlayer{ctx: otoCtx, player: otoCtx.NewPlayer(reader), reader: reader}, nil
}

func (p *OtoPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.player.Play()
	p.started = true
}

func (p *OtoPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.player.Pause()
}

func (p *OtoPlayer) IsPlaying() bool { return p.player.IsPlaying() }

func (p *OtoPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return nil
	}
	p.started = false
	p.player.Pause()
	return p.player.Close()
}
