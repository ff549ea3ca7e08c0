package synth

import (
	"github.com/jackss011/esp-synth/internal/arp"
	"github.com/jackss011/esp-synth/internal/effects"
	"github.com/jackss011/esp-synth/internal/envelope"
	"github.com/jackss011/esp-synth/internal/filter"
	"github.com/jackss011/esp-synth/internal/osc"
)

const (
	SampleRate = 44100
	BlockSize  = 128

	// OscCount is the number of oscillator slots summed into the voice.
	OscCount = 3
)

// Config is the complete synthesis configuration. It is a plain value and
// is always replaced whole.
type Config struct {
	Arp      arp.Config
	Osc      [OscCount]osc.Config
	Envelope envelope.Config
	Boost    effects.Boost
	LowPass  filter.Config
}

// DefaultConfig matches the panel's power-on state: only the first
// oscillator sounds and the filter is bypassed.
func DefaultConfig() Config {
	cfg := Config{
		Arp:      arp.DefaultConfig(),
		Envelope: envelope.DefaultConfig(),
		Boost:    effects.DefaultBoost(),
		LowPass:  filter.DefaultConfig(),
	}
	for i := range cfg.Osc {
		cfg.Osc[i] = osc.DefaultConfig()
	}
	cfg.Osc[0].Enabled = true
	return cfg
}
