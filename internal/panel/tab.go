package panel

import (
	"github.com/jackss011/esp-synth/internal/osc"
	"github.com/jackss011/esp-synth/internal/synth"
	"github.com/jackss011/esp-synth/internal/wave"
)

// Tab is a 2x3 grid of widgets. Row 0 is reached without shift, row 1 with
// shift held. Empty cells are nil.
type Tab struct {
	Name  string
	Grid  [2][3]Widget
	apply func(cfg *synth.Config)
}

// Cell returns the widget an encoder event addresses, or nil.
func (t *Tab) Cell(ev InputEvent) Widget {
	if !ev.ID.IsEncoder() {
		return nil
	}
	row := 0
	if ev.Shifted {
		row = 1
	}
	return t.Grid[row][ev.ID-Encoder0]
}

func newArpTab() *Tab {
	en := NewSwitch("en")
	bpm := NewSelector("bpm", &TempoTable)
	div := NewSelector("div", &DivisionTable)
	return &Tab{
		Name: "arp",
		Grid: [2][3]Widget{{en, bpm, div}},
		apply: func(cfg *synth.Config) {
			cfg.Arp.Enabled = en.Value()
			cfg.Arp.TempoBPM = bpm.Float()
			cfg.Arp.Division = uint8(div.Value())
		},
	}
}

func newOscTab(name string, slot int, enabled bool) *Tab {
	rng := NewSelector("range", &RangeTable)
	detune := NewSelector("detune", &DetuneTable)
	shape := NewSelector("shape", &ShapeTable)
	gain := NewSelector("gain", &GainTable)
	en := NewSwitch("en")
	if enabled {
		en.Nudge(1)
	}
	return &Tab{
		Name: name,
		Grid: [2][3]Widget{{rng, detune, shape}, {nil, gain, en}},
		apply: func(cfg *synth.Config) {
			o := &cfg.Osc[slot]
			o.SetFreqMult(osc.RangeMult(int(rng.Value())), detune.Value())
			o.Wave = wave.Kind(shape.Value())
			o.GainMult = gain.Float()
			o.Enabled = en.Value()
		},
	}
}

func newEnvTab() *Tab {
	att := NewSelector("att", &TimeTable)
	dec := NewSelector("dec", &TimeTable)
	sus := NewSelector("sus", &GainTable)
	boost := NewSelector("boost", &BoostTable)
	gain := NewSelector("gain", &GainTable)
	gain.SetIndex(len(GainTable.Values) - 1)
	return &Tab{
		Name: "env",
		Grid: [2][3]Widget{{att, dec, sus}, {nil, boost, gain}},
		apply: func(cfg *synth.Config) {
			cfg.Envelope.AttackSecs = att.Float()
			cfg.Envelope.DecaySecs = dec.Float()
			cfg.Envelope.SustainGain = sus.Float()
			cfg.Envelope.ReleaseSecs = dec.Float() * 2
			cfg.Boost.Boost = boost.Float()
			cfg.Boost.Gain = gain.Float()
		},
	}
}

func newFilterTab() *Tab {
	cut := NewSelector("cut", &CutoffTable)
	res := NewSelector("res", &GainTable)
	res.SetIndex(3)
	cont := NewSelector("cont", &ContourTable)
	att := NewSelector("att", &TimeTable)
	dec := NewSelector("dec", &TimeTable)
	sus := NewSelector("sus", &GainTable)
	return &Tab{
		Name: "flt",
		Grid: [2][3]Widget{{cut, res, cont}, {att, dec, sus}},
		apply: func(cfg *synth.Config) {
			lp := &cfg.LowPass
			if v := cut.Value(); v == cutoffOff {
				lp.Enabled = false
				lp.CutoffHz = float32(CutoffTable.Values[len(CutoffTable.Values)-2])
			} else {
				lp.Enabled = true
				lp.CutoffHz = float32(v)
			}
			lp.Resonance = res.Float()
			lp.ContourHz = cont.Float()
			lp.Envelope.AttackSecs = att.Float()
			lp.Envelope.DecaySecs = dec.Float()
			lp.Envelope.SustainGain = sus.Float()
			lp.Envelope.ReleaseSecs = dec.Float() / 2
		},
	}
}
