package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackss011/esp-synth/internal/synth"
)

// Format renders cfg as a script that Load turns back into cfg.
func Format(cfg synth.Config) string {
	var sb strings.Builder
	sb.WriteString("-- esp-synth patch\n")
	for i, o := range cfg.Osc {
		fmt.Fprintf(&sb, "osc(%d, {enabled = %t, wave = %q, mult = %s, gain = %s})\n",
			i+1, o.Enabled, o.Wave.String(), num(o.FreqMult), num(o.GainMult))
	}
	e := cfg.Envelope
	fmt.Fprintf(&sb, "envelope{attack = %s, decay = %s, sustain = %s, release = %s}\n",
		num(e.AttackSecs), num(e.DecaySecs), num(e.SustainGain), num(e.ReleaseSecs))
	fmt.Fprintf(&sb, "boost{boost = %s, gain = %s}\n", num(cfg.Boost.Boost), num(cfg.Boost.Gain))
	lp := cfg.LowPass
	fmt.Fprintf(&sb, "filter{enabled = %t, cutoff = %s, resonance = %s, contour = %s,\n",
		lp.Enabled, num(lp.CutoffHz), num(lp.Resonance), num(lp.ContourHz))
	fmt.Fprintf(&sb, "  attack = %s, decay = %s, sustain = %s, release = %s}\n",
		num(lp.Envelope.AttackSecs), num(lp.Envelope.DecaySecs),
		num(lp.Envelope.SustainGain), num(lp.Envelope.ReleaseSecs))
	fmt.Fprintf(&sb, "arp{enabled = %t, bpm = %s, division = %d}\n",
		cfg.Arp.Enabled, num(cfg.Arp.TempoBPM), cfg.Arp.Division)
	return sb.String()
}

func num(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
