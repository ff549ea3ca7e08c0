package panel

import "github.com/jackss011/esp-synth/internal/synth"

// Panel routes input events to the active tab and keeps the derived synth
// configuration. It is not safe for concurrent use; it belongs to the
// control goroutine.
type Panel struct {
	tabs    []*Tab
	current int
	shift   bool
	cfg     synth.Config
}

// New returns a panel in its power-on state: the first oscillator tab is
// shown and only that oscillator is enabled.
func New() *Panel {
	p := &Panel{
		tabs: []*Tab{
			newArpTab(),
			newOscTab("o1", 0, true),
			newOscTab("o2", 1, false),
			newOscTab("o3", 2, false),
			newEnvTab(),
			newFilterTab(),
		},
		current: 1,
		cfg:     synth.DefaultConfig(),
	}
	for _, t := range p.tabs {
		t.apply(&p.cfg)
	}
	return p
}

// Process handles one input event and reports whether the configuration
// changed.
func (p *Panel) Process(ev InputEvent) bool {
	switch ev.ID {
	case BtnLeft:
		if ev.Value == Press {
			p.current = (p.current + 1) % len(p.tabs)
		}
		return false
	case BtnRight:
		if ev.Value == Press {
			p.current = (p.current + len(p.tabs) - 1) % len(p.tabs)
		}
		return false
	case BtnShift:
		switch ev.Value {
		case Press:
			p.shift = true
		case Release:
			p.shift = false
		}
		return false
	}

	tab := p.tabs[p.current]
	w := tab.Cell(ev)
	if w == nil || !w.Nudge(ev.Value) {
		return false
	}
	prev := p.cfg
	tab.apply(&p.cfg)
	return p.cfg != prev
}

func (p *Panel) Config() synth.Config { return p.cfg }

func (p *Panel) Tabs() []*Tab { return p.tabs }

func (p *Panel) Current() *Tab { return p.tabs[p.current] }

func (p *Panel) CurrentIndex() int { return p.current }

// Shifted reports whether the shift button is held.
func (p *Panel) Shifted() bool { return p.shift }

// Select shows the tab with the given name.
func (p *Panel) Select(name string) bool {
	for i, t := range p.tabs {
		if t.Name == name {
			p.current = i
			return true
		}
	}
	return false
}
