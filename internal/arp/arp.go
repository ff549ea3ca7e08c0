package arp

// Config controls the arpeggiator tempo.
type Config struct {
	Enabled  bool
	TempoBPM float32
	Division uint8 // subdivisions per beat
}

func DefaultConfig() Config {
	return Config{TempoBPM: 120, Division: 1}
}

// PeriodMillis returns the step period, 60000 / (bpm * division). Degenerate
// tempos are clamped so the period is always at least one millisecond.
func (c Config) PeriodMillis() int64 {
	bpm := c.TempoBPM
	if bpm < 1 {
		bpm = 1
	}
	div := float32(c.Division)
	if div < 1 {
		div = 1
	}
	p := int64(60000 / (bpm * div))
	if p < 1 {
		p = 1
	}
	return p
}

// State is the timing state machine. The zero value is inactive.
type State struct {
	active  bool
	last    int64
	counter uint32
}

func (s *State) Counter() uint32 { return s.counter }

// Clear returns the state to inactive.
func (s *State) Clear() { *s = State{} }

// Step advances the counter when a full period has elapsed since the last
// advance and reports whether it did. The first call after Clear activates
// the state at index 0 and reports true. Advances are anchored to the period
// grid; after a stall longer than two periods the grid is re-anchored at now
// instead of bursting through the missed steps.
func (s *State) Step(nowMillis int64, cfg Config) bool {
	if !s.active {
		s.active = true
		s.last = nowMillis
		s.counter = 0
		return true
	}
	period := cfg.PeriodMillis()
	if nowMillis-s.last < period {
		return false
	}
	s.counter++
	s.last += period
	if nowMillis-s.last >= period {
		s.last = nowMillis
	}
	return true
}

// Index maps the counter onto a list of n entries.
func (s *State) Index(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.counter % uint32(n))
}
