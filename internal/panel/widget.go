package panel

import "github.com/jackss011/esp-synth/internal/wave"

// Table is the list of positions a Selector steps through. Values are
// integers scaled by Norm.
type Table struct {
	Labels  []string
	Values  []int32
	Norm    int32
	Default int
}

var (
	GainTable = Table{
		Labels:  []string{"0.0", "0.1", "0.2", "0.3", "0.4", "0.5", "0.6", "0.7", "0.8", "0.9", "1.0"},
		Values:  []int32{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		Norm:    100,
		Default: 5,
	}
	ShapeTable = Table{
		Labels: []string{"tri", "t_s", "saw", "squ", "re1", "re2"},
		Values: []int32{
			int32(wave.Tri), int32(wave.TriSaw), int32(wave.Saw),
			int32(wave.Square), int32(wave.RectWide), int32(wave.RectNarrow),
		},
		Norm: 1,
	}
	// DetuneTable is in cents.
	DetuneTable = Table{
		Labels:  []string{"-20", "-16", "-12", "-10", "-7", "-5", "-3", "0"},
		Values:  []int32{-20, -16, -12, -10, -7, -5, -3, 0},
		Norm:    1,
		Default: 7,
	}
	// RangeTable is in organ feet.
	RangeTable = Table{
		Labels:  []string{"32'", "16'", "8'", "4'", "2'"},
		Values:  []int32{32, 16, 8, 4, 2},
		Norm:    8,
		Default: 2,
	}
	TimeTable = Table{
		Labels: []string{
			"0.1s", "0.2s", "0.3s", "0.4s", "0.5s", "0.6s", "0.7s", "0.8s", "0.9s", "1s",
			"2s", "3s", "4s", "5s", "8s", "10s", "15s", "30s", "60s",
		},
		Values: []int32{
			100, 200, 300, 400, 500, 600, 700, 800, 900, 1000,
			2000, 3000, 4000, 5000, 8000, 10000, 15000, 30000, 60000,
		},
		Norm:    1000,
		Default: 9,
	}
	BoostTable = Table{
		Labels: []string{"+0", "+1", "+2"},
		Values: []int32{10, 15, 20},
		Norm:   10,
	}
	ContourTable = Table{
		Labels: []string{"none", "+100", "+500", "+1k", "+2k", "+3k", "+4k"},
		Values: []int32{0, 100, 500, 1000, 2000, 3000, 4000},
		Norm:   1,
	}
	// CutoffTable ends with "off", which bypasses the filter.
	CutoffTable = Table{
		Labels: []string{
			"1kHz", "2kHz", "3kHz", "4kHz", "5kHz", "6kHz", "7kHz",
			"8kHz", "9kHz", "10kHz", "12kHz", "15kHz", "18kHz", "off",
		},
		Values: []int32{
			1000, 2000, 3000, 4000, 5000, 6000, 7000,
			8000, 9000, 10000, 12000, 15000, 18000, cutoffOff,
		},
		Norm:    1,
		Default: 13,
	}
	TempoTable = Table{
		Labels:  []string{"60", "80", "90", "100", "110", "120", "130", "140", "160", "180", "200", "240"},
		Values:  []int32{60, 80, 90, 100, 110, 120, 130, 140, 160, 180, 200, 240},
		Norm:    1,
		Default: 5,
	}
	DivisionTable = Table{
		Labels: []string{"1/4", "1/8", "1/8t", "1/16"},
		Values: []int32{1, 2, 3, 4},
		Norm:   1,
	}
)

const cutoffOff = -1

// Widget is one cell of a tab.
type Widget interface {
	Key() string
	Label() string
	// Position is the thumb position in [0,1].
	Position() float32
	// Nudge moves the widget and reports whether its value changed.
	Nudge(dir int16) bool
}

// Selector steps through a Table, clamping at both ends.
type Selector struct {
	key   string
	table *Table
	index int
}

func NewSelector(key string, t *Table) *Selector {
	return &Selector{key: key, table: t, index: t.Default}
}

func (s *Selector) Key() string   { return s.key }
func (s *Selector) Label() string { return s.table.Labels[s.index] }
func (s *Selector) Index() int    { return s.index }
func (s *Selector) Value() int32  { return s.table.Values[s.index] }

// Float returns the value divided by the table's normalisation factor.
func (s *Selector) Float() float32 {
	return float32(s.Value()) / float32(s.table.Norm)
}

func (s *Selector) Position() float32 {
	if len(s.table.Values) < 2 {
		return 0
	}
	return float32(s.index) / float32(len(s.table.Values)-1)
}

func (s *Selector) Nudge(dir int16) bool {
	return s.SetIndex(s.index + int(dir))
}

// SetIndex moves to index, clamped to the table.
func (s *Selector) SetIndex(index int) bool {
	if index < 0 {
		index = 0
	}
	if last := len(s.table.Values) - 1; index > last {
		index = last
	}
	if index == s.index {
		return false
	}
	s.index = index
	return true
}

// Switch is on after a positive nudge and off after a negative one.
type Switch struct {
	key string
	on  bool
}

func NewSwitch(key string) *Switch { return &Switch{key: key} }

func (s *Switch) Key() string { return s.key }
func (s *Switch) Value() bool { return s.on }

func (s *Switch) Label() string {
	if s.on {
		return "ON"
	}
	return "OFF"
}

func (s *Switch) Position() float32 {
	if s.on {
		return 1
	}
	return 0
}

func (s *Switch) Nudge(dir int16) bool {
	if dir == 0 || (dir > 0) == s.on {
		return false
	}
	s.on = dir > 0
	return true
}
