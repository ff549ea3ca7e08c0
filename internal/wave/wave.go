package wave

import (
	"strings"

	"maze.io/x/math32"
)

// Kind selects one of the fixed single-cycle shapes.
type Kind uint8

const (
	Silence Kind = iota
	Sin
	Tri
	TriSaw
	Saw
	SawRev
	Square
	RectWide
	RectNarrow
)

// Count is the number of defined shapes.
const Count = int(RectNarrow) + 1

// TableSize is the resolution of each lookup table.
const TableSize = 1024

var (
	sinTable        [TableSize]float32
	triTable        [TableSize]float32
	triSawTable     [TableSize]float32
	sawTable        [TableSize]float32
	sawRevTable     [TableSize]float32
	squareTable     [TableSize]float32
	rectWideTable   [TableSize]float32
	rectNarrowTable [TableSize]float32
)

var names = [Count]string{
	Silence:    "silence",
	Sin:        "sin",
	Tri:        "tri",
	TriSaw:     "tri_saw",
	Saw:        "saw",
	SawRev:     "saw_rev",
	Square:     "square",
	RectWide:   "rect_wide",
	RectNarrow: "rect_narrow",
}

func init() {
	for i := 0; i < TableSize; i++ {
		t := float32(i) / TableSize
		sinTable[i] = math32.Sin(2 * math32.Pi * t)
		sawTable[i] = 2*t - 1
		sawRevTable[i] = 1 - 2*t
		triTable[i] = 4*math32.Abs(t-0.5) - 1
		if t < 0.5 {
			triSawTable[i] = 4*t - 1
		} else {
			triSawTable[i] = -2 * (t - 0.5)
		}
		squareTable[i] = pulse(t, 0.5)
		rectWideTable[i] = pulse(t, 0.25)
		rectNarrowTable[i] = pulse(t, 0.1)
	}
}

func pulse(t, duty float32) float32 {
	if t < duty {
		return 1
	}
	return -1
}

// Sample returns the amplitude of the shape at phase, which must lie in [0,1).
// Unknown kinds are silent.
func (k Kind) Sample(phase float32) float32 {
	i := int(phase*TableSize) % TableSize
	if i < 0 {
		i += TableSize
	}
	switch k {
	case Sin:
		return sinTable[i]
	case Tri:
		return triTable[i]
	case TriSaw:
		return triSawTable[i]
	case Saw:
		return sawTable[i]
	case SawRev:
		return sawRevTable[i]
	case Square:
		return squareTable[i]
	case RectWide:
		return rectWideTable[i]
	case RectNarrow:
		return rectNarrowTable[i]
	default:
		return 0
	}
}

func (k Kind) Valid() bool { return int(k) < Count }

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return names[k]
}

// ParseKind resolves a shape by its String name (case-insensitive).
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return Kind(i), true
		}
	}
	return Silence, false
}
