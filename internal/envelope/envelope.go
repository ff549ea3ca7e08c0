package envelope

// Stage is the current section of the envelope.
type Stage uint8

const (
	Off Stage = iota
	Attack
	Decay
	Sustain
	Release
)

func (s Stage) String() string {
	switch s {
	case Off:
		return "off"
	case Attack:
		return "attack"
	case Decay:
		return "decay"
	case Sustain:
		return "sustain"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// MinSeconds is the shortest accepted stage duration.
const MinSeconds = 0.001

// Config holds stage durations in seconds and the sustain level in [0,1].
type Config struct {
	AttackSecs  float32
	DecaySecs   float32
	SustainGain float32
	ReleaseSecs float32
}

func DefaultConfig() Config {
	return Config{AttackSecs: 1, DecaySecs: 1, SustainGain: 0.5, ReleaseSecs: 2}
}

// State is a linear ADSR stepped once per sample.
type State struct {
	Stage Stage
	Value float32

	attackRate  float32
	decayRate   float32
	sustain     float32
	releaseRate float32
}

// SetRates derives per-sample increments from cfg.
func (s *State) SetRates(cfg Config, sampleRate float32) {
	s.attackRate = rate(cfg.AttackSecs, sampleRate)
	s.decayRate = rate(cfg.DecaySecs, sampleRate)
	s.releaseRate = rate(cfg.ReleaseSecs, sampleRate)
	s.sustain = cfg.SustainGain
	if s.sustain < 0 {
		s.sustain = 0
	}
	if s.sustain > 1 {
		s.sustain = 1
	}
}

func rate(secs, sampleRate float32) float32 {
	if !(secs >= MinSeconds) {
		secs = MinSeconds
	}
	return 1 / (secs * sampleRate)
}

// TriggerOn restarts the attack from the current value.
func (s *State) TriggerOn() { s.Stage = Attack }

// TriggerOff enters release from the current value.
func (s *State) TriggerOff() { s.Stage = Release }

func (s *State) Reset() {
	s.Stage = Off
	s.Value = 0
}

// Step advances one sample and returns the new value.
func (s *State) Step() float32 {
	switch s.Stage {
	case Off:
		s.Value = 0
	case Attack:
		s.Value += s.attackRate
		if s.Value >= 1 {
			s.Value = 1
			s.Stage = Decay
		}
	case Decay:
		s.Value -= s.decayRate
		if s.Value <= s.sustain {
			s.Value = s.sustain
			s.Stage = Sustain
		}
	case Sustain:
		s.Value = s.sustain
	case Release:
		s.Value -= s.releaseRate
		if s.Value <= 0 {
			s.Value = 0
			s.Stage = Off
		}
	}
	return s.Value
}
