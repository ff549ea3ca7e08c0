package effects

// Boost drives the voice into the hard saturator and scales the result.
type Boost struct {
	Boost float32 // pre-gain
	Gain  float32 // post-gain
}

func DefaultBoost() Boost {
	return Boost{Boost: 1, Gain: 1}
}

// Process applies pre-gain, hard saturation, then post-gain.
func (b Boost) Process(x float32) float32 {
	return SaturateHard(x*b.Boost) * b.Gain
}
