package effects

import "maze.io/x/math32"

// SaturateSoft is x/(1+|x|), bounded by ±1.
func SaturateSoft(x float32) float32 {
	return x / (1 + math32.Abs(x))
}

// SaturateHard is the rational tanh approximation x(27+x²)/(27+9x²). The
// input is clamped to ±3, where the curve reaches ±1 with zero slope, so the
// output never leaves [-1,1].
func SaturateHard(x float32) float32 {
	if x > 3 {
		x = 3
	} else if x < -3 {
		x = -3
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// SaturateBlock applies SaturateHard in place.
func SaturateBlock(samples []float32) {
	for i, s := range samples {
		samples[i] = SaturateHard(s)
	}
}
