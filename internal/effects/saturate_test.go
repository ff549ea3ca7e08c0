package effects

import (
	"math"
	"testing"
)

func TestSaturateSoftBounded(t *testing.T) {
	for _, x := range []float32{-1000, -3, -1, 0, 0.5, 1, 3, 1000} {
		y := SaturateSoft(x)
		if y <= -1 || y >= 1 {
			t.Errorf("SaturateSoft(%v) = %v escapes (-1,1)", x, y)
		}
		if (x > 0 && y <= 0) || (x < 0 && y >= 0) {
			t.Errorf("SaturateSoft(%v) = %v changed sign", x, y)
		}
	}
	if SaturateSoft(1) != 0.5 {
		t.Fatalf("SaturateSoft(1) = %v, want 0.5", SaturateSoft(1))
	}
}

func TestSaturateHardApproximatesTanh(t *testing.T) {
	for x := float32(-3); x <= 3; x += 0.25 {
		got := float64(SaturateHard(x))
		want := math.Tanh(float64(x))
		if math.Abs(got-want) > 0.03 {
			t.Errorf("SaturateHard(%v) = %v, tanh = %v", x, got, want)
		}
	}
	if SaturateHard(3) != 1 {
		t.Fatalf("SaturateHard(3) = %v, want 1", SaturateHard(3))
	}
}

func TestSaturateHardBounded(t *testing.T) {
	for _, x := range []float32{-1e6, -50, -3.5, 3.5, 50, 1e6} {
		y := SaturateHard(x)
		if y < -1 || y > 1 {
			t.Fatalf("SaturateHard(%v) = %v escapes [-1,1]", x, y)
		}
	}
	if SaturateHard(100) != 1 || SaturateHard(-100) != -1 {
		t.Fatalf("SaturateHard should rail at ±1")
	}
}

func TestSaturateHardOdd(t *testing.T) {
	for _, x := range []float32{0.1, 0.7, 1.3, 2.9} {
		if SaturateHard(-x) != -SaturateHard(x) {
			t.Fatalf("SaturateHard not odd at %v", x)
		}
	}
}

func TestBoostProcess(t *testing.T) {
	unity := DefaultBoost()
	if got := unity.Process(0); got != 0 {
		t.Fatalf("boost of silence = %v", got)
	}
	b := Boost{Boost: 2, Gain: 0.5}
	want := SaturateHard(1.2) * 0.5
	if got := b.Process(0.6); got != want {
		t.Fatalf("boost(0.6) = %v, want %v", got, want)
	}
	muted := Boost{Boost: 2, Gain: 0}
	if got := muted.Process(0.9); got != 0 {
		t.Fatalf("zero post gain = %v", got)
	}
}

func TestSaturateBlock(t *testing.T) {
	buf := []float32{-3, 0, 3}
	SaturateBlock(buf)
	if buf[0] != -1 || buf[1] != 0 || buf[2] != 1 {
		t.Fatalf("saturated block = %v", buf)
	}
}
