package anim

import (
	"math"
	"testing"
)

func TestEasingKnownNames(t *testing.T) {
	names := []string{
		"linear",
		"ease-in",
		"ease-out",
		"ease-in-out",
		"bounce",
		"back",
		"back(2.5)",
		"elastic",
		"elastic(1, 0.3)",
		"cubic-bezier(0.25, 0.1, 0.25, 1)",
	}

	for _, name := range names {
		fn, ok := Easing(name)
		if !ok {
			t.Errorf("Easing(%q) reported unknown", name)
			continue
		}
		// The stock elastic curve carries a 2^-10 residual at its endpoints.
		if got := fn(0); math.Abs(got) > 2e-3 {
			t.Errorf("Easing(%q)(0) = %f, want 0", name, got)
		}
		if got := fn(1); math.Abs(got-1) > 2e-3 {
			t.Errorf("Easing(%q)(1) = %f, want 1", name, got)
		}
	}
}

func TestEasingUnknownFallsBackToLinear(t *testing.T) {
	for _, name := range []string{"wobble", "cubic-bezier(1,2)", "back(abc)"} {
		fn, ok := Easing(name)
		if ok {
			t.Errorf("Easing(%q) reported known", name)
		}
		if got := fn(0.37); got != 0.37 {
			t.Errorf("Easing(%q) fallback is not linear: f(0.37) = %f", name, got)
		}
	}
}

func TestEasingCaseAndWhitespace(t *testing.T) {
	fn, ok := Easing("  Ease-In-Out ")
	if !ok {
		t.Fatal("trimmed name not recognized")
	}
	if got := fn(0.5); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("ease-in-out(0.5) = %f, want 0.5", got)
	}
}

func TestBackOvershoots(t *testing.T) {
	fn, _ := Easing("back")
	peak := 0.0
	for i := 0; i <= 100; i++ {
		if v := fn(float64(i) / 100); v > peak {
			peak = v
		}
	}
	if peak <= 1 {
		t.Errorf("back never overshoots, peak %f", peak)
	}
}

func TestLinearMidpoint(t *testing.T) {
	fn, _ := Easing("linear")
	if got := fn(0.25); got != 0.25 {
		t.Errorf("linear(0.25) = %f", got)
	}
}

func TestCubicBezierStaysInUnitRange(t *testing.T) {
	fn, ok := Easing("cubic-bezier(0.42, 0, 0.58, 1)")
	if !ok {
		t.Fatal("cubic-bezier not recognized")
	}
	prev := 0.0
	for i := 0; i <= 20; i++ {
		v := fn(float64(i) / 20)
		if v < -1e-6 || v > 1+1e-6 {
			t.Errorf("bezier(%f) = %f out of range", float64(i)/20, v)
		}
		if v < prev-1e-6 {
			t.Errorf("bezier not monotone at %f: %f < %f", float64(i)/20, v, prev)
		}
		prev = v
	}
}
