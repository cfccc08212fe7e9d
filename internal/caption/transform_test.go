package caption

import (
	"math"
	"testing"
)

func TestFromPropertiesDefaults(t *testing.T) {
	tr := FromProperties(nil)
	if tr != Identity() {
		t.Errorf("FromProperties(nil) = %+v, want identity", tr)
	}

	tr = FromProperties(map[string]any{"translateX": 12.0})
	if tr.TranslateX != 12 || tr.Opacity != 1 || tr.Scale != 1 {
		t.Errorf("partial properties broke identity defaults: %+v", tr)
	}
}

func TestFromPropertiesClamps(t *testing.T) {
	tr := FromProperties(map[string]any{"opacity": 1.8, "scale": -2.0, "blur": -1.0})
	if tr.Opacity != 1 {
		t.Errorf("opacity = %f, want clamped to 1", tr.Opacity)
	}
	if tr.Scale != 0 {
		t.Errorf("scale = %f, want floored at 0", tr.Scale)
	}
	if tr.Blur != 0 {
		t.Errorf("blur = %f, want floored at 0", tr.Blur)
	}
}

func TestFromPropertiesAllKeys(t *testing.T) {
	tr := FromProperties(map[string]any{
		"opacity":    0.5,
		"translateX": 3.0,
		"translateY": -4.0,
		"scale":      1.5,
		"rotation":   90.0,
		"blur":       2.0,
	})
	want := Transform{Opacity: 0.5, TranslateX: 3, TranslateY: -4, Scale: 1.5, Rotation: 90, Blur: 2}
	if tr != want {
		t.Errorf("got %+v, want %+v", tr, want)
	}
}

func TestLerp(t *testing.T) {
	a := Transform{Opacity: 0, TranslateX: 0, Scale: 1}
	b := Transform{Opacity: 1, TranslateX: 10, Scale: 2}

	mid := Lerp(a, b, 0.5)
	if math.Abs(mid.Opacity-0.5) > 1e-9 || math.Abs(mid.TranslateX-5) > 1e-9 || math.Abs(mid.Scale-1.5) > 1e-9 {
		t.Errorf("Lerp midpoint = %+v", mid)
	}
	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp at 0 = %+v, want a", got)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("Lerp at 1 = %+v, want b", got)
	}
}

func TestWithMinOpacity(t *testing.T) {
	tr := Transform{Opacity: 0.2}
	if got := tr.WithMinOpacity(0.5); got.Opacity != 0.5 {
		t.Errorf("floored opacity = %f, want 0.5", got.Opacity)
	}
	if tr.Opacity != 0.2 {
		t.Error("WithMinOpacity mutated the receiver")
	}
	tr = Transform{Opacity: 0.9}
	if got := tr.WithMinOpacity(0.5); got.Opacity != 0.9 {
		t.Errorf("opacity above the floor changed to %f", got.Opacity)
	}
}
