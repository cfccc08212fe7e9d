package caption

import "github.com/ivlev/capmotion/internal/anim"

// Transform is the visual state of a container or word for one frame. Values
// are produced fresh every frame and never mutated in place; policies like
// the word visibility floor return adjusted copies.
type Transform struct {
	Opacity    float64 // [0,1]
	TranslateX float64 // pixels
	TranslateY float64 // pixels
	Scale      float64 // >= 0
	Rotation   float64 // degrees
	Blur       float64 // pixels, >= 0
}

// Identity is the no-op transform: fully opaque, unscaled, unmoved.
func Identity() Transform {
	return Transform{Opacity: 1, Scale: 1}
}

// FromProperties builds a Transform from an evaluated keyframe property map.
// Absent properties keep their identity values.
func FromProperties(props map[string]any) Transform {
	tr := Identity()
	if v, ok := num(props, "opacity"); ok {
		tr.Opacity = clamp01(v)
	}
	if v, ok := num(props, "translateX"); ok {
		tr.TranslateX = v
	}
	if v, ok := num(props, "translateY"); ok {
		tr.TranslateY = v
	}
	if v, ok := num(props, "scale"); ok {
		if v < 0 {
			v = 0
		}
		tr.Scale = v
	}
	if v, ok := num(props, "rotation"); ok {
		tr.Rotation = v
	}
	if v, ok := num(props, "blur"); ok {
		if v < 0 {
			v = 0
		}
		tr.Blur = v
	}
	return tr
}

// Lerp linearly interpolates every component from a to b.
func Lerp(a, b Transform, t float64) Transform {
	return Transform{
		Opacity:    lerp(a.Opacity, b.Opacity, t),
		TranslateX: lerp(a.TranslateX, b.TranslateX, t),
		TranslateY: lerp(a.TranslateY, b.TranslateY, t),
		Scale:      lerp(a.Scale, b.Scale, t),
		Rotation:   lerp(a.Rotation, b.Rotation, t),
		Blur:       lerp(a.Blur, b.Blur, t),
	}
}

// WithMinOpacity returns a copy with opacity floored at min.
func (t Transform) WithMinOpacity(min float64) Transform {
	if t.Opacity < min {
		t.Opacity = min
	}
	return t
}

func num(props map[string]any, key string) (float64, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	return anim.Numeric(v)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
