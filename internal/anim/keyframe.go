package anim

// Keyframe is a single stop in an animation. Time is normalized to [0,1];
// keyframes without an explicit time get one inferred from their position by
// InferTimes. Properties map animatable property names to values.
type Keyframe struct {
	Time       float64
	HasTime    bool
	Properties map[string]any
}

// Animation is an immutable animation class loaded from style configuration.
type Animation struct {
	Duration  float64 // seconds
	Delay     float64 // seconds
	Stagger   float64 // seconds, per-element additional delay
	Keyframes []Keyframe
	Easing    Func
}

// InferTimes fills in missing keyframe times as index/(count-1), so a list
// without explicit times spreads evenly across [0,1]. A single untimed
// keyframe sits at 0.
func InferTimes(kfs []Keyframe) {
	n := len(kfs)
	for i := range kfs {
		if kfs[i].HasTime {
			continue
		}
		if n > 1 {
			kfs[i].Time = float64(i) / float64(n-1)
		} else {
			kfs[i].Time = 0
		}
		kfs[i].HasTime = true
	}
}

// Evaluate interpolates the animation's properties at normalized time t.
// t is clamped to [0,1]; before-first and after-last times clamp to the edge
// keyframes. Easing applies to the local segment progress, and numeric
// properties interpolate linearly. Properties present on only one side of the
// bracket hold that side's value; non-numeric values snap to the nearer
// keyframe. The evaluator is pure: it knows nothing about absolute time,
// words, or segments.
func (a Animation) Evaluate(t float64) map[string]any {
	kfs := a.Keyframes
	if len(kfs) == 0 {
		return nil
	}
	t = clamp01(t)

	if t <= kfs[0].Time || len(kfs) == 1 {
		return copyProps(kfs[0].Properties)
	}
	last := kfs[len(kfs)-1]
	if t >= last.Time {
		return copyProps(last.Properties)
	}

	easing := a.Easing
	if easing == nil {
		easing = func(v float64) float64 { return v }
	}

	for i := 0; i < len(kfs)-1; i++ {
		k1, k2 := kfs[i], kfs[i+1]
		if t < k1.Time || t > k2.Time {
			continue
		}
		localT := 0.0
		if span := k2.Time - k1.Time; span > 0 {
			localT = (t - k1.Time) / span
		}
		return interpolateProps(k1.Properties, k2.Properties, easing(localT))
	}

	return copyProps(last.Properties)
}

func interpolateProps(p1, p2 map[string]any, t float64) map[string]any {
	out := make(map[string]any, len(p1)+len(p2))
	for k, v1 := range p1 {
		v2, ok := p2[k]
		if !ok {
			out[k] = v1
			continue
		}
		out[k] = interpolateValue(v1, v2, t)
	}
	for k, v2 := range p2 {
		if _, ok := p1[k]; !ok {
			out[k] = v2
		}
	}
	return out
}

func interpolateValue(v1, v2 any, t float64) any {
	n1, ok1 := Numeric(v1)
	n2, ok2 := Numeric(v2)
	if ok1 && ok2 {
		return n1 + (n2-n1)*t
	}
	if t < 0.5 {
		return v1
	}
	return v2
}

// Numeric reports v as a float64 if it is any numeric type a YAML or JSON
// decoder produces.
func Numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func copyProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
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
