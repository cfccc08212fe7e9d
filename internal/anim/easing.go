package anim

import (
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/ease"
)

// Func remaps a normalized progress value in [0,1] to an eased progress value.
type Func func(t float64) float64

const defaultBackOvershoot = 1.70158

// Easing resolves an easing name to a function. Parametrized forms are
// accepted in function-call syntax: "back(1.7)", "elastic(1,0.3)",
// "cubic-bezier(0.17,0.67,0.83,0.67)". The second return value is false for
// unknown names; callers are expected to warn and fall back to Linear rather
// than fail the run.
func Easing(name string) (Func, bool) {
	base, args, ok := splitCall(name)
	if !ok {
		return ease.Linear, false
	}

	switch base {
	case "linear", "":
		return ease.Linear, true
	case "ease-in":
		return ease.InQuad, true
	case "ease-out":
		return ease.OutQuad, true
	case "ease-in-out":
		return ease.InOutQuad, true
	case "bounce":
		return ease.OutBounce, true
	case "back":
		s := defaultBackOvershoot
		if len(args) >= 1 {
			s = args[0]
		}
		return backOut(s), true
	case "elastic":
		amplitude, period := 1.0, 0.3
		if len(args) >= 1 {
			amplitude = args[0]
		}
		if len(args) >= 2 {
			period = args[1]
		}
		if len(args) == 0 {
			// Stock curve when no parameters are requested.
			return ease.OutElastic, true
		}
		return elasticOut(amplitude, period), true
	case "cubic-bezier":
		if len(args) != 4 {
			return ease.Linear, false
		}
		return cubicBezier(args[0], args[1], args[2], args[3]), true
	}

	return ease.Linear, false
}

// splitCall parses "name" or "name(a,b,...)" into a lowercase base name and
// numeric arguments.
func splitCall(name string) (string, []float64, bool) {
	s := strings.ToLower(strings.TrimSpace(name))
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, nil, true
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, false
	}

	base := strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]

	var args []float64
	for _, part := range strings.Split(inner, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return "", nil, false
		}
		args = append(args, v)
	}
	return base, args, true
}

// backOut overshoots past the target before settling, scaled by s.
func backOut(s float64) Func {
	return func(t float64) float64 {
		t--
		return t*t*((s+1)*t+s) + 1
	}
}

// elasticOut is an exponentially decaying sine with configurable amplitude
// and period.
func elasticOut(amplitude, period float64) Func {
	if period <= 0 {
		period = 0.3
	}
	if amplitude < 1 {
		amplitude = 1
	}
	s := period / (2 * math.Pi) * math.Asin(1/amplitude)
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return amplitude*math.Pow(2, -10*t)*math.Sin((t-s)*(2*math.Pi)/period) + 1
	}
}

// cubicBezier evaluates a CSS-style cubic bezier timing curve defined by two
// control points. The t producing a given x is found with a fixed 8-iteration
// Newton-Raphson on the curve's x component; this is an approximation, not an
// analytic inverse.
func cubicBezier(x1, y1, x2, y2 float64) Func {
	sample := func(a, b, t float64) float64 {
		// Cubic bezier with P0=0, P3=1.
		inv := 1 - t
		return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
	}
	derivative := func(a, b, t float64) float64 {
		inv := 1 - t
		return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
	}

	return func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if x >= 1 {
			return 1
		}
		t := x
		for i := 0; i < 8; i++ {
			d := derivative(x1, x2, t)
			if math.Abs(d) < 1e-6 {
				break
			}
			t -= (sample(x1, x2, t) - x) / d
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
		}
		return sample(y1, y2, t)
	}
}
