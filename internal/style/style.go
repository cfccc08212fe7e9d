package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/capmotion/internal/anim"
)

// Animation class names the rendering core consumes.
const (
	ClassContainerEnter = "container-enter"
	ClassContainerExit  = "container-exit"
	ClassWordEnter      = "word-enter"
)

// Color is a straight-alpha RGBA color with 0-255 channels.
type Color struct {
	R, G, B, A uint8
}

// Blend mixes c toward other by t in RGB space, interpolating alpha linearly.
func (c Color) Blend(other Color, t float64) Color {
	c1 := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	c2 := colorful.Color{R: float64(other.R) / 255, G: float64(other.G) / 255, B: float64(other.B) / 255}
	m := c1.BlendRgb(c2, t).Clamped()
	r, g, b := m.RGB255()
	a := float64(c.A) + (float64(other.A)-float64(c.A))*t
	return Color{R: r, G: g, B: b, A: uint8(a + 0.5)}
}

// Gradient is a two-stop vertical gradient descriptor.
type Gradient struct {
	From Color
	To   Color
}

// Style holds the resolved numeric style values for caption drawing.
type Style struct {
	FontFamily   string
	FontFile     string // optional path to a TTF/OTF; empty means built-in faces
	FontSize     float64
	FontWeight   int // 400 regular, 700 bold
	Color        Color
	ActiveColor  Color // swapped in while a word's own timing window is current
	Background   Color
	Gradient     *Gradient // when set, the container box uses a gradient fill
	PaddingX     float64
	PaddingY     float64
	WordSpacing  float64
	BorderRadius float64
}

// Config is the fully resolved style configuration: drawing styles plus the
// named animation classes.
type Config struct {
	Style      Style
	Animations map[string]anim.Animation
	Width      int // optional overrides, 0 means "use CLI/config value"
	Height     int
	FPS        int
}

// Class returns the named animation class. ok is false when the style file
// does not define it; callers treat a missing class as the identity
// transform.
func (c *Config) Class(name string) (anim.Animation, bool) {
	a, ok := c.Animations[name]
	return a, ok
}

// parseColor accepts "#rgb"/"#rrggbb" hex strings and [r,g,b] or [r,g,b,a]
// 0-255 channel lists.
func parseColor(v any) (Color, error) {
	switch c := v.(type) {
	case nil:
		return Color{}, fmt.Errorf("missing color value")
	case string:
		hex := strings.TrimSpace(c)
		parsed, err := colorful.Hex(hex)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", c, err)
		}
		r, g, b := parsed.RGB255()
		return Color{R: r, G: g, B: b, A: 255}, nil
	case []any:
		if len(c) != 3 && len(c) != 4 {
			return Color{}, fmt.Errorf("color list needs 3 or 4 channels, got %d", len(c))
		}
		var ch [4]float64
		ch[3] = 255
		for i, raw := range c {
			n, ok := anim.Numeric(raw)
			if !ok || n < 0 || n > 255 {
				return Color{}, fmt.Errorf("color channel %d out of range: %v", i, raw)
			}
			ch[i] = n
		}
		return Color{R: uint8(ch[0]), G: uint8(ch[1]), B: uint8(ch[2]), A: uint8(ch[3])}, nil
	}
	return Color{}, fmt.Errorf("unsupported color value %v", v)
}

// parsePadding accepts a single number, an [x,y] list, or a "12 24" style
// string (optionally with px/em suffixes, which are stripped).
func parsePadding(v any) (x, y float64, err error) {
	switch p := v.(type) {
	case nil:
		return 0, 0, nil
	case []any:
		if len(p) != 2 {
			return 0, 0, fmt.Errorf("padding list needs 2 values, got %d", len(p))
		}
		px, ok1 := anim.Numeric(p[0])
		py, ok2 := anim.Numeric(p[1])
		if !ok1 || !ok2 {
			return 0, 0, fmt.Errorf("padding list values must be numeric")
		}
		return px, py, nil
	case string:
		parts := strings.Fields(p)
		if len(parts) != 2 {
			return 0, 0, fmt.Errorf("padding string %q: expected two values", p)
		}
		vals := make([]float64, 2)
		for i, part := range parts {
			part = strings.TrimSuffix(strings.TrimSuffix(part, "px"), "em")
			f, perr := strconv.ParseFloat(part, 64)
			if perr != nil {
				return 0, 0, fmt.Errorf("padding string %q: %w", p, perr)
			}
			vals[i] = f
		}
		return vals[0], vals[1], nil
	default:
		if n, ok := anim.Numeric(v); ok {
			return n, n, nil
		}
	}
	return 0, 0, fmt.Errorf("unsupported padding value %v", v)
}
