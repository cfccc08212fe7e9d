package surface

import (
	"fmt"
	"image"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/capmotion/internal/style"
)

// Canvas is a Surface backed by an *image.NRGBA, so its pixels are straight
// alpha by construction and SnapshotPixels can hand out the backing store
// directly.
type Canvas struct {
	img    *image.NRGBA
	width  int
	height int

	regular *sfnt.Font
	bold    *sfnt.Font
	faces   map[faceKey]font.Face
	face    font.Face
	color   style.Color
}

type faceKey struct {
	size   float64
	weight int
}

// NewCanvas creates a canvas of the given size. fontFile optionally points to
// a TTF/OTF used for all weights; otherwise the built-in Go faces are used.
func NewCanvas(width, height int, fontFile string) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface: invalid canvas size %dx%d", width, height)
	}

	c := &Canvas{
		img:    image.NewNRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
		faces:  make(map[faceKey]font.Face),
		color:  style.Color{R: 255, G: 255, B: 255, A: 255},
	}

	if fontFile != "" {
		data, err := os.ReadFile(fontFile)
		if err != nil {
			return nil, fmt.Errorf("surface: read font %q: %w", fontFile, err)
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("surface: parse font %q: %w", fontFile, err)
		}
		c.regular, c.bold = f, f
	} else {
		reg, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("surface: parse built-in regular face: %w", err)
		}
		bld, err := opentype.Parse(gobold.TTF)
		if err != nil {
			return nil, fmt.Errorf("surface: parse built-in bold face: %w", err)
		}
		c.regular, c.bold = reg, bld
	}

	c.SetFont(16, 400)
	return c, nil
}

func (c *Canvas) Clear() {
	pix := c.img.Pix
	for i := range pix {
		pix[i] = 0
	}
}

func (c *Canvas) SetFont(size float64, weight int) {
	// Quarter-pixel quantization keeps the face cache bounded while word
	// scales animate continuously.
	size = math.Round(size*4) / 4
	key := faceKey{size: size, weight: weight}
	if face, ok := c.faces[key]; ok {
		c.face = face
		return
	}

	src := c.regular
	if weight >= 700 {
		src = c.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Face creation only fails for degenerate sizes; keep the current face.
		return
	}
	c.faces[key] = face
	c.face = face
}

func (c *Canvas) SetColor(col style.Color) {
	c.color = col
}

func (c *Canvas) MeasureText(text string) (float64, float64) {
	adv := font.MeasureString(c.face, text)
	m := c.face.Metrics()
	return fromFixed(adv), fromFixed(m.Ascent + m.Descent)
}

func (c *Canvas) FillText(text string, x, y float64) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(nrgba(c.color)),
		Face: c.face,
		Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(y)},
	}
	d.DrawString(text)
}

func (c *Canvas) FillRoundedRect(x, y, w, h, radius float64) {
	c.fillRounded(x, y, w, h, radius, func(float64) style.Color { return c.color })
}

func (c *Canvas) FillGradientRect(x, y, w, h, radius float64, from, to style.Color) {
	c.fillRounded(x, y, w, h, radius, func(t float64) style.Color {
		return from.Blend(to, t)
	})
}

// fillRounded fills row spans of a rounded rectangle, asking rowColor for the
// fill at each row's normalized vertical position.
func (c *Canvas) fillRounded(x, y, w, h, radius float64, rowColor func(t float64) style.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	if max := minf(w, h) / 2; radius > max {
		radius = max
	}
	if radius < 0 {
		radius = 0
	}

	y0, y1 := int(y), int(y+h)
	for py := y0; py < y1; py++ {
		if py < 0 || py >= c.height {
			continue
		}

		// Horizontal inset from the corner circles for this row.
		inset := 0.0
		fy := float64(py) + 0.5
		switch {
		case fy < y+radius:
			dy := y + radius - fy
			inset = radius - sqrt(radius*radius-dy*dy)
		case fy > y+h-radius:
			dy := fy - (y + h - radius)
			inset = radius - sqrt(radius*radius-dy*dy)
		}

		t := 0.0
		if h > 1 {
			t = (fy - y) / h
		}
		col := rowColor(t)

		x0, x1 := int(x+inset), int(x+w-inset)
		if x0 < 0 {
			x0 = 0
		}
		if x1 > c.width {
			x1 = c.width
		}
		for px := x0; px < x1; px++ {
			c.blend(px, py, col)
		}
	}
}

// blend composites col over the existing pixel in straight alpha.
func (c *Canvas) blend(x, y int, col style.Color) {
	i := c.img.PixOffset(x, y)
	pix := c.img.Pix

	sa := float64(col.A) / 255
	if sa >= 1 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = col.R, col.G, col.B, col.A
		return
	}
	if sa <= 0 {
		return
	}

	da := float64(pix[i+3]) / 255
	oa := sa + da*(1-sa)
	if oa <= 0 {
		return
	}
	blendCh := func(s uint8, d uint8) uint8 {
		v := (float64(s)*sa + float64(d)*da*(1-sa)) / oa
		return uint8(v + 0.5)
	}
	pix[i] = blendCh(col.R, pix[i])
	pix[i+1] = blendCh(col.G, pix[i+1])
	pix[i+2] = blendCh(col.B, pix[i+2])
	pix[i+3] = uint8(oa*255 + 0.5)
}

// ApplyBlur approximates a gaussian blur with three box blur passes.
func (c *Canvas) ApplyBlur(radius float64) {
	r := int(radius)
	if r <= 0 {
		return
	}
	for pass := 0; pass < 3; pass++ {
		boxBlurH(c.img, r)
		boxBlurV(c.img, r)
	}
}

func (c *Canvas) SnapshotPixels() ([]byte, error) {
	if c.img.Stride != c.width*4 || c.img.Rect.Min != (image.Point{}) {
		return nil, fmt.Errorf("surface: backing store is not packed at origin")
	}
	return c.img.Pix, nil
}

func (c *Canvas) Image() image.Image {
	return c.img
}

// Width and Height report the canvas dimensions in pixels.
func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v*64 + 0.5)
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
