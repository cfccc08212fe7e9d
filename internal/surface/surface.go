package surface

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ivlev/capmotion/internal/style"
)

// Surface is the 2D drawing collaborator the frame producer renders caption
// states onto. Implementations keep current font and fill color state, like a
// canvas context. All pixel output is straight (non-premultiplied) RGBA.
type Surface interface {
	// Clear resets every pixel to transparent black.
	Clear()

	// SetFont selects the face used by MeasureText and FillText.
	// Weight 700 and above selects the bold face.
	SetFont(size float64, weight int)

	// SetColor sets the fill color for subsequent text and rect fills.
	SetColor(c style.Color)

	// MeasureText returns the advance width and line height of text under
	// the current font.
	MeasureText(text string) (w, h float64)

	// FillRoundedRect fills a rectangle with rounded corners using the
	// current color.
	FillRoundedRect(x, y, w, h, radius float64)

	// FillGradientRect fills a rounded rectangle with a vertical two-stop
	// gradient.
	FillGradientRect(x, y, w, h, radius float64, from, to style.Color)

	// FillText draws text with its baseline at (x, y).
	FillText(text string, x, y float64)

	// ApplyBlur blurs the whole surface by approximately the given radius.
	ApplyBlur(radius float64)

	// SnapshotPixels returns the surface's backing pixels as straight-alpha
	// RGBA bytes without copying. It fails when the backing store is not a
	// packed zero-origin buffer; callers fall back to ReadPixels.
	SnapshotPixels() ([]byte, error)

	// Image exposes the backing image for the generic extraction path.
	Image() image.Image
}

// ReadPixels is the slow, always-correct extraction path: it converts any
// image, including alpha-premultiplied ones, into straight-alpha RGBA bytes
// in dst. dst must hold exactly width*height*4 bytes.
func ReadPixels(img image.Image, dst []byte) error {
	bounds := img.Bounds()
	need := bounds.Dx() * bounds.Dy() * 4
	if len(dst) != need {
		return fmt.Errorf("surface: pixel buffer is %d bytes, need %d", len(dst), need)
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst[i] = c.R
			dst[i+1] = c.G
			dst[i+2] = c.B
			dst[i+3] = c.A
			i += 4
		}
	}
	return nil
}
