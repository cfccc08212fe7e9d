package surface

import (
	"image"
	"image/color"
	"math"

	"github.com/ivlev/capmotion/internal/style"
)

func boxBlurH(img *image.NRGBA, r int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	row := make([][4]int, w)

	for y := 0; y < h; y++ {
		base := y * img.Stride
		for x := 0; x < w; x++ {
			i := base + x*4
			row[x] = [4]int{int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2]), int(img.Pix[i+3])}
		}
		for x := 0; x < w; x++ {
			var sum [4]int
			count := 0
			for dx := -r; dx <= r; dx++ {
				sx := x + dx
				if sx < 0 || sx >= w {
					continue
				}
				for ch := 0; ch < 4; ch++ {
					sum[ch] += row[sx][ch]
				}
				count++
			}
			i := base + x*4
			for ch := 0; ch < 4; ch++ {
				img.Pix[i+ch] = uint8(sum[ch] / count)
			}
		}
	}
}

func boxBlurV(img *image.NRGBA, r int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	col := make([][4]int, h)

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			i := y*img.Stride + x*4
			col[y] = [4]int{int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2]), int(img.Pix[i+3])}
		}
		for y := 0; y < h; y++ {
			var sum [4]int
			count := 0
			for dy := -r; dy <= r; dy++ {
				sy := y + dy
				if sy < 0 || sy >= h {
					continue
				}
				for ch := 0; ch < 4; ch++ {
					sum[ch] += col[sy][ch]
				}
				count++
			}
			i := y*img.Stride + x*4
			for ch := 0; ch < 4; ch++ {
				img.Pix[i+ch] = uint8(sum[ch] / count)
			}
		}
	}
}

func nrgba(c style.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func sqrt(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
