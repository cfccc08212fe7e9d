package render

import (
	"log/slog"
	"math"

	"github.com/ivlev/capmotion/internal/caption"
	"github.com/ivlev/capmotion/internal/style"
	"github.com/ivlev/capmotion/internal/surface"
)

// Producer drives the per-frame loop: it resolves caption states for a
// timestamp, draws them on the surface when there is anything to draw, and
// extracts raw RGBA pixels.
//
// It owns two buffers. The empty buffer is allocated once, stays all-zero,
// and is shared across every frame with no active caption, which skips the
// whole draw-and-extract cycle — pixel extraction dominates frame cost, so
// this is the main performance lever. The scratch buffer is reused for every
// non-empty frame; consumers must fully use or copy a returned buffer before
// the next FrameAt call overwrites it.
type Producer struct {
	surf     surface.Surface
	resolver *caption.Resolver
	style    style.Style
	width    int
	height   int
	logger   *slog.Logger

	empty   []byte
	scratch []byte
}

// NewProducer builds a producer for a fixed resolution.
func NewProducer(surf surface.Surface, width, height int, resolver *caption.Resolver, st style.Style, logger *slog.Logger) *Producer {
	if logger == nil {
		logger = slog.Default()
	}
	size := width * height * 4
	return &Producer{
		surf:     surf,
		resolver: resolver,
		style:    st,
		width:    width,
		height:   height,
		logger:   logger,
		empty:    make([]byte, size),
		scratch:  make([]byte, size),
	}
}

// TotalFrames returns the frame count covering both the source video and the
// transcript: ceil(max(videoDuration, transcriptDuration) * fps).
func (p *Producer) TotalFrames(videoDuration float64, fps int) int {
	d := videoDuration
	if t := p.resolver.Duration(); t > d {
		d = t
	}
	return int(math.Ceil(d * float64(fps)))
}

// FrameAt renders the caption layer for one timestamp and returns its RGBA
// bytes. Rendering and extraction failures never abort the run; the frame
// degrades to the transparent empty buffer.
func (p *Producer) FrameAt(now float64) []byte {
	states := p.resolver.StatesAt(now)
	if len(states) == 0 {
		return p.empty
	}

	p.surf.Clear()
	for _, state := range states {
		p.renderState(state, now)
	}
	return p.extract()
}

// extract copies the surface pixels into the scratch buffer, preferring the
// zero-copy snapshot and falling back to the generic per-pixel read.
func (p *Producer) extract() []byte {
	if pix, err := p.surf.SnapshotPixels(); err == nil && len(pix) == len(p.scratch) {
		copy(p.scratch, pix)
		return p.scratch
	}

	if err := surface.ReadPixels(p.surf.Image(), p.scratch); err != nil {
		p.logger.Warn("pixel extraction failed, emitting empty frame", "error", err)
		return p.empty
	}
	return p.scratch
}

// renderState draws one segment's container box and words.
func (p *Producer) renderState(state caption.VisualState, now float64) {
	ct := state.Container
	if ct.Opacity <= 0 || ct.Scale <= 0 {
		return
	}

	lay := p.layout(state)

	boxW := lay.boxW * ct.Scale
	boxH := lay.boxH * ct.Scale
	boxX := lay.boxX + (lay.boxW-boxW)/2 + ct.TranslateX
	boxY := lay.boxY + (lay.boxH-boxH)/2 + ct.TranslateY

	if p.style.Gradient != nil {
		from, to := p.style.Gradient.From, p.style.Gradient.To
		from.A = scaleAlpha(from.A, ct.Opacity)
		to.A = scaleAlpha(to.A, ct.Opacity)
		p.surf.FillGradientRect(boxX, boxY, boxW, boxH, p.style.BorderRadius*ct.Scale, from, to)
	} else if p.style.Background.A > 0 {
		bg := p.style.Background
		bg.A = scaleAlpha(bg.A, ct.Opacity)
		p.surf.SetColor(bg)
		p.surf.FillRoundedRect(boxX, boxY, boxW, boxH, p.style.BorderRadius*ct.Scale)
	}

	for i, ws := range state.Words {
		wt := ws.Transform
		opacity := wt.Opacity * ct.Opacity
		if opacity <= 0 || wt.Scale <= 0 {
			continue
		}

		active := ws.Word.Active(now)
		col := p.style.Color
		weight := p.style.FontWeight
		if active {
			// Active-word style swap while the word's own window is current.
			col = p.style.ActiveColor
			weight = 700
		}
		col.A = scaleAlpha(col.A, opacity)

		size := p.style.FontSize * wt.Scale * ct.Scale
		p.surf.SetFont(size, weight)
		p.surf.SetColor(col)

		// Scale words about their own center so animated words grow in place.
		w := lay.words[i]
		cx := lay.boxX + (w.x+w.width/2-lay.boxX)*ct.Scale + ct.TranslateX
		baseline := boxY + (lay.baseline-lay.boxY)*ct.Scale
		wordW, _ := p.surf.MeasureText(ws.Word.Text)
		p.surf.FillText(ws.Word.Text, cx-wordW/2+wt.TranslateX, baseline+wt.TranslateY)
	}

	if ct.Blur > 0 {
		p.surf.ApplyBlur(ct.Blur)
	}
}

func scaleAlpha(a uint8, f float64) uint8 {
	v := float64(a) * f
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}
