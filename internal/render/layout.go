package render

import "github.com/ivlev/capmotion/internal/caption"

// segmentLayout is the untransformed geometry of one caption line: a single
// row of words measured at the base font size, wrapped in a padded box and
// centered in the lower third of the frame. Container and word transforms are
// applied on top of this during drawing.
type segmentLayout struct {
	boxX, boxY   float64
	boxW, boxH   float64
	baseline     float64
	words        []wordBox
}

type wordBox struct {
	x     float64
	width float64
}

// captionAnchor places the caption box vertically: its center sits at 80% of
// the frame height.
const captionAnchor = 0.8

func (p *Producer) layout(state caption.VisualState) segmentLayout {
	p.surf.SetFont(p.style.FontSize, p.style.FontWeight)

	var lay segmentLayout
	lay.words = make([]wordBox, len(state.Words))

	lineH := 0.0
	total := 0.0
	for i, ws := range state.Words {
		w, h := p.surf.MeasureText(ws.Word.Text)
		lay.words[i].width = w
		total += w
		if i > 0 {
			total += p.style.WordSpacing
		}
		if h > lineH {
			lineH = h
		}
	}

	lay.boxW = total + 2*p.style.PaddingX
	lay.boxH = lineH + 2*p.style.PaddingY
	lay.boxX = (float64(p.width) - lay.boxW) / 2
	lay.boxY = float64(p.height)*captionAnchor - lay.boxH/2

	// Baseline sits a descent's worth above the bottom padding; a fixed
	// fraction of line height is a good fit for the Go faces.
	lay.baseline = lay.boxY + p.style.PaddingY + lineH*0.8

	x := lay.boxX + p.style.PaddingX
	for i := range lay.words {
		lay.words[i].x = x
		x += lay.words[i].width + p.style.WordSpacing
	}
	return lay
}
