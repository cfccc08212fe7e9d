package caption

import (
	"github.com/ivlev/capmotion/internal/anim"
	"github.com/ivlev/capmotion/internal/transcript"
)

// WordState pairs a word with its per-frame transform.
type WordState struct {
	Word      transcript.Word
	Transform Transform
}

// VisualState is everything the frame producer needs to draw one active
// segment: the container transform plus per-word transforms, in word order.
// Instances are ephemeral, one per active segment per frame.
type VisualState struct {
	Segment   transcript.Segment
	Container Transform
	Words     []WordState
}

// Resolver selects the segments active at a time and resolves their visual
// states through the animation timeline.
type Resolver struct {
	segments []transcript.Segment
	timeline *Timeline
}

// NewResolver builds a resolver over normalized segments and animation
// classes.
func NewResolver(segments []transcript.Segment, classes map[string]anim.Animation) *Resolver {
	return &Resolver{
		segments: segments,
		timeline: NewTimeline(classes),
	}
}

// StatesAt returns the visual state of every segment active at now,
// inclusive of both segment bounds, in original segment order. Overlapping
// segments all render. An empty result means the frame has no caption.
func (r *Resolver) StatesAt(now float64) []VisualState {
	var states []VisualState
	for _, seg := range r.segments {
		if !seg.Active(now) {
			continue
		}
		state := VisualState{
			Segment:   seg,
			Container: r.timeline.ContainerAt(seg, now),
			Words:     make([]WordState, 0, len(seg.Words)),
		}
		for _, word := range seg.Words {
			state.Words = append(state.Words, WordState{
				Word:      word,
				Transform: r.timeline.WordTransform(word, now, seg.Start, word.Index),
			})
		}
		states = append(states, state)
	}
	return states
}

// Duration returns the latest segment end time, or 0 with no segments.
func (r *Resolver) Duration() float64 {
	max := 0.0
	for _, seg := range r.segments {
		if seg.End > max {
			max = seg.End
		}
	}
	return max
}
