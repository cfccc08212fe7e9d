package caption

import (
	"github.com/ivlev/capmotion/internal/anim"
	"github.com/ivlev/capmotion/internal/style"
	"github.com/ivlev/capmotion/internal/transcript"
)

// Phase selects which container animation class a transform is computed for.
type Phase int

const (
	PhaseEnter Phase = iota
	PhaseExit
)

// exitBlendWindow is the fixed crossfade window at the tail of every segment,
// independent of the configured animation durations.
const exitBlendWindow = 0.3

// visibilityFloor is the minimum opacity of a word whose own timing window is
// current. Animations can dim an actively-spoken word but never hide it.
const visibilityFloor = 0.5

// Timeline maps absolute time to container and word transforms using the
// configured animation classes.
type Timeline struct {
	classes map[string]anim.Animation
}

// NewTimeline builds a timeline over the given animation classes, keyed by
// the style class names (container-enter, container-exit, word-enter).
func NewTimeline(classes map[string]anim.Animation) *Timeline {
	return &Timeline{classes: classes}
}

// ContainerTransform evaluates one container phase in isolation. The enter
// phase progresses with time since segment start; the exit phase plays
// forward toward its final keyframe as the segment end approaches, so that at
// the segment end it has fully landed on its last keyframe. A missing class
// is the identity transform.
func (tl *Timeline) ContainerTransform(seg transcript.Segment, phase Phase, now float64) Transform {
	var class anim.Animation
	var ok bool
	switch phase {
	case PhaseEnter:
		class, ok = tl.classes[style.ClassContainerEnter]
	case PhaseExit:
		class, ok = tl.classes[style.ClassContainerExit]
	}
	if !ok || class.Duration <= 0 {
		return Identity()
	}

	var progress float64
	switch phase {
	case PhaseEnter:
		progress = (now - seg.Start - class.Delay) / class.Duration
	case PhaseExit:
		remaining := (seg.End - now) / class.Duration
		if remaining > 1 {
			remaining = 1
		}
		progress = 1 - remaining
	}
	if progress > 1 {
		progress = 1
	}
	return FromProperties(class.Evaluate(progress))
}

// ContainerAt is the resolved container transform at now: the enter phase
// alone for most of the segment, crossfaded linearly with the exit phase over
// the final 300ms. The blend interpolates two fully evaluated transforms
// rather than re-evaluating a merged animation.
func (tl *Timeline) ContainerAt(seg transcript.Segment, now float64) Transform {
	enter := tl.ContainerTransform(seg, PhaseEnter, now)
	if now <= seg.End-exitBlendWindow {
		return enter
	}
	exit := tl.ContainerTransform(seg, PhaseExit, now)
	w := clamp01((seg.End - now) / exitBlendWindow)
	return Lerp(exit, enter, w)
}

// WordTransform evaluates the word-enter animation for one word. The word's
// effective animation start is segment start plus the class delay plus
// wordIndex*stagger. Raw transcript timing overrides animation-timing
// starvation: a word inside its own [start,end] window is forced to
// mid-animation progress when the stagger delay has not elapsed, and its
// resolved opacity is floored at 0.5.
func (tl *Timeline) WordTransform(word transcript.Word, now, segmentStart float64, wordIndex int) Transform {
	class, ok := tl.classes[style.ClassWordEnter]
	if !ok || class.Duration <= 0 {
		return Identity()
	}

	active := word.Active(now)
	effStart := segmentStart + class.Delay + float64(wordIndex)*class.Stagger

	var progress float64
	switch {
	case now < effStart:
		if !active {
			tr := Identity()
			tr.Opacity = 0
			return tr
		}
		progress = 0.5
	case now >= word.End:
		progress = 1
	default:
		window := class.Duration
		if d := word.Duration(); d < window {
			window = d
		}
		if window <= 0 {
			progress = 1
		} else {
			progress = (now - effStart) / window
			if progress > 1 {
				progress = 1
			}
		}
	}

	tr := FromProperties(class.Evaluate(progress))
	if active {
		tr = tr.WithMinOpacity(visibilityFloor)
	}
	return tr
}
