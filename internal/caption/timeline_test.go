package caption

import (
	"math"
	"testing"

	"github.com/ivlev/capmotion/internal/anim"
	"github.com/ivlev/capmotion/internal/style"
	"github.com/ivlev/capmotion/internal/transcript"
)

func fadeKeyframes(from, to float64) []anim.Keyframe {
	return []anim.Keyframe{
		{Time: 0, HasTime: true, Properties: map[string]any{"opacity": from}},
		{Time: 1, HasTime: true, Properties: map[string]any{"opacity": to}},
	}
}

func testClasses() map[string]anim.Animation {
	return map[string]anim.Animation{
		style.ClassContainerEnter: {Duration: 0.3, Keyframes: fadeKeyframes(0, 1)},
		style.ClassContainerExit:  {Duration: 0.3, Keyframes: fadeKeyframes(1, 0)},
		style.ClassWordEnter:      {Duration: 0.2, Stagger: 0.1, Keyframes: fadeKeyframes(0, 1)},
	}
}

func testSegment() transcript.Segment {
	return transcript.Segment{
		Text:  "hello world",
		Start: 1,
		End:   3,
		Words: []transcript.Word{
			{Text: "hello", Start: 1.0, End: 1.5, Index: 0},
			{Text: "world", Start: 1.5, End: 2.0, Index: 1},
		},
	}
}

func TestContainerEnterProgress(t *testing.T) {
	tl := NewTimeline(testClasses())
	seg := testSegment()

	// Halfway through the 0.3s enter animation.
	tr := tl.ContainerTransform(seg, PhaseEnter, 1.15)
	if math.Abs(tr.Opacity-0.5) > 1e-9 {
		t.Errorf("opacity at t=1.15 is %f, want 0.5", tr.Opacity)
	}

	// At segment start the animation has not progressed.
	tr = tl.ContainerTransform(seg, PhaseEnter, 1.0)
	if tr.Opacity != 0 {
		t.Errorf("opacity at segment start is %f, want 0", tr.Opacity)
	}

	// Long after the animation finished it holds the last keyframe.
	tr = tl.ContainerTransform(seg, PhaseEnter, 2.5)
	if tr.Opacity != 1 {
		t.Errorf("opacity after animation is %f, want 1", tr.Opacity)
	}
}

func TestContainerEnterDelay(t *testing.T) {
	classes := testClasses()
	enter := classes[style.ClassContainerEnter]
	enter.Delay = 0.2
	classes[style.ClassContainerEnter] = enter

	tl := NewTimeline(classes)
	seg := testSegment()

	if tr := tl.ContainerTransform(seg, PhaseEnter, 1.1); tr.Opacity != 0 {
		t.Errorf("opacity during delay is %f, want 0", tr.Opacity)
	}
	tr := tl.ContainerTransform(seg, PhaseEnter, 1.35)
	if math.Abs(tr.Opacity-0.5) > 1e-9 {
		t.Errorf("opacity mid-animation after delay is %f, want 0.5", tr.Opacity)
	}
}

func TestContainerExitLandsAtSegmentEnd(t *testing.T) {
	tl := NewTimeline(testClasses())
	seg := testSegment()

	// At the segment end the exit animation sits on its final keyframe.
	tr := tl.ContainerTransform(seg, PhaseExit, 3.0)
	if tr.Opacity != 0 {
		t.Errorf("exit opacity at segment end is %f, want 0", tr.Opacity)
	}

	// Half an exit duration before the end.
	tr = tl.ContainerTransform(seg, PhaseExit, 2.85)
	if math.Abs(tr.Opacity-0.5) > 1e-9 {
		t.Errorf("exit opacity at t=2.85 is %f, want 0.5", tr.Opacity)
	}

	// Long before the end the exit has not started.
	tr = tl.ContainerTransform(seg, PhaseExit, 1.5)
	if tr.Opacity != 1 {
		t.Errorf("exit opacity at t=1.5 is %f, want 1", tr.Opacity)
	}
}

func TestContainerAtCrossfade(t *testing.T) {
	tl := NewTimeline(testClasses())
	seg := testSegment()

	// Before the blend window only the enter phase applies.
	tr := tl.ContainerAt(seg, 2.0)
	if tr.Opacity != 1 {
		t.Errorf("opacity mid-segment is %f, want 1", tr.Opacity)
	}

	// At the segment end the blend weight is fully on the exit phase.
	tr = tl.ContainerAt(seg, 3.0)
	if tr.Opacity != 0 {
		t.Errorf("opacity at segment end is %f, want 0", tr.Opacity)
	}

	// Mid-window: exit evaluated at 0.5 blended half-and-half with the
	// finished enter: 0.5 + (1-0.5)*0.5.
	tr = tl.ContainerAt(seg, 2.85)
	if math.Abs(tr.Opacity-0.75) > 1e-9 {
		t.Errorf("opacity mid-blend is %f, want 0.75", tr.Opacity)
	}
}

func TestContainerMissingClassIsIdentity(t *testing.T) {
	tl := NewTimeline(map[string]anim.Animation{})
	seg := testSegment()
	if tr := tl.ContainerAt(seg, 1.5); tr != Identity() {
		t.Errorf("missing classes produced %+v, want identity", tr)
	}
}

func TestWordBeforeItsTurnIsInvisible(t *testing.T) {
	tl := NewTimeline(testClasses())
	seg := testSegment()

	// Word 1 staggers to 1.1; at 1.05 it has not started and its own
	// window (1.5-2.0) is not current either.
	word := seg.Words[1]
	tr := tl.WordTransform(word, 1.05, seg.Start, word.Index)
	if tr.Opacity != 0 {
		t.Errorf("opacity before stagger is %f, want 0", tr.Opacity)
	}
}

func TestWordMidAnimation(t *testing.T) {
	tl := NewTimeline(testClasses())
	seg := testSegment()

	// Word 0 starts animating at 1.0; its window is min(0.2, 0.5)=0.2, so
	// at 1.1 its raw progress is 0.5. It is actively spoken, so the floor
	// keeps opacity at 0.5 either way.
	word := seg.Words[0]
	tr := tl.WordTransform(word, 1.1, seg.Start, word.Index)
	if math.Abs(tr.Opacity-0.5) > 1e-9 {
		t.Errorf("opacity mid-animation is %f, want 0.5", tr.Opacity)
	}
}

func TestWordFinished(t *testing.T) {
	tl := NewTimeline(testClasses())
	seg := testSegment()

	word := seg.Words[0]
	tr := tl.WordTransform(word, 2.5, seg.Start, word.Index)
	if tr.Opacity != 1 {
		t.Errorf("opacity after word end is %f, want 1", tr.Opacity)
	}
}

func TestActiveWordSkipsAheadOfStagger(t *testing.T) {
	classes := testClasses()
	we := classes[style.ClassWordEnter]
	we.Stagger = 1.0 // starves later words well past their spoken time
	classes[style.ClassWordEnter] = we
	tl := NewTimeline(classes)
	seg := testSegment()

	// Word 1 is spoken at 1.6 but its staggered start is 2.0. Raw timing
	// wins: the word jumps to mid-animation progress.
	word := seg.Words[1]
	tr := tl.WordTransform(word, 1.6, seg.Start, word.Index)
	if math.Abs(tr.Opacity-0.5) > 1e-9 {
		t.Errorf("starved active word opacity is %f, want 0.5", tr.Opacity)
	}
}

func TestActiveWordOpacityFloor(t *testing.T) {
	classes := testClasses()
	// An animation that dims words to 0.2 cannot hide an active word.
	classes[style.ClassWordEnter] = anim.Animation{
		Duration:  0.2,
		Keyframes: fadeKeyframes(0.2, 0.2),
	}
	tl := NewTimeline(classes)
	seg := testSegment()

	word := seg.Words[0]
	tr := tl.WordTransform(word, 1.1, seg.Start, word.Index)
	if tr.Opacity != 0.5 {
		t.Errorf("active word opacity is %f, want floored at 0.5", tr.Opacity)
	}

	// The same animation state without an active window keeps its dimmed
	// opacity.
	tr = tl.WordTransform(word, 2.5, seg.Start, word.Index)
	if math.Abs(tr.Opacity-0.2) > 1e-9 {
		t.Errorf("inactive word opacity is %f, want 0.2", tr.Opacity)
	}
}
