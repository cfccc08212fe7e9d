package caption

import (
	"math"
	"testing"

	"github.com/ivlev/capmotion/internal/transcript"
)

func TestStatesAtNoActiveSegment(t *testing.T) {
	r := NewResolver([]transcript.Segment{testSegment()}, testClasses())

	if states := r.StatesAt(0.5); len(states) != 0 {
		t.Errorf("got %d states before the segment, want 0", len(states))
	}
	if states := r.StatesAt(3.5); len(states) != 0 {
		t.Errorf("got %d states after the segment, want 0", len(states))
	}
}

func TestStatesAtInclusiveBounds(t *testing.T) {
	r := NewResolver([]transcript.Segment{testSegment()}, testClasses())

	for _, now := range []float64{1.0, 3.0} {
		states := r.StatesAt(now)
		if len(states) != 1 {
			t.Errorf("at t=%f got %d states, want 1", now, len(states))
		}
	}
}

func TestStatesAtResolvesWords(t *testing.T) {
	r := NewResolver([]transcript.Segment{testSegment()}, testClasses())

	states := r.StatesAt(1.15)
	if len(states) != 1 {
		t.Fatalf("got %d states, want 1", len(states))
	}
	state := states[0]

	if math.Abs(state.Container.Opacity-0.5) > 1e-9 {
		t.Errorf("container opacity = %f, want 0.5", state.Container.Opacity)
	}
	if len(state.Words) != 2 {
		t.Fatalf("got %d word states, want 2", len(state.Words))
	}
	if state.Words[0].Word.Text != "hello" || state.Words[1].Word.Text != "world" {
		t.Errorf("word order broken: %q, %q", state.Words[0].Word.Text, state.Words[1].Word.Text)
	}

	// Word 0 started animating at 1.0: progress (0.15)/0.2 = 0.75.
	if math.Abs(state.Words[0].Transform.Opacity-0.75) > 1e-9 {
		t.Errorf("word 0 opacity = %f, want 0.75", state.Words[0].Transform.Opacity)
	}
	// Word 1 staggered to 1.1: progress (0.05)/0.2 = 0.25.
	if math.Abs(state.Words[1].Transform.Opacity-0.25) > 1e-9 {
		t.Errorf("word 1 opacity = %f, want 0.25", state.Words[1].Transform.Opacity)
	}
}

func TestStatesAtOverlappingSegments(t *testing.T) {
	a := testSegment()
	b := testSegment()
	b.Start, b.End = 2, 4
	b.Index = 1
	for i := range b.Words {
		b.Words[i].Start += 1
		b.Words[i].End += 1
	}

	r := NewResolver([]transcript.Segment{a, b}, testClasses())
	states := r.StatesAt(2.5)
	if len(states) != 2 {
		t.Fatalf("got %d states in the overlap, want 2", len(states))
	}
	if states[0].Segment.Index != 0 || states[1].Segment.Index != 1 {
		t.Error("overlapping segments out of original order")
	}
}

func TestResolverDuration(t *testing.T) {
	r := NewResolver(nil, testClasses())
	if d := r.Duration(); d != 0 {
		t.Errorf("empty resolver duration = %f", d)
	}

	a := testSegment()
	b := testSegment()
	b.End = 7
	r = NewResolver([]transcript.Segment{a, b}, testClasses())
	if d := r.Duration(); d != 7 {
		t.Errorf("duration = %f, want 7", d)
	}
}
