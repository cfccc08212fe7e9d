package transcript

// Word is a single timed word inside a segment. Immutable after
// normalization.
type Word struct {
	Text  string
	Start float64 // seconds
	End   float64 // seconds
	Index int
}

// Duration returns the word duration in seconds.
func (w Word) Duration() float64 {
	return w.End - w.Start
}

// Active reports whether t falls inside the word's own timing window,
// inclusive of both bounds.
func (w Word) Active(t float64) bool {
	return t >= w.Start && t <= w.End
}

// Segment is a contiguous transcript span with its ordered words. Immutable
// after normalization; segments are ordered by Start across the transcript.
type Segment struct {
	Text  string
	Start float64
	End   float64
	Words []Word
	Index int
}

// Duration returns the segment duration in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Active reports whether t falls inside the segment window, inclusive.
func (s Segment) Active(t float64) bool {
	return t >= s.Start && t <= s.End
}

// Transcript is the normalized transcript the rendering core consumes.
type Transcript struct {
	Segments []Segment
	Language string
}

// Duration returns the largest segment end time, or 0 for an empty
// transcript.
func (t *Transcript) Duration() float64 {
	max := 0.0
	for _, s := range t.Segments {
		if s.End > max {
			max = s.End
		}
	}
	return max
}
