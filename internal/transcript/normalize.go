package transcript

import (
	"fmt"
	"log/slog"
	"sort"
)

// minWordDuration widens zero-duration words so every word has a non-empty
// timing window.
const minWordDuration = 0.01

// Normalize repairs common timing defects in place and orders segments by
// start time. Defects that can be repaired are logged as warnings; a
// transcript left with no usable segments is an input error.
//
// Repairs, in order: negative segment starts clamp to 0; segments without
// words are dropped; inverted segment ranges are rebuilt from word timings
// (or widened by 0.1s when the words are no help); inverted word ranges are
// reset to start+0.01; zero-duration words are widened by 0.01s; segments
// grow to cover their words.
func Normalize(tr *Transcript, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if len(tr.Segments) == 0 {
		return fmt.Errorf("transcript: no segments")
	}

	valid := tr.Segments[:0]
	for i := range tr.Segments {
		seg := tr.Segments[i]

		if seg.Start < 0 {
			logger.Warn("segment has negative start, clamping to 0", "segment", i)
			seg.Start = 0
		}
		if len(seg.Words) == 0 {
			logger.Warn("segment has no words, dropping", "segment", i)
			continue
		}

		if seg.End <= seg.Start {
			seg.Start = seg.Words[0].Start
			seg.End = seg.Words[0].End
			for _, w := range seg.Words {
				if w.Start < seg.Start {
					seg.Start = w.Start
				}
				if w.End > seg.End {
					seg.End = w.End
				}
			}
			if seg.End <= seg.Start {
				seg.End = seg.Start + 0.1
			}
			logger.Warn("segment had inverted time range, rebuilt from words",
				"segment", i, "start", seg.Start, "end", seg.End)
		}

		for j := range seg.Words {
			w := &seg.Words[j]
			if w.End < w.Start {
				logger.Warn("word has inverted time range, fixing",
					"segment", i, "word", j)
				w.End = w.Start + minWordDuration
			} else if w.End == w.Start {
				w.End = w.Start + minWordDuration
				if w.End > seg.End && seg.End > w.Start {
					w.End = seg.End
				}
			}
			if w.Start < seg.Start {
				seg.Start = w.Start
			}
			if w.End > seg.End {
				seg.End = w.End
			}
			w.Index = j
		}

		valid = append(valid, seg)
	}
	tr.Segments = valid

	if len(tr.Segments) == 0 {
		return fmt.Errorf("transcript: no valid segments after normalization")
	}

	sort.SliceStable(tr.Segments, func(a, b int) bool {
		return tr.Segments[a].Start < tr.Segments[b].Start
	})
	for i := range tr.Segments {
		tr.Segments[i].Index = i
	}
	return nil
}
