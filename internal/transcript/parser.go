package transcript

import (
	"encoding/json"
	"fmt"
	"os"
)

// Wire formats. Transcription services disagree on the envelope: some emit a
// bare segment array, some wrap segments in a top-level object, and some nest
// everything under "transcription_data". All three are normalized to the one
// Segment/Word shape here, before the rendering core ever sees the data.

type wireWord struct {
	Text  string  `json:"text"`
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type wireSegment struct {
	Text  string     `json:"text"`
	Start float64    `json:"start"`
	End   float64    `json:"end"`
	Words []wireWord `json:"words"`
}

type wireTranscript struct {
	Segments []wireSegment `json:"segments"`
	Language string        `json:"language"`
}

type wireWrapped struct {
	TranscriptionData *wireTranscript `json:"transcription_data"`
}

// Load reads and decodes a transcript JSON file. The result is raw: callers
// must run Normalize before handing it to the caption resolver.
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: read %q: %w", path, err)
	}
	tr, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("transcript: parse %q: %w", path, err)
	}
	return tr, nil
}

// Decode parses transcript JSON in any of the supported shapes.
func Decode(data []byte) (*Transcript, error) {
	// Bare array of segments.
	var segments []wireSegment
	if err := json.Unmarshal(data, &segments); err == nil {
		return fromWire(&wireTranscript{Segments: segments}), nil
	}

	var wrapped wireWrapped
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.TranscriptionData != nil {
		return fromWire(wrapped.TranscriptionData), nil
	}

	var wire wireTranscript
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if wire.Segments == nil {
		return nil, fmt.Errorf("no segments found in any supported transcript shape")
	}
	return fromWire(&wire), nil
}

func fromWire(wire *wireTranscript) *Transcript {
	tr := &Transcript{Language: wire.Language}
	for i, ws := range wire.Segments {
		seg := Segment{
			Text:  ws.Text,
			Start: ws.Start,
			End:   ws.End,
			Index: i,
		}
		for j, ww := range ws.Words {
			text := ww.Text
			if text == "" {
				text = ww.Word
			}
			seg.Words = append(seg.Words, Word{
				Text:  text,
				Start: ww.Start,
				End:   ww.End,
				Index: j,
			})
		}
		tr.Segments = append(tr.Segments, seg)
	}
	return tr
}
