package subtitle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// transcripts carry no end time; the last line is shown this long
const DefaultTranscriptCueDuration int64 = 2000

// one line of a third-party transcript: start time only
type TranscriptLine struct {
	StartTime int64
	Text      string
}

// FromTranscript synthesizes cues from transcript lines given in increasing
// time order. Each cue ends where the next line starts; the final one ends
// DefaultTranscriptCueDuration after its start. Blank lines still bound the
// previous cue's end but produce no cue themselves.
func FromTranscript(lines []TranscriptLine) []Cue {
	cues := make([]Cue, 0, len(lines))

	for i, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		end := line.StartTime + DefaultTranscriptCueDuration
		if i+1 < len(lines) {
			end = lines[i+1].StartTime
		}

		cues = append(cues, Cue{
			ID:        len(cues) + 1,
			StartTime: line.StartTime,
			EndTime:   end,
			Text:      text,
		})
	}

	return cues
}

type transcriptEntry struct {
	StartTime *int64 `json:"startTime"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// ParseTranscriptJSON reads an exported transcript, a JSON array whose
// entries carry either "startTime" in milliseconds or a "timestamp" such as
// "1:23", and converts it with FromTranscript. Entries without a usable
// time are skipped.
func ParseTranscriptJSON(data []byte) ([]Cue, error) {
	var entries []transcriptEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse transcript JSON: %w", err)
	}

	lines := make([]TranscriptLine, 0, len(entries))
	for _, e := range entries {
		var start int64
		switch {
		case e.StartTime != nil:
			if *e.StartTime < 0 {
				continue
			}
			start = *e.StartTime
		case e.Timestamp != "":
			ms, err := DecodeTranscriptTimestamp(e.Timestamp)
			if err != nil {
				continue
			}
			start = ms
		default:
			continue
		}
		lines = append(lines, TranscriptLine{StartTime: start, Text: e.Text})
	}

	return FromTranscript(lines), nil
}
