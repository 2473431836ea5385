package subtitle

import (
	"testing"
)

func TestFromTranscript(t *testing.T) {
	lines := []TranscriptLine{
		{StartTime: 0, Text: "Hello"},
		{StartTime: 1500, Text: "  world  "},
		{StartTime: 4000, Text: "Goodbye"},
	}

	cues := FromTranscript(lines)
	want := []Cue{
		{ID: 1, StartTime: 0, EndTime: 1500, Text: "Hello"},
		{ID: 2, StartTime: 1500, EndTime: 4000, Text: "world"},
		{ID: 3, StartTime: 4000, EndTime: 6000, Text: "Goodbye"},
	}

	if len(cues) != len(want) {
		t.Fatalf("expected %d cues, got %d", len(want), len(cues))
	}
	for i := range want {
		if cues[i] != want[i] {
			t.Errorf("cue %d: got %+v, want %+v", i, cues[i], want[i])
		}
	}
}

func TestFromTranscriptBlankLines(t *testing.T) {
	lines := []TranscriptLine{
		{StartTime: 0, Text: "First"},
		{StartTime: 1000, Text: "   "},
		{StartTime: 3000, Text: "Last"},
	}

	cues := FromTranscript(lines)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].EndTime != 1000 {
		t.Errorf("blank line should still bound previous cue: end %d", cues[0].EndTime)
	}
	if cues[1].ID != 2 || cues[1].EndTime != 5000 {
		t.Errorf("cue 1: got %+v", cues[1])
	}
}

func TestFromTranscriptEmpty(t *testing.T) {
	cues := FromTranscript(nil)
	if cues == nil || len(cues) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", cues)
	}
}

func TestParseTranscriptJSON(t *testing.T) {
	data := []byte(`[
		{"timestamp": "0:01", "text": "One"},
		{"startTime": 2500, "text": "Two"},
		{"timestamp": "bogus", "text": "Skipped"},
		{"text": "No time"},
		{"timestamp": "1:00", "text": "Three"}
	]`)

	cues, err := ParseTranscriptJSON(data)
	if err != nil {
		t.Fatalf("ParseTranscriptJSON failed: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d: %+v", len(cues), cues)
	}
	if cues[0].StartTime != 1000 || cues[0].EndTime != 2500 {
		t.Errorf("cue 0: got %+v", cues[0])
	}
	if cues[1].EndTime != 60000 {
		t.Errorf("cue 1: expected end 60000, got %d", cues[1].EndTime)
	}
	if cues[2].EndTime != 62000 {
		t.Errorf("cue 2: expected end 62000, got %d", cues[2].EndTime)
	}
}

func TestParseTranscriptJSONInvalid(t *testing.T) {
	if _, err := ParseTranscriptJSON([]byte(`{"not": "an array"}`)); err == nil {
		t.Error("expected error for non-array JSON")
	}
}
