package subtitle

// single timed subtitle entry, times in milliseconds from media start
type Cue struct {
	ID        int    `json:"id"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
	Text      string `json:"text"`
}

// reports whether ms falls inside [StartTime, EndTime], inclusive at both ends.
// A cue with EndTime < StartTime contains nothing.
func (c Cue) Contains(ms int64) bool {
	return ms >= c.StartTime && ms <= c.EndTime
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT        Format = "srt"
	FormatVTT        Format = "vtt"
	FormatASS        Format = "ass"
	FormatTranscript Format = "transcript"
)

// block dropped by a lenient parser, with the reason it was dropped
type SkippedBlock struct {
	Block  int    `json:"block"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// result of a lenient parse: the cues that survived plus diagnostics
type ParseReport struct {
	Cues    []Cue
	Skipped []SkippedBlock
}

func (r *ParseReport) skip(block, line int, reason string) {
	r.Skipped = append(r.Skipped, SkippedBlock{
		Block:  block,
		Line:   line,
		Reason: reason,
	})
}
