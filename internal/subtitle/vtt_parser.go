package subtitle

import (
	"strings"
)

// ParseVTT decodes WebVTT text into cues. Like Parse it is lenient: NOTE,
// STYLE and REGION blocks are ignored and blocks without a usable timing
// line are reported and dropped. Cue identifiers are optional in WebVTT, so
// ids are assigned sequentially.
func ParseVTT(content string) ParseReport {
	report := ParseReport{Cues: []Cue{}}
	entryIndex := 0

	for n, b := range splitBlocks(content) {
		blockNum := n + 1
		first := strings.TrimSpace(b.lines[0])

		if n == 0 && strings.HasPrefix(first, "WEBVTT") {
			continue
		}
		if strings.HasPrefix(first, "NOTE") ||
			strings.HasPrefix(first, "STYLE") ||
			strings.HasPrefix(first, "REGION") {
			continue
		}

		timingIdx := -1
		for i, line := range b.lines {
			if strings.Contains(line, "-->") {
				timingIdx = i
				break
			}
		}
		if timingIdx == -1 || timingIdx > 1 {
			report.skip(blockNum, b.line, "missing --> separator")
			continue
		}

		start, end, reason := parseVTTTimingLine(b.lines[timingIdx])
		if reason != "" {
			report.skip(blockNum, b.line+timingIdx, reason)
			continue
		}

		text := strings.TrimSpace(strings.Join(b.lines[timingIdx+1:], "\n"))
		if text == "" {
			report.skip(blockNum, b.line, "empty cue text")
			continue
		}

		entryIndex++
		report.Cues = append(report.Cues, Cue{
			ID:        entryIndex,
			StartTime: start,
			EndTime:   end,
			Text:      text,
		})
	}

	return report
}

func parseVTTTimingLine(line string) (int64, int64, string) {
	startStr, rest, _ := strings.Cut(line, "-->")
	endFields := strings.Fields(rest)
	if strings.TrimSpace(startStr) == "" || len(endFields) == 0 {
		return 0, 0, "missing start or end timestamp"
	}

	start, err := decodeVTTTimestamp(startStr)
	if err != nil {
		return 0, 0, "invalid start timestamp"
	}
	end, err := decodeVTTTimestamp(endFields[0])
	if err != nil {
		return 0, 0, "invalid end timestamp"
	}
	return start, end, ""
}

// WebVTT allows the hour field to be omitted (MM:SS.mmm)
func decodeVTTTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ":") == 1 {
		s = "00:" + s
	}
	return DecodeTimestamp(s)
}
