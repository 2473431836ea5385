package subtitle

import (
	"strconv"
	"strings"
)

// run of non-blank lines; line is the 1-based source line of lines[0]
type block struct {
	line  int
	lines []string
}

// splits content into blocks separated by one or more blank lines.
// Handles a leading BOM and CRLF line endings.
func splitBlocks(content string) []block {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var blocks []block
	var current *block

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			if current != nil {
				blocks = append(blocks, *current)
				current = nil
			}
			continue
		}
		if current == nil {
			current = &block{line: i + 1}
		}
		current.lines = append(current.lines, line)
	}
	if current != nil {
		blocks = append(blocks, *current)
	}

	return blocks
}

// Parse decodes SRT text into cues in source order. Malformed blocks are
// dropped; Parse never fails.
func Parse(content string) []Cue {
	return ParseWithReport(content).Cues
}

// ParseWithReport is Parse plus the list of dropped blocks and why.
func ParseWithReport(content string) ParseReport {
	report := ParseReport{Cues: []Cue{}}

	for n, b := range splitBlocks(content) {
		blockNum := n + 1

		if len(b.lines) < 3 {
			report.skip(blockNum, b.line, "fewer than 3 lines")
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(b.lines[0]))
		if err != nil {
			report.skip(blockNum, b.line, "invalid cue id")
			continue
		}

		start, end, reason := parseTimingLine(b.lines[1])
		if reason != "" {
			report.skip(blockNum, b.line+1, reason)
			continue
		}

		report.Cues = append(report.Cues, Cue{
			ID:        id,
			StartTime: start,
			EndTime:   end,
			Text:      strings.TrimSpace(strings.Join(b.lines[2:], "\n")),
		})
	}

	return report
}

// parses "start --> end [settings]"; a non-empty reason means the line was rejected
func parseTimingLine(line string) (int64, int64, string) {
	startStr, rest, found := strings.Cut(line, "-->")
	if !found {
		return 0, 0, "missing --> separator"
	}

	endFields := strings.Fields(rest)
	if strings.TrimSpace(startStr) == "" || len(endFields) == 0 {
		return 0, 0, "missing start or end timestamp"
	}

	start, err := DecodeTimestamp(startStr)
	if err != nil {
		return 0, 0, "invalid start timestamp"
	}
	end, err := DecodeTimestamp(endFields[0])
	if err != nil {
		return 0, 0, "invalid end timestamp"
	}

	return start, end, ""
}
