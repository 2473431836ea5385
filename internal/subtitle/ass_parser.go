package subtitle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrASSMissingFormat = errors.New("ASS file missing Format line in [Events] section")
	ErrASSMissingText   = errors.New("ASS file missing Text column in Format line")
)

var leadingTagsRegex = regexp.MustCompile(`^(\{[^}]*\})+`)

// column layout of the [Events] section
type assFormat struct {
	columns  []string
	startIdx int
	endIdx   int
	textIdx  int
}

func newASSFormat(line string) assFormat {
	f := assFormat{startIdx: -1, endIdx: -1, textIdx: -1}

	formatPart := strings.TrimPrefix(strings.TrimSpace(line), "Format:")
	for i, col := range strings.Split(formatPart, ",") {
		col = strings.TrimSpace(col)
		f.columns = append(f.columns, col)
		switch strings.ToLower(col) {
		case "start":
			f.startIdx = i
		case "end":
			f.endIdx = i
		case "text":
			f.textIdx = i
		}
	}
	return f
}

// ParseASS decodes the [Events] section of an ASS/SSA script into cues.
// A script without a usable Format line is an error; individual Dialogue
// lines that cannot be decoded are reported and dropped.
func ParseASS(content string) (ParseReport, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	report := ParseReport{Cues: []Cue{}}
	inEventsSection := false
	var format *assFormat
	dialogueNum := 0

	for i, line := range strings.Split(content, "\n") {
		lineNum := i + 1
		trimmedLine := strings.TrimSpace(line)

		if strings.HasPrefix(trimmedLine, "[") &&
			strings.HasSuffix(trimmedLine, "]") {
			sectionName := strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmedLine, "["), "]"),
			)
			inEventsSection = sectionName == "events"
			continue
		}

		if !inEventsSection {
			continue
		}

		if strings.HasPrefix(trimmedLine, "Format:") {
			f := newASSFormat(trimmedLine)
			if f.textIdx == -1 {
				return report, ErrASSMissingText
			}
			format = &f
			continue
		}

		if !strings.HasPrefix(trimmedLine, "Dialogue:") {
			continue
		}

		dialogueNum++
		if format == nil {
			return report, ErrASSMissingFormat
		}

		cue, err := format.parseDialogue(trimmedLine)
		if err != nil {
			report.skip(dialogueNum, lineNum, err.Error())
			continue
		}
		if cue.Text == "" {
			report.skip(dialogueNum, lineNum, "empty cue text")
			continue
		}
		cue.ID = len(report.Cues) + 1
		report.Cues = append(report.Cues, cue)
	}

	if format == nil {
		return report, ErrASSMissingFormat
	}

	return report, nil
}

func (f assFormat) parseDialogue(line string) (Cue, error) {
	content := strings.TrimSpace(strings.TrimPrefix(line, "Dialogue:"))

	parts := splitASSFields(content, len(f.columns))
	if len(parts) < len(f.columns) {
		return Cue{}, fmt.Errorf(
			"expected %d fields, got %d",
			len(f.columns),
			len(parts),
		)
	}
	if f.startIdx < 0 || f.endIdx < 0 {
		return Cue{}, fmt.Errorf("format has no Start/End columns")
	}

	start, err := parseASSTimestamp(parts[f.startIdx])
	if err != nil {
		return Cue{}, fmt.Errorf("invalid start timestamp")
	}
	end, err := parseASSTimestamp(parts[f.endIdx])
	if err != nil {
		return Cue{}, fmt.Errorf("invalid end timestamp")
	}

	_, text := extractLeadingTags(parts[f.textIdx])
	text = strings.ReplaceAll(text, "\\N", "\n")
	text = strings.ReplaceAll(text, "\\n", "\n")

	return Cue{
		StartTime: start,
		EndTime:   end,
		Text:      strings.TrimSpace(text),
	}, nil
}

// the Text column is last and may itself contain commas
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	parts := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			parts = append(parts, remaining)
			remaining = ""
			break
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	if len(parts) == numFields-1 {
		parts = append(parts, remaining)
	}

	return parts
}

func extractLeadingTags(text string) (string, string) {
	match := leadingTagsRegex.FindString(text)
	if match == "" {
		return "", text
	}
	return match, text[len(match):]
}

// H:MM:SS.cc
func parseASSTimestamp(ts string) (int64, error) {
	ts = strings.TrimSpace(ts)
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, ErrInvalidTimestamp
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, ErrInvalidTimestamp
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 {
		return 0, ErrInvalidTimestamp
	}

	secParts := strings.Split(parts[2], ".")
	if len(secParts) != 2 {
		return 0, ErrInvalidTimestamp
	}

	seconds, err := strconv.Atoi(secParts[0])
	if err != nil || seconds < 0 {
		return 0, ErrInvalidTimestamp
	}

	centis, err := strconv.Atoi(secParts[1])
	if err != nil || centis < 0 {
		return 0, ErrInvalidTimestamp
	}

	return int64(hours)*msPerHour +
		int64(minutes)*msPerMinute +
		int64(seconds)*msPerSecond +
		int64(centis)*10, nil
}
