package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// interface for writing cue collections
type Writer interface {
	Write(cues []Cue, w io.Writer) error
}

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// Advanced SubStation Alpha format
type ASSWriter struct {
	Title    string
	FontName string
	FontSize int
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatASS:
		return &ASSWriter{
			Title:    "SubStyle Subtitles",
			FontName: "Arial",
			FontSize: 20,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes cues as SRT. Ids are renumbered from 1 in slice order and cues
// with no visible text are left out.
func (w *SRTWriter) Write(cues []Cue, out io.Writer) error {
	bw := bufio.NewWriter(out)
	n := 0
	for _, cue := range cues {
		body := blockText(cue.Text)
		if body == "" {
			continue
		}
		n++
		fmt.Fprintf(bw, "%d\n", n)
		fmt.Fprintf(bw, "%s --> %s\n",
			FormatSRTTimestamp(cue.StartTime),
			FormatSRTTimestamp(cue.EndTime))
		bw.WriteString(body)
		bw.WriteString("\n\n")
	}
	return bw.Flush()
}

// writes cues as WebVTT
func (w *VTTWriter) Write(cues []Cue, out io.Writer) error {
	bw := bufio.NewWriter(out)
	bw.WriteString("WEBVTT\n\n")
	n := 0
	for _, cue := range cues {
		body := blockText(cue.Text)
		if body == "" {
			continue
		}
		n++
		fmt.Fprintf(bw, "%d\n", n)
		fmt.Fprintf(bw, "%s --> %s\n",
			formatVTTTimestamp(cue.StartTime),
			formatVTTTimestamp(cue.EndTime))
		bw.WriteString(body)
		bw.WriteString("\n\n")
	}
	return bw.Flush()
}

// blank lines end a block in SRT and WebVTT, so they are dropped from the text
func blockText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// writes cues as an ASS script with a single Default style
func (w *ASSWriter) Write(cues []Cue, out io.Writer) error {
	bw := bufio.NewWriter(out)

	// script info section
	bw.WriteString("[Script Info]\n")
	fmt.Fprintf(bw, "Title: %s\n", w.Title)
	bw.WriteString("ScriptType: v4.00+\n")
	bw.WriteString("Collisions: Normal\n")
	bw.WriteString("PlayDepth: 0\n\n")

	// v4+ styles section
	bw.WriteString("[V4+ Styles]\n")
	bw.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(bw, "Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		w.FontName, w.FontSize)

	// events section
	bw.WriteString("[Events]\n")
	bw.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, cue := range cues {
		fmt.Fprintf(bw, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatASSTimestamp(cue.StartTime),
			formatASSTimestamp(cue.EndTime),
			escapeASSText(cue.Text))
	}

	return bw.Flush()
}

func escapeASSText(text string) string {
	return strings.ReplaceAll(text, "\n", "\\N")
}

// FormatCues renders cues in the given format as a string
func FormatCues(format Format, cues []Cue) (string, error) {
	writer, err := NewWriter(format)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := writer.Write(cues, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteFile writes cues to path in the given format, creating parent dirs
func WriteFile(format Format, cues []Cue, path string) error {
	writer, err := NewWriter(format)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create subtitle file: %w", err)
	}

	if err := writer.Write(cues, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return file.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".ass", ".ssa":
		return FormatASS
	case ".json":
		return FormatTranscript
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	case FormatTranscript:
		return ".json"
	default:
		return ".srt"
	}
}
