package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// cue collection loaded from one subtitle source
type Source struct {
	Path    string
	Format  Format
	Cues    []Cue
	Skipped []SkippedBlock
}

// Open reads a subtitle file and decodes it according to its extension.
// Malformed blocks inside the file are dropped and listed in Skipped; only
// I/O failures, unknown extensions and structurally unreadable files are
// errors.
func Open(path string) (*Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt", ".vtt", ".ass", ".ssa", ".json":
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	src, err := Decode(GetFormatFromExtension(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src.Path = path
	return src, nil
}

// Decode parses raw subtitle data of a known format
func Decode(format Format, data []byte) (*Source, error) {
	src := &Source{Format: format}

	switch format {
	case FormatSRT:
		report := ParseWithReport(string(data))
		src.Cues, src.Skipped = report.Cues, report.Skipped
	case FormatVTT:
		report := ParseVTT(string(data))
		src.Cues, src.Skipped = report.Cues, report.Skipped
	case FormatASS:
		report, err := ParseASS(string(data))
		if err != nil {
			return nil, err
		}
		src.Cues, src.Skipped = report.Cues, report.Skipped
	case FormatTranscript:
		cues, err := ParseTranscriptJSON(data)
		if err != nil {
			return nil, err
		}
		src.Cues = cues
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", format)
	}

	return src, nil
}
