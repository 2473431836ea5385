package media

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestParseProbe(t *testing.T) {
	data := []byte(`{
		"streams": [
			{"index": 0, "codec_type": "video", "codec_name": "h264"},
			{"index": 1, "codec_type": "audio", "codec_name": "aac"},
			{"index": 2, "codec_type": "subtitle", "codec_name": "subrip"},
			{"index": 3, "codec_type": "subtitle", "codec_name": "ass"}
		],
		"format": {"duration": "125.500000"}
	}`)

	info, err := parseProbe(data)
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if info.Duration != 125500*time.Millisecond {
		t.Errorf("duration = %v, want 2m5.5s", info.Duration)
	}
	if len(info.SubtitleStreams) != 2 || info.SubtitleStreams[0] != "subrip" || info.SubtitleStreams[1] != "ass" {
		t.Errorf("subtitle streams = %v", info.SubtitleStreams)
	}
}

func TestParseProbeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "ffprobe: error"},
		{"missing duration", `{"format": {}}`},
		{"bad duration", `{"format": {"duration": "N/A"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseProbe([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestResolve(t *testing.T) {
	env := map[string]string{"SUBSTYLE_FFMPEG_PATH": "/opt/ffmpeg"}
	getenv := func(k string) string { return env[k] }
	lookPath := func(name string) (string, error) { return "/usr/bin/" + name, nil }

	path, err := resolve("ffmpeg", "SUBSTYLE_FFMPEG_PATH", getenv, lookPath)
	if err != nil || path != "/opt/ffmpeg" {
		t.Errorf("ffmpeg = %q, %v, want /opt/ffmpeg", path, err)
	}
	path, err = resolve("ffprobe", "SUBSTYLE_FFPROBE_PATH", getenv, lookPath)
	if err != nil || path != "/usr/bin/ffprobe" {
		t.Errorf("ffprobe = %q, %v, want /usr/bin/ffprobe", path, err)
	}

	missing := func(string) (string, error) { return "", errors.New("not in PATH") }
	if _, err := resolve("ffprobe", "SUBSTYLE_FFPROBE_PATH", getenv, missing); !errors.Is(err, ErrBinaryNotFound) {
		t.Errorf("expected ErrBinaryNotFound, got %v", err)
	}
}

func TestResolveFFprobeWithoutFFmpeg(t *testing.T) {
	getenv := func(string) string { return "" }
	onlyProbe := func(name string) (string, error) {
		if name == "ffprobe" {
			return "/usr/bin/ffprobe", nil
		}
		return "", errors.New("not in PATH")
	}

	path, err := resolve("ffprobe", "SUBSTYLE_FFPROBE_PATH", getenv, onlyProbe)
	if err != nil || path != "/usr/bin/ffprobe" {
		t.Errorf("ffprobe = %q, %v, want /usr/bin/ffprobe", path, err)
	}
	if _, err := resolve("ffmpeg", "SUBSTYLE_FFMPEG_PATH", getenv, onlyProbe); !errors.Is(err, ErrBinaryNotFound) {
		t.Errorf("expected ErrBinaryNotFound for ffmpeg, got %v", err)
	}
}

func TestMissingInputs(t *testing.T) {
	ctx := context.Background()
	missing := filepath.Join(t.TempDir(), "missing.mkv")

	if _, err := Probe(ctx, missing); err == nil {
		t.Error("expected error probing a missing file")
	}
	if err := ExtractSubtitles(ctx, missing, filepath.Join(t.TempDir(), "out.srt"), 0); err == nil {
		t.Error("expected error extracting from a missing file")
	}
	if err := ExtractSubtitles(ctx, missing, "out.srt", -1); err == nil {
		t.Error("expected error for negative stream")
	}
}
