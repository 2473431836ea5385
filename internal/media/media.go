// Package media probes media files and pulls embedded subtitle streams out
// of them with ffmpeg.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// JSON output from ffprobe
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		Index     int    `json:"index"`
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// Info about a media file
type Info struct {
	Duration        time.Duration
	SubtitleStreams []string
}

// Probe returns the duration of an audio/video file
func Probe(ctx context.Context, path string) (time.Duration, error) {
	info, err := Inspect(ctx, path)
	if err != nil {
		return 0, err
	}
	return info.Duration, nil
}

// Inspect runs ffprobe and reports duration and subtitle stream codecs in
// stream order
func Inspect(ctx context.Context, path string) (*Info, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	ffprobePath, err := FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbe(out.Bytes())
}

func parseProbe(data []byte) (*Info, error) {
	var probe probeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duration: %w", err)
	}

	info := &Info{Duration: time.Duration(seconds * float64(time.Second))}
	for _, s := range probe.Streams {
		if s.CodecType == "subtitle" {
			info.SubtitleStreams = append(info.SubtitleStreams, s.CodecName)
		}
	}
	return info, nil
}

// ExtractSubtitles converts the stream-th subtitle stream of videoPath into
// an SRT file at outPath
func ExtractSubtitles(ctx context.Context, videoPath, outPath string, stream int) error {
	if stream < 0 {
		return fmt.Errorf("invalid subtitle stream %d", stream)
	}
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := FFmpegPath()
	if err != nil {
		return err
	}

	kwargs := ffmpeg.KwArgs{
		"map": fmt.Sprintf("0:s:%d", stream),
		"c:s": "srt",
	}

	cmd := ffmpeg.Input(videoPath).
		Output(outPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Compile()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := runContext(ctx, cmd); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("subtitle extraction failed: %w: %s", err, msg)
		}
		return fmt.Errorf("subtitle extraction failed: %w", err)
	}

	return nil
}

// runs cmd, killing it when ctx is cancelled
func runContext(ctx context.Context, cmd *exec.Cmd) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	}
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
