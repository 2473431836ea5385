package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgpai22/substyle/internal/config"
	"github.com/mgpai22/substyle/internal/cuesync"
	"github.com/mgpai22/substyle/internal/subtitle"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:02,500
Hello

2
00:00:03,000 --> 00:00:04,000
Two
lines

bad
00:00:05,000 --> 00:00:06,000
dropped
`

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseTimeArg(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"0", 0, false},
		{"61500", 61500, false},
		{"00:01:01,500", 61500, false},
		{"01:00:00.250", 3600250, false},
		{"1m1.5s", 61500, false},
		{" 42 ", 42, false},
		{"-5s", -5000, false},
		{"soon", 0, true},
		{"1:2", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimeArg(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTimeArg(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseTimeArg(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    subtitle.Format
		wantErr bool
	}{
		{"srt", subtitle.FormatSRT, false},
		{"VTT", subtitle.FormatVTT, false},
		{"ssa", subtitle.FormatASS, false},
		{" ass ", subtitle.FormatASS, false},
		{"json", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLookupTimes(t *testing.T) {
	engine := cuesync.New(subtitle.Parse(sampleSRT))

	var buf bytes.Buffer
	if err := lookupTimes(&buf, engine, []int64{1500, 2700, 3000, 1000}); err != nil {
		t.Fatal(err)
	}

	want := "00:00:01,500  #1  Hello\n" +
		"00:00:02,700  -\n" +
		"00:00:03,000  #2  Two / lines\n" +
		"00:00:01,000  #1  Hello\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}

	if err := lookupTimes(&buf, engine, []int64{-1}); err == nil {
		t.Error("expected error for negative time")
	}
}

func TestLastEnd(t *testing.T) {
	cues := []subtitle.Cue{
		{StartTime: 0, EndTime: 9000},
		{StartTime: 1000, EndTime: 2000},
	}
	if got := lastEnd(cues); got != 9000 {
		t.Errorf("lastEnd = %d, want 9000", got)
	}
	if got := lastEnd(nil); got != 0 {
		t.Errorf("lastEnd(nil) = %d, want 0", got)
	}
}

func TestCuesCommand(t *testing.T) {
	path := writeSample(t, "movie.srt", sampleSRT)

	stdout, stderr, err := executeCommand(t, "cues", path, "--skipped")
	if err != nil {
		t.Fatalf("cues failed: %v", err)
	}

	want := "   1  00:00:01,000 --> 00:00:02,500  Hello\n" +
		"   2  00:00:03,000 --> 00:00:04,000  Two / lines\n"
	if stdout != want {
		t.Errorf("stdout =\n%s\nwant\n%s", stdout, want)
	}
	if !strings.Contains(stderr, "skipped block 3") || !strings.Contains(stderr, "invalid cue id") {
		t.Errorf("stderr missing skipped block: %q", stderr)
	}
}

func TestConvertCommand(t *testing.T) {
	path := writeSample(t, "movie.srt", sampleSRT)
	out := filepath.Join(t.TempDir(), "movie.vtt")

	if _, _, err := executeCommand(t, "convert", path, "-o", out); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT") {
		t.Errorf("output is not WebVTT: %q", data)
	}

	report := subtitle.ParseVTT(string(data))
	if len(report.Cues) != 2 || report.Cues[1].Text != "Two\nlines" {
		t.Errorf("converted cues = %+v", report.Cues)
	}
}

func TestPlayCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, "movie.srt", "1\n00:00:00,000 --> 00:01:00,000\nfirst\n")

	cacheDir := filepath.Join(dir, "cache")
	configPath := filepath.Join(dir, "config.yaml")
	yamlConfig := "cache:\n  backend: file\n  ttl: 1d\n  dir: " + cacheDir + "\n"
	if err := os.WriteFile(configPath, []byte(yamlConfig), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := executeCommand(t,
		"--config", configPath,
		"play", path,
		"--rate", "100",
		"--interval", "5ms",
		"--video-id", "abc123",
	)
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}

	if !strings.Contains(stdout, "] first\n") {
		t.Errorf("cue never rendered: %q", stdout)
	}
	if !strings.HasSuffix(stdout, "] -\n") {
		t.Errorf("overlay not cleared at end: %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "sub_abc123.json")); err != nil {
		t.Errorf("subtitles were not cached: %v", err)
	}
}

func TestExtractMissingVideo(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.mkv")
	if _, _, err := executeCommand(t, "extract", missing, "-f", "vtt"); err == nil {
		t.Error("expected error for missing video")
	}
}

func TestLookupCommandNegativeTime(t *testing.T) {
	path := writeSample(t, "movie.srt", sampleSRT)

	_, _, err := executeCommand(t, "lookup", path, "--", "1500", "-5")
	if !errors.Is(err, cuesync.ErrNegativeTime) {
		t.Errorf("lookup error = %v, want ErrNegativeTime", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	configPath := filepath.Join(dir, "config.yaml")
	yamlConfig := "cache:\n  backend: file\n  ttl: 1h\n  dir: " + cacheDir + "\n"
	if err := os.WriteFile(configPath, []byte(yamlConfig), 0644); err != nil {
		t.Fatal(err)
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		t.Fatal(err)
	}
	stale := `{"video_id":"old","content":"x","created_at":"2020-01-01T00:00:00Z","expires_at":"2020-01-02T00:00:00Z"}`
	if err := os.WriteFile(filepath.Join(cacheDir, "sub_old.json"), []byte(stale), 0644); err != nil {
		t.Fatal(err)
	}
	fresh := `{"video_id":"new","content":"x","created_at":"2020-01-01T00:00:00Z"}`
	if err := os.WriteFile(filepath.Join(cacheDir, "sub_new.json"), []byte(fresh), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := executeCommand(t, "--config", configPath, "cache", "clean")
	if err != nil {
		t.Fatalf("cache clean failed: %v", err)
	}
	if stdout != "Removed 1 expired entries\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "sub_old.json")); !os.IsNotExist(err) {
		t.Errorf("expired entry still present: %v", err)
	}

	if _, _, err := executeCommand(t, "--config", configPath, "cache", "delete", "new"); err != nil {
		t.Fatalf("cache delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "sub_new.json")); !os.IsNotExist(err) {
		t.Errorf("deleted entry still present: %v", err)
	}

	if _, _, err := executeCommand(t, "--config", configPath, "cache", "delete", "../x"); err == nil {
		t.Error("expected error for invalid video id")
	}
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	t.Cleanup(func() { _ = configInitCmd.Flags().Set("force", "false") })

	if _, _, err := executeCommand(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if loaded.Cache.Backend != config.CacheBackendFile {
		t.Errorf("cache backend = %q, want file", loaded.Cache.Backend)
	}

	if _, _, err := executeCommand(t, "--config", path, "config", "init"); err == nil {
		t.Error("expected error when config already exists")
	}
	if _, _, err := executeCommand(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force failed: %v", err)
	}
}
