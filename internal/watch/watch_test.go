package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mgpai22/substyle/internal/subtitle"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.srt")
	if err := os.WriteFile(path, []byte("1\n00:00:00,000 --> 00:00:01,000\nold\n"), 0644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan []subtitle.Cue, 4)
	w, err := New(path, func(cues []subtitle.Cue) { reloaded <- cues }, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	content := "1\n00:00:00,000 --> 00:00:01,000\nnew\n\n2\n00:00:02,000 --> 00:00:03,000\nmore\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case cues := <-reloaded:
		if len(cues) != 2 || cues[0].Text != "new" {
			t.Errorf("unexpected cues after reload: %+v", cues)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.srt")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan []subtitle.Cue, 1)
	w, err := New(path, func(cues []subtitle.Cue) { reloaded <- cues }, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "other.srt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	<-done
	select {
	case cues := <-reloaded:
		t.Errorf("unexpected reload: %+v", cues)
	default:
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "movie.srt"), func([]subtitle.Cue) {})
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
