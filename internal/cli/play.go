package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mgpai22/substyle/internal/cache"
	"github.com/mgpai22/substyle/internal/media"
	"github.com/mgpai22/substyle/internal/playback"
	"github.com/mgpai22/substyle/internal/subtitle"
	"github.com/mgpai22/substyle/internal/watch"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [subtitle_file]",
	Short: "Play subtitles against a simulated media clock",
	Long: `Play subtitles in real time, printing each cue as it becomes active.

The subtitle source is the given file, the cache entry for --video-id, or
a subtitle stream extracted from --media. When --media is set, playback
stops at the media's duration; otherwise it stops after the last cue.

With --watch, edits to the subtitle file are picked up while playing.

Examples:
  substyle play movie.srt
  substyle play movie.srt --start 00:10:00,000 --rate 2
  substyle play --media movie.mkv --subtitle-stream 1
  substyle play movie.srt --video-id dQw4w9WgXcQ --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().String("start", "0", "Start position (ms, HH:MM:SS,mmm or duration)")
	playCmd.Flags().Float64("rate", 1, "Playback speed multiplier")
	playCmd.Flags().String("media", "", "Media file used for duration and embedded subtitles")
	playCmd.Flags().Int("subtitle-stream", 0, "Subtitle stream index to extract from --media")
	playCmd.Flags().Bool("watch", false, "Reload the subtitle file when it changes")
	playCmd.Flags().String("video-id", "", "Video id used to read and write the subtitle cache")
	playCmd.Flags().Duration("interval", 0, "Poll interval (default from config)")
	playCmd.Flags().String("preset", "", "Style preset passed to the renderer (default from config)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	startStr, _ := cmd.Flags().GetString("start")
	rate, _ := cmd.Flags().GetFloat64("rate")
	mediaPath, _ := cmd.Flags().GetString("media")
	stream, _ := cmd.Flags().GetInt("subtitle-stream")
	watchFile, _ := cmd.Flags().GetBool("watch")
	videoID, _ := cmd.Flags().GetString("video-id")
	interval, _ := cmd.Flags().GetDuration("interval")
	preset, _ := cmd.Flags().GetString("preset")

	if rate <= 0 {
		return fmt.Errorf("rate must be positive, got %v", rate)
	}
	startMs, err := parseTimeArg(startStr)
	if err != nil {
		return err
	}
	if startMs < 0 {
		return fmt.Errorf("start must not be negative")
	}
	if videoID != "" {
		if err := cache.ValidateVideoID(videoID); err != nil {
			return err
		}
	}
	if watchFile && len(args) == 0 {
		return fmt.Errorf("--watch needs a subtitle file")
	}
	if interval <= 0 {
		interval = cfg.Playback.PollInterval
	}
	if preset == "" {
		preset = cfg.Style.Preset
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store cache.Store
	if videoID != "" {
		store, err = cache.Open(ctx, cfg.Cache)
		if err != nil {
			return err
		}
		if closer, ok := store.(io.Closer); ok {
			defer closer.Close()
		}
	}

	var subtitlePath string
	if len(args) == 1 {
		subtitlePath = args[0]
	}

	cues, err := loadPlaySource(ctx, subtitlePath, mediaPath, stream, videoID, store)
	if err != nil {
		return err
	}
	if len(cues) == 0 {
		logger.Warnw("No cues to play")
		return nil
	}

	clockOpts := []playback.ClockOption{playback.WithRate(rate)}
	if mediaPath != "" {
		duration, err := media.Probe(ctx, mediaPath)
		if err != nil {
			return fmt.Errorf("failed to probe media: %w", err)
		}
		clockOpts = append(clockOpts, playback.WithDuration(duration))
	} else {
		clockOpts = append(clockOpts, playback.WithDuration(time.Duration(lastEnd(cues))*time.Millisecond))
	}

	style := playback.Style{}
	maps.Copy(style, cfg.Style.Custom)
	style["preset"] = preset

	clock := playback.NewClock(time.Duration(startMs)*time.Millisecond, clockOpts...)
	renderer := playback.NewTerminalRenderer(cmd.OutOrStdout(), clock)
	player := playback.NewPlayer(clock, renderer,
		playback.WithInterval(interval),
		playback.WithLogger(logger.Named("player")),
		playback.WithStyle(style),
	)
	player.Load(cues)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if watchFile {
		w, err := watch.New(subtitlePath, func(cues []subtitle.Cue) {
			if store != nil {
				if err := cache.PutCues(runCtx, store, videoID, cues); err != nil {
					logger.Warnw("Failed to update cache", "video_id", videoID, "error", err)
				}
			}
			player.Load(cues)
		}, watch.WithLogger(logger.Named("watch")))
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warnw("Watcher stopped", "error", err)
			}
		}()
	}

	logger.Infow("Starting playback",
		"cues", len(cues),
		"start_ms", startMs,
		"rate", rate,
		"interval", interval,
		"preset", preset,
	)

	if err := player.Run(runCtx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Infow("Playback interrupted")
			return nil
		}
		return err
	}

	logger.Infow("Playback finished")
	return nil
}

// loadPlaySource resolves cues from, in order: the subtitle file, the cache
// entry for videoID, or a subtitle stream extracted from mediaPath. Cues
// loaded from a file or media are written back to the cache.
func loadPlaySource(
	ctx context.Context,
	subtitlePath, mediaPath string,
	stream int,
	videoID string,
	store cache.Store,
) ([]subtitle.Cue, error) {
	if subtitlePath != "" {
		src, err := subtitle.Open(subtitlePath)
		if err != nil {
			return nil, err
		}
		if len(src.Skipped) > 0 {
			logger.Warnw("Dropped malformed blocks", "path", subtitlePath, "count", len(src.Skipped))
		}
		storeCues(ctx, store, videoID, src.Cues)
		return src.Cues, nil
	}

	if store != nil {
		cues, err := cache.GetCues(ctx, store, videoID)
		switch {
		case err == nil:
			logger.Infow("Loaded subtitles from cache", "video_id", videoID, "cues", len(cues))
			return cues, nil
		case errors.Is(err, cache.ErrCacheMiss), errors.Is(err, cache.ErrCacheExpired):
			logger.Debugw("Cache miss", "video_id", videoID, "reason", err)
		default:
			logger.Warnw("Cache read failed", "video_id", videoID, "error", err)
		}
	}

	if mediaPath == "" {
		return nil, fmt.Errorf("no subtitle source: pass a subtitle file, --media or a cached --video-id")
	}

	tempDir, err := os.MkdirTemp("", "substyle-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	outPath := filepath.Join(tempDir, "extracted.srt")
	logger.Infow("Extracting subtitles from media", "media", mediaPath, "stream", stream)
	if err := media.ExtractSubtitles(ctx, mediaPath, outPath, stream); err != nil {
		return nil, err
	}

	src, err := subtitle.Open(outPath)
	if err != nil {
		return nil, err
	}
	storeCues(ctx, store, videoID, src.Cues)
	return src.Cues, nil
}

func storeCues(ctx context.Context, store cache.Store, videoID string, cues []subtitle.Cue) {
	if store == nil || len(cues) == 0 {
		return
	}
	if err := cache.PutCues(ctx, store, videoID, cues); err != nil {
		logger.Warnw("Failed to cache subtitles", "video_id", videoID, "error", err)
		return
	}
	logger.Debugw("Cached subtitles", "video_id", videoID, "cues", len(cues))
}

func lastEnd(cues []subtitle.Cue) int64 {
	var end int64
	for _, cue := range cues {
		end = max(end, cue.EndTime)
	}
	return end
}
