package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/substyle/internal/media"
	"github.com/mgpai22/substyle/internal/subtitle"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract an embedded subtitle stream from a video file",
	Long: `Extract a subtitle stream from a video container and save it as a
subtitle file.

The stream is converted to SRT by ffmpeg, then parsed and written in the
requested format. Use --list to see the subtitle streams in the file.

Examples:
  substyle extract movie.mkv
  substyle extract movie.mkv --stream 1 -o movie.en.vtt
  substyle extract movie.mkv --list`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path")
	extractCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt, ass)")
	extractCmd.Flags().
		IntP("stream", "s", 0, "Subtitle stream index (0 = first subtitle stream)")
	extractCmd.Flags().Bool("list", false, "List subtitle streams and exit")
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	formatStr, _ := cmd.Flags().GetString("format")
	stream, _ := cmd.Flags().GetInt("stream")
	list, _ := cmd.Flags().GetBool("list")
	outputPath, _ := cmd.Flags().GetString("output")

	ctx := context.Background()

	if list {
		info, err := media.Inspect(ctx, videoPath)
		if err != nil {
			return err
		}
		if len(info.SubtitleStreams) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no subtitle streams")
			return nil
		}
		for i, codec := range info.SubtitleStreams {
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", i, codec)
		}
		return nil
	}

	format, err := parseFormat(formatStr)
	if err != nil {
		return err
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
		outputPath = baseName + subtitle.GetExtensionForFormat(format)
	}

	logger.Infow("Extracting subtitles",
		"video", videoPath,
		"output", outputPath,
		"format", format,
		"stream", stream,
	)

	tempDir, err := os.MkdirTemp("", "substyle-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	rawPath := filepath.Join(tempDir, "stream.srt")
	if err := media.ExtractSubtitles(ctx, videoPath, rawPath, stream); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	src, err := subtitle.Open(rawPath)
	if err != nil {
		return err
	}
	if err := subtitle.WriteFile(format, src.Cues, outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles extracted successfully: %s (%d cues)\n", absOutput, len(src.Cues))

	return nil
}
