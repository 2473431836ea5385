package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/substyle/internal/cuesync"
	"github.com/mgpai22/substyle/internal/subtitle"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert a subtitle file to another format",
	Long: `Read a subtitle file or JSON transcript and write its cues as SRT,
WebVTT or ASS.

The output format is taken from --format, or from the extension of
--output when no format is given.

Examples:
  substyle convert movie.srt -o movie.vtt
  substyle convert transcript.json -f srt
  substyle convert movie.ass -o movie.srt --sort`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("output", "o", "", "Output file path")
	convertCmd.Flags().StringP("format", "f", "", "Output subtitle format (srt, vtt, ass)")
	convertCmd.Flags().Bool("sort", false, "Order cues by start time before writing")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	formatStr, _ := cmd.Flags().GetString("format")
	sortCues, _ := cmd.Flags().GetBool("sort")

	if outputPath == "" && formatStr == "" {
		return fmt.Errorf("either --output or --format is required")
	}

	var format subtitle.Format
	var err error
	if formatStr != "" {
		format, err = parseFormat(formatStr)
	} else {
		format, err = parseFormat(strings.TrimPrefix(filepath.Ext(outputPath), "."))
	}
	if err != nil {
		return err
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outputPath = baseName + subtitle.GetExtensionForFormat(format)
	}
	if filepath.Clean(outputPath) == filepath.Clean(inputPath) {
		return fmt.Errorf("output would overwrite input: %s", outputPath)
	}

	src, err := subtitle.Open(inputPath)
	if err != nil {
		return err
	}

	cues := src.Cues
	if sortCues {
		cues = cuesync.New(cues).Cues()
	}

	if err := subtitle.WriteFile(format, cues, outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	logger.Infow("Subtitles converted",
		"input", inputPath,
		"output", outputPath,
		"format", format,
		"cues", len(cues),
		"skipped", len(src.Skipped),
	)
	return nil
}

func parseFormat(s string) (subtitle.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "srt":
		return subtitle.FormatSRT, nil
	case "vtt":
		return subtitle.FormatVTT, nil
	case "ass", "ssa":
		return subtitle.FormatASS, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use srt, vtt, or ass", s)
	}
}
