package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mgpai22/substyle/internal/subtitle"
	"github.com/spf13/cobra"
)

var cuesCmd = &cobra.Command{
	Use:   "cues [subtitle_file]",
	Short: "Parse a subtitle file and print its cues",
	Long: `Parse a subtitle file and print the resulting cues in source order.

Malformed blocks are dropped; use --skipped to list them with the reason
they were rejected.

Examples:
  substyle cues movie.srt
  substyle cues movie.vtt --json
  substyle cues broken.srt --skipped`,
	Args: cobra.ExactArgs(1),
	RunE: runCues,
}

func init() {
	rootCmd.AddCommand(cuesCmd)

	cuesCmd.Flags().Bool("json", false, "Print cues as JSON")
	cuesCmd.Flags().Bool("skipped", false, "List dropped blocks on stderr")
}

func runCues(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	showSkipped, _ := cmd.Flags().GetBool("skipped")

	src, err := subtitle.Open(args[0])
	if err != nil {
		return err
	}

	logger.Debugw("Parsed subtitles",
		"path", src.Path,
		"format", src.Format,
		"cues", len(src.Cues),
		"skipped", len(src.Skipped),
	)

	if asJSON {
		if err := writeCuesJSON(cmd.OutOrStdout(), src.Cues); err != nil {
			return err
		}
	} else {
		writeCuesTable(cmd.OutOrStdout(), src.Cues)
	}

	if showSkipped {
		for _, s := range src.Skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped block %d (line %d): %s\n", s.Block, s.Line, s.Reason)
		}
	}
	return nil
}

func writeCuesJSON(w io.Writer, cues []subtitle.Cue) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cues)
}

func writeCuesTable(w io.Writer, cues []subtitle.Cue) {
	for _, cue := range cues {
		fmt.Fprintf(w, "%4d  %s --> %s  %s\n",
			cue.ID,
			subtitle.FormatSRTTimestamp(cue.StartTime),
			subtitle.FormatSRTTimestamp(cue.EndTime),
			strings.ReplaceAll(cue.Text, "\n", " / "),
		)
	}
}
