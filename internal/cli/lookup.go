package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/substyle/internal/cuesync"
	"github.com/mgpai22/substyle/internal/subtitle"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [subtitle_file] [time...]",
	Short: "Show the active cue at the given playback times",
	Long: `Build a sync engine from a subtitle file and query it at each time in
order, the way a player would while the video plays or seeks.

Times may be milliseconds (61500), SRT timestamps (00:01:01,500) or Go
durations (1m1.5s). Put -- before the times if any of them starts with a
minus sign, otherwise it is read as a flag.

Examples:
  substyle lookup movie.srt 00:00:05,000 00:00:06,200
  substyle lookup movie.srt 0 1500 90000 3000
  substyle lookup movie.srt -- -500`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	times := make([]int64, 0, len(args)-1)
	for _, arg := range args[1:] {
		ms, err := parseTimeArg(arg)
		if err != nil {
			return err
		}
		times = append(times, ms)
	}

	src, err := subtitle.Open(args[0])
	if err != nil {
		return err
	}

	engine := cuesync.New(src.Cues)
	logger.Debugw("Engine ready", "cues", engine.Len())

	return lookupTimes(cmd.OutOrStdout(), engine, times)
}

func lookupTimes(w io.Writer, engine *cuesync.Engine, times []int64) error {
	for _, ms := range times {
		cue, err := engine.ActiveCue(ms)
		if err != nil {
			return fmt.Errorf("lookup at %d ms: %w", ms, err)
		}

		stamp := subtitle.FormatSRTTimestamp(ms)
		if cue == nil {
			fmt.Fprintf(w, "%s  -\n", stamp)
			continue
		}
		fmt.Fprintf(w, "%s  #%d  %s\n", stamp, cue.ID, strings.ReplaceAll(cue.Text, "\n", " / "))
	}
	return nil
}

// parseTimeArg accepts milliseconds, an SRT timestamp or a Go duration
func parseTimeArg(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	if ms, err := subtitle.DecodeTimestamp(s); err == nil {
		return ms, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d.Milliseconds(), nil
	}
	return 0, fmt.Errorf("invalid time %q: use milliseconds, HH:MM:SS,mmm or a duration like 1m30s", s)
}
