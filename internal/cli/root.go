package cli

import (
	"fmt"

	"github.com/mgpai22/substyle/internal/config"
	"github.com/mgpai22/substyle/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logFile    string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "substyle",
	Short: "Time-synchronized subtitle playback",
	Long: `SubStyle parses subtitle files and transcripts into timed cues and
plays them back in sync with a media clock.

It reads SRT, WebVTT, ASS/SSA and JSON transcripts, and can pull
subtitle streams out of video containers with ffmpeg.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.ConfigPath()
		}

		loaded, err := config.LoadWithDotenv(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		file := cfg.Log.File
		if logFile != "" {
			file = logFile
		}

		logger, err = logging.New(logging.Config{
			Verbose:    verbose,
			File:       file,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file path (default ~/.substyle/config.yaml)")
	rootCmd.PersistentFlags().
		StringVar(&logFile, "log-file", "", "Also write JSON logs to this file (rotated)")
}
