package cli

import (
	"github.com/spf13/cobra"

	"github.com/wenjiang/kara/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kara",
	Short: "Convert songs and music videos into KTV karaoke videos",
	Long: `Kara turns a song or music video into a KTV-style karaoke video.

It separates vocals from the instrumental, builds a dual-mono KTV audio
track (instrumental on the left channel, full mix on the right),
transcribes the vocals, and renders karaoke subtitles with per-character
sweep timing and a preview of the upcoming line.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "kara.json", "Path to config file")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Song language (e.g., zh, ja, en, or auto)")
}
