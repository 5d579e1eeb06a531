package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wenjiang/kara/internal/video"
)

var burnCmd = &cobra.Command{
	Use:   "burn [video_file] [subtitle_file]",
	Short: "Burn karaoke subtitles into a DVD-ready MPG video",
	Long: `Burn an ASS subtitle file into a video, encoding the result for a
DVD target so it plays on standalone KTV machines.

Examples:
  kara burn song_karaoke.mp4 song_karaoke.ass
  kara burn song_karaoke.mp4 song_karaoke.ass --target pal-dvd`,
	Args: cobra.ExactArgs(2),
	RunE: runBurn,
}

func init() {
	rootCmd.AddCommand(burnCmd)

	burnCmd.Flags().
		String("target", video.TargetNTSCDVD, "DVD target (ntsc-dvd, pal-dvd)")
}

func runBurn(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	subtitlePath := args[1]
	ctx := cmd.Context()

	target, _ := cmd.Flags().GetString("target")

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mpg"
	}

	logger.Infow("Burning subtitles",
		"video", videoPath,
		"subtitles", subtitlePath,
		"target", target,
	)

	if err := video.BurnSubtitles(
		ctx,
		videoPath,
		subtitlePath,
		outputPath,
		target,
	); err != nil {
		return fmt.Errorf("failed to burn subtitles: %w", err)
	}

	abs, _ := filepath.Abs(outputPath)
	fmt.Printf("DVD video written: %s\n", abs)

	return nil
}
