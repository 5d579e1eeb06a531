package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wenjiang/kara/internal/audio"
	"github.com/wenjiang/kara/internal/subtitle"
)

var subtitlesCmd = &cobra.Command{
	Use:   "subtitles [media_file]",
	Short: "Generate karaoke subtitles for an audio or video file",
	Long: `Generate karaoke subtitles for the specified audio or video file.

The audio is transcribed with word-level timestamps and rendered as a
dual-track karaoke ASS script: each sung line carries per-character sweep
timing, and the upcoming line is shown as a preview on the opposite side
of the screen.

Examples:
  kara subtitles song.mp3
  kara subtitles video.mp4 --provider openai --format both
  kara subtitles song.wav --song "月亮代表我的心" --artist 鄧麗君`,
	Args: cobra.ExactArgs(1),
	RunE: runSubtitles,
}

func init() {
	rootCmd.AddCommand(subtitlesCmd)

	subtitlesCmd.Flags().
		StringP("provider", "p", "", "Transcription provider (whisper, gemini, openai)")
	subtitlesCmd.Flags().
		String("model", "", "Transcription model")
	subtitlesCmd.Flags().
		StringP("api-key", "k", "", "API key for the transcription provider")
	subtitlesCmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, ass, both)")
	subtitlesCmd.Flags().
		IntP("chunk-duration", "d", 0, "Chunk duration in minutes (0 = transcribe whole file)")
	subtitlesCmd.Flags().
		Int("concurrency", 3, "Number of parallel transcription workers")
	subtitlesCmd.Flags().
		String("song", "", "Song title, used as a transcription hint and script title")
	subtitlesCmd.Flags().
		String("artist", "", "Artist name, used as a transcription hint")
}

func runSubtitles(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf(
			"unsupported file type: %s (expected audio or video file)",
			filepath.Ext(mediaPath),
		)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := subtitleFormat(cfg.SubtitleFormat)
	if err != nil {
		return err
	}

	song, _ := cmd.Flags().GetString("song")
	artist, _ := cmd.Flags().GetString("artist")

	basePath, _ := cmd.Flags().GetString("output")
	if basePath == "" {
		basePath = strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	} else {
		basePath = strings.TrimSuffix(basePath, filepath.Ext(basePath))
	}

	tempDir, err := os.MkdirTemp("", "kara-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	result, err := transcribeMedia(
		ctx,
		cmd,
		cfg,
		mediaPath,
		tempDir,
		transcriptionHint(song, artist),
	)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	logger.Infow("Transcription complete",
		"segments", len(result.Segments),
		"language", result.Language,
	)

	title := song
	written, err := writeKaraokeSubtitles(result.Segments, format, title, basePath)
	if err != nil {
		return err
	}

	for _, path := range written {
		abs, _ := filepath.Abs(path)
		fmt.Printf("Subtitles written: %s\n", abs)
	}
	fmt.Printf("  Lines: %d\n", countNonEmpty(result.Segments))

	return nil
}

func transcriptionHint(song, artist string) string {
	switch {
	case song != "" && artist != "":
		return fmt.Sprintf("This is the song %q by %s.", song, artist)
	case song != "":
		return fmt.Sprintf("This is the song %q.", song)
	default:
		return ""
	}
}

func countNonEmpty(segments []subtitle.Segment) int {
	n := 0
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) != "" {
			n++
		}
	}
	return n
}
