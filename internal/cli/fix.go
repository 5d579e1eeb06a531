package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wenjiang/kara/internal/karaoke"
	"github.com/wenjiang/kara/internal/subtitle"
)

var fixCmd = &cobra.Command{
	Use:   "fix [subtitle_file] [lyrics_file]",
	Short: "Replace transcribed lyrics in a karaoke ASS file with correct ones",
	Long: `Replace the transcribed text in a karaoke ASS file with the correct
lyrics while preserving the sweep timing.

The lyrics file is plain text, one line per sung line, in the same order
as the tagged lines in the subtitle file. Where a lyric line has the same
number of characters as the transcribed line, per-character timing is kept
exactly; otherwise the line's total duration is redistributed over the new
characters. Preview lines are updated to match.

Examples:
  kara fix song_karaoke.ass lyrics.txt
  kara fix song_karaoke.ass lyrics.txt -o song_fixed.ass`,
	Args: cobra.ExactArgs(2),
	RunE: runFix,
}

func init() {
	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	lyricsPath := args[1]

	lyrics, err := readLyricsFile(lyricsPath)
	if err != nil {
		return err
	}
	if len(lyrics) == 0 {
		return fmt.Errorf("no lyrics found in %s", lyricsPath)
	}

	doc, err := subtitle.OpenDocument(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to open subtitle file: %w", err)
	}

	report, err := karaoke.Retime(doc, lyrics)
	if err != nil {
		return fmt.Errorf("failed to apply lyrics: %w", err)
	}

	if report.TaggedLines == 0 {
		return fmt.Errorf("no karaoke-tagged lines found in %s", subtitlePath)
	}
	if report.Mismatch() {
		logger.Warnw("Line counts differ; extra lines left unchanged",
			"tagged_lines", report.TaggedLines,
			"lyrics", report.Lyrics,
			"applied", report.Applied,
		)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		ext := filepath.Ext(subtitlePath)
		outputPath = strings.TrimSuffix(subtitlePath, ext) + "_fixed" + ext
	}

	if err := doc.Write(outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	logger.Infow("Lyrics applied",
		"applied", report.Applied,
		"previews_updated", report.PreviewsUpdated,
	)

	abs, _ := filepath.Abs(outputPath)
	fmt.Printf("Fixed subtitles written: %s\n", abs)
	fmt.Printf("  Lines updated: %d\n", report.Applied)

	return nil
}

// readLyricsFile loads one lyric line per non-empty line of text.
func readLyricsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lyrics file: %w", err)
	}
	defer f.Close()

	var lyrics []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lyrics = append(lyrics, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lyrics file: %w", err)
	}

	return lyrics, nil
}
