package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wenjiang/kara/internal/karaoke"
	"github.com/wenjiang/kara/internal/lyrics"
	"github.com/wenjiang/kara/internal/subtitle"
)

var polishCmd = &cobra.Command{
	Use:   "polish [subtitle_file]",
	Short: "Correct transcribed lyrics in a karaoke ASS file with an LLM",
	Long: `Correct mistranscribed lyrics in a karaoke ASS file using Claude.

The tagged lines are stripped of their timing, sent to the model along
with the song title and artist, and the corrected lines are re-applied
with the original sweep timing preserved.

Examples:
  kara polish song_karaoke.ass --song "你怎麼說" --artist 鄧麗君
  kara polish song_karaoke.ass --song "甜蜜蜜" -o song_polished.ass`,
	Args: cobra.ExactArgs(1),
	RunE: runPolish,
}

func init() {
	rootCmd.AddCommand(polishCmd)

	polishCmd.Flags().
		String("song", "", "Song title, helps the model find the right lyrics")
	polishCmd.Flags().
		String("artist", "", "Artist name")
	polishCmd.Flags().
		StringP("api-key", "k", "", "Anthropic API key (or set ANTHROPIC_API_KEY)")
	polishCmd.Flags().
		String("model", "", "Claude model to use")
	polishCmd.Flags().
		Int("batch-size", 0, "Lines per API request")
	polishCmd.Flags().
		Int("concurrency", 3, "Number of parallel correction workers")
}

func runPolish(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := cmd.Context()

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf(
			"Anthropic API key is required: use --api-key or set ANTHROPIC_API_KEY",
		)
	}

	doc, err := subtitle.OpenDocument(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to open subtitle file: %w", err)
	}

	// collect the sung lines as plain text, tags stripped
	var items []lyrics.Item
	for _, d := range doc.Dialogues() {
		if !strings.Contains(d.Text, `\k`) {
			continue
		}
		text := karaoke.ExplodeTags(d.Text).Text()
		items = append(items, lyrics.Item{Index: len(items), Text: text})
	}
	if len(items) == 0 {
		return fmt.Errorf("no karaoke-tagged lines found in %s", subtitlePath)
	}

	song, _ := cmd.Flags().GetString("song")
	artist, _ := cmd.Flags().GetString("artist")
	model, _ := cmd.Flags().GetString("model")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	language, _ := cmd.Flags().GetString("language")

	opts := lyrics.Options{
		Song:      song,
		Artist:    artist,
		Language:  language,
		Model:     model,
		BatchSize: batchSize,
	}

	corrector, err := lyrics.NewAnthropicCorrector(ctx, apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create corrector: %w", err)
	}

	logger.Infow("Correcting lyrics",
		"lines", len(items),
		"song", song,
		"artist", artist,
	)

	results, err := corrector.CorrectWithConcurrency(ctx, items, concurrency)
	if err != nil {
		return fmt.Errorf("lyric correction failed: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	corrected := make([]string, len(results))
	changed := 0
	for i, r := range results {
		corrected[i] = r.Text
		if i < len(items) && r.Text != items[i].Text {
			changed++
		}
	}

	report, err := karaoke.Retime(doc, corrected)
	if err != nil {
		return fmt.Errorf("failed to apply corrections: %w", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		ext := filepath.Ext(subtitlePath)
		outputPath = strings.TrimSuffix(subtitlePath, ext) + "_polished" + ext
	}

	if err := doc.Write(outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	abs, _ := filepath.Abs(outputPath)
	fmt.Printf("Polished subtitles written: %s\n", abs)
	fmt.Printf("  Lines corrected: %d of %d\n", changed, report.Applied)

	return nil
}
