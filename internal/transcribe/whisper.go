package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/wenjiang/kara/internal/audio"
	"github.com/wenjiang/kara/internal/subtitle"
)

// implements Transcriber by running the local whisper CLI
type WhisperTranscriber struct {
	binary  string
	model   string
	options Options
}

// whisper --output_format json structure
type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperJSONSegment struct {
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Text  string        `json:"text"`
	Words []whisperWord `json:"words"`
}

type whisperJSONOutput struct {
	Text     string               `json:"text"`
	Segments []whisperJSONSegment `json:"segments"`
	Language string               `json:"language"`
}

func NewWhisperTranscriber(opts Options) (*WhisperTranscriber, error) {
	binary := os.Getenv("KARA_WHISPER_PATH")
	if binary == "" {
		p, err := exec.LookPath("whisper")
		if err != nil {
			return nil, fmt.Errorf(
				"whisper not found in PATH (install with: pip install openai-whisper): %w",
				err,
			)
		}
		binary = p
	} else if _, err := os.Stat(binary); err != nil {
		return nil, fmt.Errorf("KARA_WHISPER_PATH is set but not usable: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "base"
	}

	return &WhisperTranscriber{
		binary:  binary,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file with word-level timestamps
func (t *WhisperTranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	outputDir, err := os.MkdirTemp("", "kara-whisper-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	defer os.RemoveAll(outputDir)

	args := []string{
		audioPath,
		"--model", t.model,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--word_timestamps", "True",
		"--verbose", "False",
	}

	if lang := strings.TrimSpace(t.options.Language); lang != "" && lang != "auto" {
		args = append(args, "--language", lang)
	}
	if t.options.Prompt != "" {
		args = append(args, "--initial_prompt", t.options.Prompt)
	}

	cmd := exec.CommandContext(ctx, t.binary, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf(
			"whisper failed: %w (stderr: %s)",
			err,
			truncateString(strings.TrimSpace(stderr.String()), 500),
		)
	}

	base := strings.TrimSuffix(
		filepath.Base(audioPath),
		filepath.Ext(audioPath),
	)
	jsonPath := filepath.Join(outputDir, base+".json")

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisper produced no JSON output: %w", err)
	}

	segments, language, err := parseWhisperJSON(data)
	if err != nil {
		return nil, err
	}
	if language == "" {
		language = t.options.Language
	}

	duration, _ := audio.GetDuration(audioPath)

	return &Result{
		Segments: segments,
		Language: language,
		Duration: duration,
	}, nil
}

// transcribes multiple chunks in parallel
func (t *WhisperTranscriber) TranscribeWithChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*Result, error) {
	// local inference saturates the machine quickly, keep it sequential
	// unless the caller asks otherwise
	if concurrency <= 0 {
		concurrency = 1
	}
	return transcribeChunks(ctx, t, t.options.Language, chunks, concurrency)
}

func parseWhisperJSON(data []byte) ([]subtitle.Segment, string, error) {
	var out whisperJSONOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, "", fmt.Errorf("failed to parse whisper JSON: %w", err)
	}

	segments := make([]subtitle.Segment, 0, len(out.Segments))
	for _, seg := range out.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		words := make([]subtitle.Word, 0, len(seg.Words))
		for _, w := range seg.Words {
			wordText := strings.TrimSpace(w.Word)
			if wordText == "" {
				continue
			}
			words = append(words, subtitle.Word{
				StartTime: time.Duration(w.Start * float64(time.Second)),
				EndTime:   time.Duration(w.End * float64(time.Second)),
				Text:      wordText,
			})
		}

		segments = append(segments, subtitle.Segment{
			StartTime: time.Duration(seg.Start * float64(time.Second)),
			EndTime:   time.Duration(seg.End * float64(time.Second)),
			Text:      text,
			Words:     words,
		})
	}

	return segments, out.Language, nil
}
