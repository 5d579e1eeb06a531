package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wenjiang/kara/internal/audio"
	"github.com/wenjiang/kara/internal/config"
	"github.com/wenjiang/kara/internal/karaoke"
	"github.com/wenjiang/kara/internal/subtitle"
	"github.com/wenjiang/kara/internal/transcribe"
)

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if lang, _ := cmd.Flags().GetString("language"); lang != "" {
		cfg.SpeechToText.Language = lang
	}
	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		cfg.SpeechToText.Provider = provider
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.SpeechToText.Model = model
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.SubtitleFormat = format
	}

	return cfg, nil
}

// apiKeyFor resolves the API key for a transcription provider from the
// --api-key flag or the provider's conventional environment variable.
// Local whisper needs no key.
func apiKeyFor(cmd *cobra.Command, provider transcribe.Provider) (string, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey != "" {
		return apiKey, nil
	}

	switch provider {
	case transcribe.ProviderWhisper:
		return "", nil
	case transcribe.ProviderGemini:
		apiKey = os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return "", fmt.Errorf(
				"Gemini API key is required: use --api-key or set GEMINI_API_KEY",
			)
		}
	case transcribe.ProviderOpenAI:
		apiKey = os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return "", fmt.Errorf(
				"OpenAI API key is required: use --api-key or set OPENAI_API_KEY",
			)
		}
	}

	return apiKey, nil
}

// subtitleFormat parses the configured output format.
func subtitleFormat(s string) (subtitle.Format, error) {
	switch subtitle.Format(s) {
	case subtitle.FormatSRT:
		return subtitle.FormatSRT, nil
	case subtitle.FormatASS:
		return subtitle.FormatASS, nil
	case subtitle.FormatBoth:
		return subtitle.FormatBoth, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use srt, ass, or both", s)
	}
}

// transcribeMedia compresses the audio for upload, splits it into
// chunks, and transcribes them with the configured provider.
func transcribeMedia(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	mediaPath string,
	tempDir string,
	prompt string,
) (*transcribe.Result, error) {
	provider := transcribe.Provider(cfg.SpeechToText.Provider)

	apiKey, err := apiKeyFor(cmd, provider)
	if err != nil {
		return nil, err
	}

	chunkMinutes, _ := cmd.Flags().GetInt("chunk-duration")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	logger.Infow("Preparing audio for transcription",
		"input", mediaPath,
	)

	compressed := filepath.Join(tempDir, "transcribe.mp3")
	if err := audio.CompressAudio(
		ctx,
		mediaPath,
		compressed,
		audio.DefaultCompressionOptions(),
	); err != nil {
		return nil, fmt.Errorf("failed to compress audio: %w", err)
	}

	opts := transcribe.Options{
		Language: cfg.SpeechToText.Language,
		Model:    cfg.SpeechToText.Model,
		Prompt:   prompt,
	}

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcriber: %w", err)
	}

	if chunkMinutes <= 0 {
		logger.Infow("Transcribing audio", "provider", provider)
		return transcriber.Transcribe(ctx, compressed)
	}

	chunkDir := filepath.Join(tempDir, "chunks")
	chunkDur := time.Duration(chunkMinutes) * time.Minute

	chunks, err := audio.ChunkAudio(ctx, compressed, chunkDur, chunkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to split audio: %w", err)
	}

	logger.Infow("Transcribing audio",
		"provider", provider,
		"chunks", len(chunks),
		"concurrency", concurrency,
	)

	ct, ok := transcriber.(transcribe.ConcurrentTranscriber)
	if !ok {
		return transcriber.Transcribe(ctx, compressed)
	}

	return ct.TranscribeWithChunks(ctx, chunks, concurrency)
}

// writeKaraokeSubtitles renders segments to the requested format(s) and
// returns the paths written.
func writeKaraokeSubtitles(
	segments []subtitle.Segment,
	format subtitle.Format,
	title string,
	basePath string,
) ([]string, error) {
	var written []string

	if format == subtitle.FormatASS || format == subtitle.FormatBoth {
		engine := karaoke.NewEngine(title)
		assPath := basePath + ".ass"
		if err := subtitle.WriteASS(
			engine.Header(),
			engine.Events(segments),
			assPath,
		); err != nil {
			return nil, fmt.Errorf("failed to write ASS subtitles: %w", err)
		}
		written = append(written, assPath)
	}

	if format == subtitle.FormatSRT || format == subtitle.FormatBoth {
		srtPath := basePath + ".srt"
		if err := subtitle.WriteSRT(segments, srtPath); err != nil {
			return nil, fmt.Errorf("failed to write SRT subtitles: %w", err)
		}
		written = append(written, srtPath)
	}

	return written, nil
}
