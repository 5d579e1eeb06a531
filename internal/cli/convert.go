package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wenjiang/kara/internal/audio"
	"github.com/wenjiang/kara/internal/download"
	"github.com/wenjiang/kara/internal/video"
)

var convertCmd = &cobra.Command{
	Use:   "convert [url_or_file]",
	Short: "Convert a song or music video into a KTV karaoke video",
	Long: `Convert a song or music video into a full KTV karaoke package.

The input can be a local audio/video file or a URL (downloaded with
yt-dlp). The pipeline:

  1. Fetch the media
  2. Extract the audio track
  3. Separate vocals from the instrumental (demucs)
  4. Build the KTV stereo mix (left: instrumental, right: full mix)
  5. Transcribe the vocals with word-level timestamps
  6. Render karaoke subtitles
  7. Mux the KTV audio back into a video

Examples:
  kara convert song.mp3
  kara convert https://www.youtube.com/watch?v=dQw4w9WgXcQ
  kara convert video.mp4 --song "你怎麼說" --artist 鄧麗君 --burn`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("provider", "p", "", "Transcription provider (whisper, gemini, openai)")
	convertCmd.Flags().
		String("model", "", "Transcription model")
	convertCmd.Flags().
		StringP("api-key", "k", "", "API key for the transcription provider")
	convertCmd.Flags().
		StringP("format", "f", "", "Subtitle format (srt, ass, both)")
	convertCmd.Flags().
		IntP("chunk-duration", "d", 0, "Chunk duration in minutes (0 = transcribe whole file)")
	convertCmd.Flags().
		Int("concurrency", 3, "Number of parallel transcription workers")
	convertCmd.Flags().
		String("song", "", "Song title, used as a transcription hint and script title")
	convertCmd.Flags().
		String("artist", "", "Artist name, used as a transcription hint")
	convertCmd.Flags().
		String("separation-model", "", "Demucs model for vocal separation")
	convertCmd.Flags().
		String("cookies", "", "Netscape-format cookies file for URL downloads")
	convertCmd.Flags().
		Bool("keep-temp", false, "Keep intermediate files")
	convertCmd.Flags().
		Bool("burn", false, "Also burn subtitles into a DVD-ready MPG")
	convertCmd.Flags().
		String("target", video.TargetNTSCDVD, "DVD target for --burn (ntsc-dvd, pal-dvd)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if m, _ := cmd.Flags().GetString("separation-model"); m != "" {
		cfg.Separation.Model = m
	}
	if keep, _ := cmd.Flags().GetBool("keep-temp"); keep {
		cfg.KeepTempFiles = true
	}

	format, err := subtitleFormat(cfg.SubtitleFormat)
	if err != nil {
		return err
	}

	song, _ := cmd.Flags().GetString("song")
	artist, _ := cmd.Flags().GetString("artist")
	cookies, _ := cmd.Flags().GetString("cookies")

	// step 1: fetch media
	downloader := download.NewDownloader(cfg.TempFolder).WithCookies(cookies)
	if !cfg.KeepTempFiles {
		defer func() {
			if err := downloader.Cleanup(); err != nil {
				logger.Warnw("Failed to clean temp folder", "error", err)
			}
		}()
	}

	logger.Infow("Fetching media", "input", input)
	mediaPath, title, err := downloader.GetMedia(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to fetch media: %w", err)
	}
	if song == "" {
		song = title
	}

	logger.Infow("Media ready", "path", mediaPath, "title", title)

	// step 2: extract audio
	tempDir := cfg.TempFolder
	workingAudio := filepath.Join(tempDir, "audio.wav")

	logger.Infow("Extracting audio track")
	if err := audio.ExtractAudio(ctx, mediaPath, workingAudio); err != nil {
		return fmt.Errorf("failed to extract audio: %w", err)
	}

	// step 3: separate vocals
	logger.Infow("Separating vocals", "model", cfg.Separation.Model)
	stems, err := audio.SeparateVocals(
		ctx,
		workingAudio,
		cfg.Separation.Model,
		filepath.Join(tempDir, "separated"),
	)
	if err != nil {
		return fmt.Errorf("vocal separation failed: %w", err)
	}

	// step 4: KTV stereo mix
	ktvAudio := filepath.Join(tempDir, "ktv.wav")
	logger.Infow("Building KTV stereo mix")
	if err := audio.CreateKTVStereoMix(
		ctx,
		stems.Instrumental,
		stems.Vocals,
		ktvAudio,
	); err != nil {
		return fmt.Errorf("failed to build KTV mix: %w", err)
	}

	// step 5: transcribe the isolated vocals, not the full mix
	result, err := transcribeMedia(
		ctx,
		cmd,
		cfg,
		stems.Vocals,
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

	// step 6: render subtitles
	if err := os.MkdirAll(cfg.OutputFolder, 0755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	basePath := filepath.Join(cfg.OutputFolder, title+"_karaoke")
	written, err := writeKaraokeSubtitles(result.Segments, format, song, basePath)
	if err != nil {
		return err
	}

	// step 7: mux KTV audio into the output video
	sourceVideo := ""
	if audio.IsVideoFile(mediaPath) {
		sourceVideo = mediaPath
	}

	outputVideo := filepath.Join(cfg.OutputFolder, title+"_karaoke.mp4")
	logger.Infow("Writing KTV video", "output", outputVideo)
	if err := video.MuxKTVAudio(ctx, sourceVideo, ktvAudio, outputVideo); err != nil {
		return fmt.Errorf("failed to write KTV video: %w", err)
	}

	outputMP3 := filepath.Join(cfg.OutputFolder, title+"_karaoke.mp3")
	if err := audio.EncodeMP3(ctx, ktvAudio, outputMP3, ""); err != nil {
		return fmt.Errorf("failed to encode KTV mp3: %w", err)
	}

	var outputMPG string
	if burn, _ := cmd.Flags().GetBool("burn"); burn {
		assPath := ""
		for _, p := range written {
			if filepath.Ext(p) == ".ass" {
				assPath = p
			}
		}
		if assPath == "" {
			return fmt.Errorf("--burn requires ASS subtitles (format ass or both)")
		}

		target, _ := cmd.Flags().GetString("target")
		outputMPG = filepath.Join(cfg.OutputFolder, title+"_karaoke.mpg")

		logger.Infow("Burning subtitles", "output", outputMPG, "target", target)
		if err := video.BurnSubtitles(
			ctx,
			outputVideo,
			assPath,
			outputMPG,
			target,
		); err != nil {
			return fmt.Errorf("failed to burn subtitles: %w", err)
		}
	}

	fmt.Printf("KTV conversion complete: %s\n", title)
	fmt.Println("  Channels: left = instrumental, right = instrumental + vocals")
	fmt.Printf("  Video: %s\n", outputVideo)
	fmt.Printf("  Audio: %s\n", outputMP3)
	for _, p := range written {
		fmt.Printf("  Subtitles: %s\n", p)
	}
	if outputMPG != "" {
		fmt.Printf("  DVD video: %s\n", outputMPG)
	}

	return nil
}
