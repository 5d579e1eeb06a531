package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpegbin "github.com/wenjiang/kara/internal/ffmpeg"
)

// DVD encoding targets understood by BurnSubtitles.
const (
	TargetNTSCDVD = "ntsc-dvd"
	TargetPALDVD  = "pal-dvd"
)

// MuxKTVAudio replaces the audio track of sourceVideo with the KTV stereo
// mix. If sourceVideo is empty (audio-only input), a black canvas video of
// matching length is generated instead.
func MuxKTVAudio(
	ctx context.Context,
	sourceVideo string,
	ktvAudio string,
	outputPath string,
) error {
	if _, err := os.Stat(ktvAudio); os.IsNotExist(err) {
		return fmt.Errorf("KTV audio file not found: %s", ktvAudio)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	var args []string
	if sourceVideo != "" {
		if _, err := os.Stat(sourceVideo); os.IsNotExist(err) {
			return fmt.Errorf("video file not found: %s", sourceVideo)
		}
		args = []string{
			"-y",
			"-i", sourceVideo,
			"-i", ktvAudio,
			"-c:v", "copy",
			"-c:a", "aac",
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-shortest",
			outputPath,
		}
	} else {
		// audio-only source: render onto a black canvas sized to the
		// subtitle play resolution
		args = []string{
			"-y",
			"-f", "lavfi",
			"-i", "color=c=black:s=1280x720:r=25",
			"-i", ktvAudio,
			"-c:v", "libx264",
			"-c:a", "aac",
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-shortest",
			outputPath,
		}
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf(
			"ffmpeg mux failed: %w (stderr: %s)",
			err,
			tailOutput(stderr.String()),
		)
	}

	return nil
}

// BurnSubtitles hard-renders an ASS subtitle file into the video and
// encodes the result for a DVD target. target must be TargetNTSCDVD or
// TargetPALDVD; empty defaults to NTSC.
func BurnSubtitles(
	ctx context.Context,
	videoPath string,
	subtitlePath string,
	outputPath string,
	target string,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}

	switch target {
	case "":
		target = TargetNTSCDVD
	case TargetNTSCDVD, TargetPALDVD:
	default:
		return fmt.Errorf("unsupported encode target: %s", target)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	args := []string{
		"-y",
		"-i", videoPath,
		"-vf", fmt.Sprintf("subtitles=%s", escapeFilterPath(subtitlePath)),
		"-target", target,
		outputPath,
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf(
			"ffmpeg subtitle burn failed: %w (stderr: %s)",
			err,
			tailOutput(stderr.String()),
		)
	}

	return nil
}

// escapeFilterPath quotes characters that the ffmpeg filter parser treats
// specially (Windows drive colons, quotes, brackets).
func escapeFilterPath(p string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`:`, `\:`,
		`'`, `\'`,
		`[`, `\[`,
		`]`, `\]`,
	)
	return r.Replace(p)
}

func tailOutput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 500 {
		return s[len(s)-500:]
	}
	return s
}
