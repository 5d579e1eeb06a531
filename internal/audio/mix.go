package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpegbin "github.com/wenjiang/kara/internal/ffmpeg"
)

// KTV channel layout: left carries the instrumental only, right carries
// the full mix, so singers can fade the vocal guide in and out with the
// balance knob.
const ktvFilter = `[0:a]pan=mono|c0=0.5*c0+0.5*c1[inst];` +
	`[inst]asplit=2[instL][instM];` +
	`[1:a]pan=mono|c0=0.5*c0+0.5*c1[voc];` +
	`[instM][voc]amix=inputs=2:duration=shortest[full];` +
	`[instL][full]join=inputs=2:channel_layout=stereo:map=0.0-FL|1.0-FR[ktv]`

// CreateKTVStereoMix builds the dual-mono KTV track from separated stems.
func CreateKTVStereoMix(
	ctx context.Context,
	instrumentalPath string,
	vocalsPath string,
	outputPath string,
) error {
	if _, err := os.Stat(instrumentalPath); os.IsNotExist(err) {
		return fmt.Errorf("instrumental file not found: %s", instrumentalPath)
	}
	if _, err := os.Stat(vocalsPath); os.IsNotExist(err) {
		return fmt.Errorf("vocals file not found: %s", vocalsPath)
	}

	if err := ensureDir(outputPath); err != nil {
		return err
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	// ffmpeg-go supports only a single input stream, so the two-stem
	// mix goes through exec directly.
	args := []string{
		"-y",
		"-i", instrumentalPath,
		"-i", vocalsPath,
		"-filter_complex", ktvFilter,
		"-map", "[ktv]",
		"-c:a", "pcm_s16le",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf(
			"ffmpeg KTV mix failed: %w (stderr: %s)",
			err,
			truncateOutput(stderr.String()),
		)
	}

	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func truncateOutput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 500 {
		return s[len(s)-500:]
	}
	return s
}
