package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Stems holds the paths of the separated tracks produced by demucs.
type Stems struct {
	Vocals       string
	Instrumental string
}

// demucsBinary resolves the demucs executable, honoring an env override.
func demucsBinary() (string, error) {
	if p := os.Getenv("KARA_DEMUCS_PATH"); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("KARA_DEMUCS_PATH is set but not usable: %w", err)
		}
		return p, nil
	}

	p, err := exec.LookPath("demucs")
	if err != nil {
		return "", fmt.Errorf(
			"demucs not found in PATH (install with: pip install demucs): %w",
			err,
		)
	}
	return p, nil
}

// SeparateVocals runs demucs in two-stem mode and returns the vocal and
// instrumental tracks. model selects the demucs model (e.g. "htdemucs").
func SeparateVocals(
	ctx context.Context,
	audioPath string,
	model string,
	outputDir string,
) (Stems, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return Stems{}, fmt.Errorf("audio file not found: %s", audioPath)
	}

	if model == "" {
		model = "htdemucs"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return Stems{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	bin, err := demucsBinary()
	if err != nil {
		return Stems{}, err
	}

	args := []string{
		"--two-stems", "vocals",
		"-n", model,
		"-o", outputDir,
		audioPath,
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Stems{}, fmt.Errorf(
			"demucs separation failed: %w (stderr: %s)",
			err,
			truncateOutput(stderr.String()),
		)
	}

	// demucs writes <outputDir>/<model>/<track name>/{vocals,no_vocals}.wav
	stem := strings.TrimSuffix(
		filepath.Base(audioPath),
		filepath.Ext(audioPath),
	)
	stemDir := filepath.Join(outputDir, model, stem)

	stems := Stems{
		Vocals:       filepath.Join(stemDir, "vocals.wav"),
		Instrumental: filepath.Join(stemDir, "no_vocals.wav"),
	}

	if _, err := os.Stat(stems.Vocals); err != nil {
		return Stems{}, fmt.Errorf("demucs did not produce vocals track: %w", err)
	}
	if _, err := os.Stat(stems.Instrumental); err != nil {
		return Stems{}, fmt.Errorf(
			"demucs did not produce instrumental track: %w",
			err,
		)
	}

	return stems, nil
}
