package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// format preference: mp4 video with m4a audio, falling back to whatever
// yt-dlp can merge
const downloadFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

// Downloader fetches media into a working folder, either from a URL via
// yt-dlp or from a local file.
type Downloader struct {
	tempFolder  string
	cookiesFile string
}

func NewDownloader(tempFolder string) *Downloader {
	return &Downloader{tempFolder: tempFolder}
}

// WithCookies sets a Netscape-format cookies file used for URL downloads
// that require a logged-in session.
func (d *Downloader) WithCookies(path string) *Downloader {
	d.cookiesFile = path
	return d
}

// ytDLPBinary resolves the yt-dlp executable, honoring an env override.
func ytDLPBinary() (string, error) {
	if p := os.Getenv("KARA_YTDLP_PATH"); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("KARA_YTDLP_PATH is set but not usable: %w", err)
		}
		return p, nil
	}

	p, err := exec.LookPath("yt-dlp")
	if err != nil {
		return "", fmt.Errorf(
			"yt-dlp not found in PATH (install with: pip install yt-dlp): %w",
			err,
		)
	}
	return p, nil
}

// DownloadURL fetches media from url into the temp folder and returns the
// downloaded file path and the media title.
func (d *Downloader) DownloadURL(ctx context.Context, url string) (string, string, error) {
	if err := os.MkdirAll(d.tempFolder, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create temp folder: %w", err)
	}

	bin, err := ytDLPBinary()
	if err != nil {
		return "", "", err
	}

	args := []string{
		"--format", downloadFormat,
		"--output", filepath.Join(d.tempFolder, "%(title)s.%(ext)s"),
		"--no-playlist",
		// print the final path after merging/moving, instead of parsing
		// progress output
		"--print", "after_move:filepath",
		"--no-simulate",
	}

	if d.cookiesFile != "" {
		if _, err := os.Stat(d.cookiesFile); err == nil {
			args = append(args, "--cookies", d.cookiesFile)
		}
	}

	args = append(args, url)

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", "", fmt.Errorf(
			"yt-dlp failed: %w (stderr: %s)",
			err,
			tailOutput(stderr.String()),
		)
	}

	path := strings.TrimSpace(stdout.String())
	if path == "" {
		return "", "", fmt.Errorf("yt-dlp produced no output file for %s", url)
	}
	// with --print the last line is the filepath even when warnings are
	// interleaved
	if lines := strings.Split(path, "\n"); len(lines) > 1 {
		path = strings.TrimSpace(lines[len(lines)-1])
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return path, title, nil
}

// CopyLocalFile copies a local media file into the temp folder and returns
// the copy's path and the file's base name without extension.
func (d *Downloader) CopyLocalFile(path string) (string, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", fmt.Errorf("file not found: %s", path)
	}
	if info.IsDir() {
		return "", "", fmt.Errorf("path is not a file: %s", path)
	}

	if err := os.MkdirAll(d.tempFolder, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create temp folder: %w", err)
	}

	dest := filepath.Join(d.tempFolder, filepath.Base(path))
	if err := copyFile(path, dest); err != nil {
		return "", "", err
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return dest, title, nil
}

// GetMedia dispatches on the input: URLs go through yt-dlp, everything
// else is treated as a local file path.
func (d *Downloader) GetMedia(ctx context.Context, input string) (string, string, error) {
	if IsURL(input) {
		return d.DownloadURL(ctx, input)
	}
	return d.CopyLocalFile(input)
}

// Cleanup removes the temp folder and everything in it.
func (d *Downloader) Cleanup() error {
	return os.RemoveAll(d.tempFolder)
}

func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}
	return out.Sync()
}

func tailOutput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 500 {
		return s[len(s)-500:]
	}
	return s
}
