package download

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://www.youtube.com/watch?v=abc123", true},
		{"http://example.com/song.mp4", true},
		{"/home/user/song.mp3", false},
		{"song.mp3", false},
		{"ftp://example.com/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsURL(tt.input); got != tt.want {
				t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCopyLocalFile(t *testing.T) {
	srcDir := t.TempDir()
	tempDir := t.TempDir()

	src := filepath.Join(srcDir, "夜來香.mp3")
	if err := os.WriteFile(src, []byte("audio data"), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDownloader(tempDir)
	path, title, err := d.CopyLocalFile(src)
	if err != nil {
		t.Fatalf("CopyLocalFile error: %v", err)
	}

	if title != "夜來香" {
		t.Errorf("title = %q, want 夜來香", title)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("copy not readable: %v", err)
	}
	if string(data) != "audio data" {
		t.Errorf("copy content = %q", data)
	}
}

func TestCopyLocalFileMissing(t *testing.T) {
	d := NewDownloader(t.TempDir())
	if _, _, err := d.CopyLocalFile("/nonexistent/file.mp3"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCleanup(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "work")
	d := NewDownloader(tempDir)

	src := filepath.Join(t.TempDir(), "a.mp3")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := d.CopyLocalFile(src); err != nil {
		t.Fatal(err)
	}

	if err := d.Cleanup(); err != nil {
		t.Fatalf("Cleanup error: %v", err)
	}
	if _, err := os.Stat(tempDir); !os.IsNotExist(err) {
		t.Error("temp folder still exists after Cleanup")
	}
}
