package audio

import (
	"strings"
	"testing"
)

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp4", true},
		{"clip.MKV", true},
		{"movie.webm", true},
		{"song.mp3", false},
		{"track.wav", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsVideoFile(tt.path); got != tt.want {
				t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.FLAC", true},
		{"video.mp4", true},
		{"lyrics.txt", false},
		{"subs.ass", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsMediaFile(tt.path); got != tt.want {
				t.Errorf("IsMediaFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestKTVFilterLayout(t *testing.T) {
	// left channel must come from the instrumental alone, right from the
	// combined mix
	if !strings.Contains(ktvFilter, "map=0.0-FL|1.0-FR") {
		t.Error("filter should join instrumental to FL and full mix to FR")
	}
	if !strings.Contains(ktvFilter, "amix=inputs=2") {
		t.Error("filter should mix instrumental and vocals for the right channel")
	}
}

func TestDefaultCompressionOptions(t *testing.T) {
	opts := DefaultCompressionOptions()
	if opts.Format != "mp3" {
		t.Errorf("Format = %q, want mp3", opts.Format)
	}
	if opts.Channels != 1 {
		t.Errorf("Channels = %d, want 1", opts.Channels)
	}
}
