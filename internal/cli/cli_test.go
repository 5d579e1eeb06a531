package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wenjiang/kara/internal/subtitle"
)

func TestSubtitleFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    subtitle.Format
		wantErr bool
	}{
		{"srt", subtitle.FormatSRT, false},
		{"ass", subtitle.FormatASS, false},
		{"both", subtitle.FormatBoth, false},
		{"vtt", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := subtitleFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("subtitleFormat(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("subtitleFormat(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("subtitleFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTranscriptionHint(t *testing.T) {
	tests := []struct {
		name   string
		song   string
		artist string
		want   string
	}{
		{"song and artist", "甜蜜蜜", "鄧麗君", `This is the song "甜蜜蜜" by 鄧麗君.`},
		{"song only", "甜蜜蜜", "", `This is the song "甜蜜蜜".`},
		{"neither", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transcriptionHint(tt.song, tt.artist); got != tt.want {
				t.Errorf("transcriptionHint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadLyricsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lyrics.txt")

	content := "月亮代表我的心\n\n  你問我愛你有多深  \n\n我的情也真\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lyrics, err := readLyricsFile(path)
	if err != nil {
		t.Fatalf("readLyricsFile error: %v", err)
	}

	want := []string{"月亮代表我的心", "你問我愛你有多深", "我的情也真"}
	if len(lyrics) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lyrics), len(want))
	}
	for i := range want {
		if lyrics[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lyrics[i], want[i])
		}
	}
}

func TestReadLyricsFileMissing(t *testing.T) {
	if _, err := readLyricsFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
