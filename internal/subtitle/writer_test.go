package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteSRT(t *testing.T) {
	segments := []Segment{
		{StartTime: 0, EndTime: 2 * time.Second, Text: "first line"},
		{StartTime: 2500 * time.Millisecond, EndTime: 4 * time.Second, Text: " second line "},
		{StartTime: 5 * time.Second, EndTime: 6 * time.Second, Text: "   "},
	}

	path := filepath.Join(t.TempDir(), "out.srt")
	if err := WriteSRT(segments, path); err != nil {
		t.Fatalf("WriteSRT failed: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	want := "1\n" +
		"00:00:00,000 --> 00:00:02,000\n" +
		"first line\n\n" +
		"2\n" +
		"00:00:02,500 --> 00:00:04,000\n" +
		"second line\n\n"

	if string(out) != want {
		t.Errorf("SRT output:\n%q\nwant:\n%q", string(out), want)
	}
}

func TestWriteASS(t *testing.T) {
	header := "[Script Info]\nTitle: test\n\n[Events]\nFormat: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n"
	events := []Dialogue{
		NewDialogue(0, 2*time.Second, "LeftLine", `{\k200}A`),
		NewDialogue(0, 2500*time.Millisecond, "RightLine", "B"),
	}

	path := filepath.Join(t.TempDir(), "out.ass")
	if err := WriteASS(header, events, path); err != nil {
		t.Fatalf("WriteASS failed: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	outStr := string(out)

	if !strings.HasPrefix(outStr, header) {
		t.Error("header not written first")
	}

	lines := strings.Split(strings.TrimRight(outStr, "\n"), "\n")
	last := lines[len(lines)-1]
	secondLast := lines[len(lines)-2]

	// stream order must be preserved, not re-sorted
	if secondLast != `Dialogue: 0,0:00:00.00,0:00:02.00,LeftLine,,0,0,0,,{\k200}A` {
		t.Errorf("unexpected first event line: %q", secondLast)
	}
	if last != "Dialogue: 0,0:00:00.00,0:00:02.50,RightLine,,0,0,0,,B" {
		t.Errorf("unexpected second event line: %q", last)
	}
}
