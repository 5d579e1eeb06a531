package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDoc = `[Script Info]
Title: KTV Karaoke Subtitles
ScriptType: v4.00+
PlayResX: 1280
PlayResY: 720

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: LeftLine,Arial,48,&H00FFFFFF,&H00FF0000,&H00000000,&H64000000,-1,0,0,0,100,100,0,0,1,3,0,1,260,10,90,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:04.00,LeftLine,,0,0,0,,{\k100}首{\k200}句
Comment: 0,0:00:01.00,0:00:04.00,LeftLine,,0,0,0,,ignored
Dialogue: 0,0:00:01.00,0:00:05.00,RightLine,,0,0,0,,下一句
`

func writeTestDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ass")
	if err := os.WriteFile(path, []byte(testDoc), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestOpenDocument(t *testing.T) {
	doc, err := OpenDocument(writeTestDoc(t))
	if err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	dialogues := doc.Dialogues()
	if len(dialogues) != 2 {
		t.Fatalf("expected 2 dialogues, got %d", len(dialogues))
	}

	if dialogues[0].Text != `{\k100}首{\k200}句` {
		t.Errorf("dialogue 0 text: got %q", dialogues[0].Text)
	}
	if dialogues[1].Style != "RightLine" {
		t.Errorf("dialogue 1 style: got %q", dialogues[1].Style)
	}
}

func TestDocumentWritePreservesNonDialogueLines(t *testing.T) {
	doc, err := OpenDocument(writeTestDoc(t))
	if err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	d := doc.Dialogues()[0]
	d.Text = `{\k150}新{\k150}词`
	if err := doc.SetDialogue(0, d); err != nil {
		t.Fatalf("SetDialogue failed: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "out.ass")
	if err := doc.Write(outPath); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	outStr := string(out)

	if !strings.Contains(outStr, "Style: LeftLine,Arial,48") {
		t.Error("style line not preserved")
	}
	if !strings.Contains(outStr, "Comment: 0,0:00:01.00,0:00:04.00,LeftLine,,0,0,0,,ignored") {
		t.Error("comment line not preserved")
	}
	if !strings.Contains(outStr, `{\k150}新{\k150}词`) {
		t.Error("modified dialogue not written")
	}
	if strings.Contains(outStr, `{\k100}首`) {
		t.Error("original dialogue text still present")
	}
	if !strings.Contains(outStr, ",下一句") {
		t.Error("untouched dialogue changed")
	}
}

func TestSetDialogueOutOfRange(t *testing.T) {
	doc, err := OpenDocument(writeTestDoc(t))
	if err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	if err := doc.SetDialogue(5, Dialogue{}); err == nil {
		t.Error("expected error for out of range index")
	}
}
