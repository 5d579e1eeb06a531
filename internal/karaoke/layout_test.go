package karaoke

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/wenjiang/kara/internal/subtitle"
)

func TestEngineEvents(t *testing.T) {
	segments := []subtitle.Segment{
		{StartTime: 0, EndTime: 2 * time.Second, Text: "A"},
		{StartTime: 2500 * time.Millisecond, EndTime: 4 * time.Second, Text: "B"},
	}

	events := NewEngine("").Events(segments)

	// two singing events plus one preview
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	sing0 := events[0]
	if sing0.Start != "0:00:00.00" || sing0.End != "0:00:02.00" {
		t.Errorf("singing 0 span: %s-%s", sing0.Start, sing0.End)
	}
	if sing0.Style != "LeftLine" || sing0.Text != "A" {
		t.Errorf("singing 0: style %q text %q", sing0.Style, sing0.Text)
	}

	sing1 := events[1]
	if sing1.Start != "0:00:02.50" || sing1.End != "0:00:04.00" {
		t.Errorf("singing 1 span: %s-%s", sing1.Start, sing1.End)
	}
	if sing1.Style != "RightLine" || sing1.Text != "B" {
		t.Errorf("singing 1: style %q text %q", sing1.Style, sing1.Text)
	}

	// preview of B runs from the start of A until B starts singing,
	// bridging the half second of silence between the segments
	preview := events[2]
	if preview.Start != "0:00:00.00" || preview.End != "0:00:02.50" {
		t.Errorf("preview span: %s-%s", preview.Start, preview.End)
	}
	if preview.Style != "RightLine" || preview.Text != "B" {
		t.Errorf("preview: style %q text %q", preview.Style, preview.Text)
	}
}

func TestEngineEventsWordTags(t *testing.T) {
	segments := []subtitle.Segment{
		{
			StartTime: 0,
			EndTime:   2 * time.Second,
			Text:      "两个词",
			Words: []subtitle.Word{
				{StartTime: 0, EndTime: time.Second, Text: "两个"},
				{StartTime: time.Second, EndTime: 2 * time.Second, Text: "词"},
			},
		},
		{StartTime: 2 * time.Second, EndTime: 3 * time.Second, Text: "下一句"},
	}

	events := NewEngine("").Events(segments)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	if events[0].Text != `{\k100}两个{\k100}词` {
		t.Errorf("singing text: %q", events[0].Text)
	}

	// previews never carry sweep tags
	if strings.Contains(events[2].Text, `\k`) {
		t.Errorf("preview carries karaoke tags: %q", events[2].Text)
	}
}

func TestEngineSkipsEmptyAndDegenerateSegments(t *testing.T) {
	segments := []subtitle.Segment{
		{StartTime: 0, EndTime: time.Second, Text: "  "},
		{StartTime: time.Second, EndTime: time.Second, Text: "zero span"},
		{StartTime: 2 * time.Second, EndTime: time.Second, Text: "negative span"},
		{StartTime: 3 * time.Second, EndTime: 4 * time.Second, Text: "kept"},
	}

	events := NewEngine("").Events(segments)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Text != "kept" {
		t.Errorf("unexpected event text %q", events[0].Text)
	}
	// the only surviving segment is first in sequence, so it takes the
	// first slot
	if events[0].Style != "LeftLine" {
		t.Errorf("unexpected style %q", events[0].Style)
	}
}

func TestEnginePreviewCoverageTilesTimeline(t *testing.T) {
	gofakeit.Seed(11)

	// alternating contiguous and gapped segments
	var segments []subtitle.Segment
	cursor := time.Duration(0)
	for i := 0; i < 12; i++ {
		start := cursor
		end := start + time.Duration(1+i%3)*time.Second
		cursor = end
		if i%2 == 1 {
			cursor += 700 * time.Millisecond // silence between phrases
		}
		segments = append(segments, subtitle.Segment{
			StartTime: start,
			EndTime:   end,
			Text:      gofakeit.Sentence(3),
		})
	}

	events := NewEngine("").Events(segments)
	previews := events[len(segments):]
	if len(previews) != len(segments)-1 {
		t.Fatalf("expected %d previews, got %d", len(segments)-1, len(previews))
	}

	for i, p := range previews {
		cur := segments[i]
		next := segments[i+1]

		wantEnd := cur.EndTime
		if next.StartTime > wantEnd {
			wantEnd = next.StartTime
		}

		if p.Start != subtitle.FormatASSTime(cur.StartTime) {
			t.Errorf("preview %d start %s, want %s", i, p.Start, subtitle.FormatASSTime(cur.StartTime))
		}
		if p.End != subtitle.FormatASSTime(wantEnd) {
			t.Errorf("preview %d end %s, want %s", i, p.End, subtitle.FormatASSTime(wantEnd))
		}

		// consecutive preview windows hand over exactly at the next
		// segment's start: no rendering gap
		if i > 0 {
			prevEnd, err := subtitle.ParseASSTime(previews[i-1].End)
			if err != nil {
				t.Fatalf("preview %d end unparseable: %v", i-1, err)
			}
			start, err := subtitle.ParseASSTime(p.Start)
			if err != nil {
				t.Fatalf("preview %d start unparseable: %v", i, err)
			}
			if prevEnd < start {
				t.Errorf("gap between preview %d end %s and preview %d start %s",
					i-1, previews[i-1].End, i, p.Start)
			}
		}
	}
}

func TestEngineHeader(t *testing.T) {
	e := NewEngine("My Song")
	e.Policy = Policy{FirstStyle: "Top", SecondStyle: "Bottom"}

	header := e.Header()
	if !strings.Contains(header, "Title: My Song") {
		t.Error("title missing from header")
	}
	if !strings.Contains(header, "Style: Top,Arial,48") {
		t.Error("first style missing from header")
	}
	if !strings.Contains(header, "Style: Bottom,Arial,48") {
		t.Error("second style missing from header")
	}
	if !strings.Contains(header, "PlayResX: 1280") {
		t.Error("canvas resolution missing from header")
	}
	if !strings.HasSuffix(header, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n") {
		t.Error("events format line must close the header")
	}
}
