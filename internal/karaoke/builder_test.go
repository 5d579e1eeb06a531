package karaoke

import (
	"testing"
	"time"

	"github.com/wenjiang/kara/internal/subtitle"
)

func TestFromWords(t *testing.T) {
	words := []subtitle.Word{
		{StartTime: 0, EndTime: 1390 * time.Millisecond, Text: "我"},
		{StartTime: 1390 * time.Millisecond, EndTime: 1950 * time.Millisecond, Text: "第一"},
		{StartTime: 1950 * time.Millisecond, EndTime: 2470 * time.Millisecond, Text: "吻"},
	}

	got := FromWords(words, "fallback")
	want := `{\k139}我{\k56}第一{\k52}吻`
	if got != want {
		t.Errorf("FromWords = %q, want %q", got, want)
	}
}

func TestFromWordsEmptyFallsBack(t *testing.T) {
	// a segment without word timing still renders, just without the sweep
	got := FromWords(nil, "告白気球")
	if got != "告白気球" {
		t.Errorf("FromWords = %q, want untagged fallback", got)
	}
}

func TestFromWordsClampsZeroDuration(t *testing.T) {
	words := []subtitle.Word{
		{StartTime: time.Second, EndTime: time.Second, Text: "x"},
	}

	got := FromWords(words, "")
	if got != `{\k1}x` {
		t.Errorf("FromWords = %q, want %q", got, `{\k1}x`)
	}
}

func TestRebuildExactMapping(t *testing.T) {
	original := Run{
		{Centis: 139, Text: "我"},
		{Centis: 28, Text: "第"},
		{Centis: 28, Text: "一"},
		{Centis: 52, Text: "吻"},
	}

	// same character count: every new character keeps the positional
	// duration of the original, element for element
	got := Rebuild("你要唱歌", original, 0)
	want := `{\k139}你{\k28}要{\k28}唱{\k52}歌`
	if got != want {
		t.Errorf("Rebuild = %q, want %q", got, want)
	}
}

func TestRebuildRedistributesOnCountMismatch(t *testing.T) {
	original := Run{
		{Centis: 139, Text: "我"},
		{Centis: 28, Text: "第"},
		{Centis: 28, Text: "一"},
		{Centis: 52, Text: "吻"},
	}

	// 3 new chars over total 247: 82,82,83
	got := Rebuild("唱歌吧", original, 0)
	want := `{\k82}唱{\k82}歌{\k83}吧`
	if got != want {
		t.Errorf("Rebuild = %q, want %q", got, want)
	}
}

func TestRebuildEmptyRunUsesFallback(t *testing.T) {
	got := Rebuild("四个字了", nil, 200)
	want := `{\k50}四{\k50}个{\k50}字{\k50}了`
	if got != want {
		t.Errorf("Rebuild = %q, want %q", got, want)
	}
}

func TestRebuildSingleCharacterTakesTotal(t *testing.T) {
	original := Run{
		{Centis: 100, Text: "a"},
		{Centis: 50, Text: "b"},
	}

	got := Rebuild("啊", original, 0)
	want := `{\k150}啊`
	if got != want {
		t.Errorf("Rebuild = %q, want %q", got, want)
	}
}

func TestRebuildEmptyLine(t *testing.T) {
	if got := Rebuild("   ", Run{{Centis: 100, Text: "x"}}, 0); got != "" {
		t.Errorf("Rebuild of blank line = %q, want empty", got)
	}
}
