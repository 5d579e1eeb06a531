package karaoke

import (
	"strings"

	"github.com/wenjiang/kara/internal/subtitle"
)

// FromWords builds word-granularity tagged text from word timestamps.
// Without word timing the line still renders, just without the sweep:
// the fallback text is returned untagged.
func FromWords(words []subtitle.Word, fallback string) string {
	if len(words) == 0 {
		return fallback
	}

	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(Tag(subtitle.Centiseconds(w.EndTime - w.StartTime)))
		sb.WriteString(w.Text)
	}
	return sb.String()
}

// Rebuild re-times new text onto an existing run. When the new text has
// exactly as many characters as the run, each character takes the same
// positional duration, so the original timing survives a lyric change
// with zero drift. Otherwise the run's total (or fallbackCentis for an
// empty run) is redistributed across the new characters.
func Rebuild(newText string, original Run, fallbackCentis int) string {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return ""
	}

	chars := []rune(newText)

	if len(original) > 0 && len(original) == len(chars) {
		var sb strings.Builder
		for i, ch := range chars {
			sb.WriteString(Tag(max(1, original[i].Centis)))
			sb.WriteRune(ch)
		}
		return sb.String()
	}

	total := original.Total()
	if total <= 0 {
		total = fallbackCentis
	}

	durations := Redistribute(max(1, total), len(chars))

	var sb strings.Builder
	for i, ch := range chars {
		sb.WriteString(Tag(durations[i]))
		sb.WriteRune(ch)
	}
	return sb.String()
}
