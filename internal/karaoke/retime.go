package karaoke

import (
	"strings"

	"github.com/wenjiang/kara/internal/subtitle"
)

// Report summarizes a re-timing pass over a karaoke document.
type Report struct {
	TaggedLines     int
	Lyrics          int
	Applied         int
	PreviewsUpdated int
}

// Mismatch reports whether the lyric count differed from the number of
// tagged lines, i.e. only a prefix of the document was rewritten.
func (r *Report) Mismatch() bool {
	return r.TaggedLines != r.Lyrics
}

// Retime rewrites the sung lines of an existing karaoke document with
// the replacement lyrics, in document order, preserving each line's
// original per-character timing wherever the character count allows the
// exact mapping. Untagged events are treated as preview lines and
// updated to show the following lyric. If the counts differ only the
// overlapping prefix is touched; the caller surfaces that via the
// report. A document with no tagged lines is left unmodified.
func Retime(doc *subtitle.Document, lyrics []string) (*Report, error) {
	dialogues := doc.Dialogues()

	var sung, preview []int
	for i, d := range dialogues {
		if strings.Contains(d.Text, `\k`) {
			sung = append(sung, i)
		} else {
			preview = append(preview, i)
		}
	}

	report := &Report{
		TaggedLines: len(sung),
		Lyrics:      len(lyrics),
	}

	if len(sung) == 0 {
		return report, nil
	}

	pairs := min(len(sung), len(lyrics))
	for i := 0; i < pairs; i++ {
		d := dialogues[sung[i]]

		start, err := d.StartDuration()
		if err != nil {
			return nil, err
		}
		end, err := d.EndDuration()
		if err != nil {
			return nil, err
		}

		// total sweep time comes from the existing tags; the event span
		// only serves as fallback when the line carries no usable tags
		fallback := subtitle.Centiseconds(end - start)
		total := TotalTagged(d.Text, fallback)

		d.Text = Rebuild(lyrics[i], ExplodeTags(d.Text), total)
		if err := doc.SetDialogue(sung[i], d); err != nil {
			return nil, err
		}
		report.Applied++
	}

	// preview i shows the line that will be sung next
	previews := min(len(preview), max(0, len(lyrics)-1))
	for i := 0; i < previews; i++ {
		d := dialogues[preview[i]]
		d.Text = strings.TrimSpace(lyrics[i+1])
		if err := doc.SetDialogue(preview[i], d); err != nil {
			return nil, err
		}
		report.PreviewsUpdated++
	}

	return report, nil
}
