package karaoke

import (
	"fmt"
	"strings"

	"github.com/wenjiang/kara/internal/subtitle"
)

// Policy controls how sung lines alternate between the two on-screen
// slots. Even-indexed lines take FirstStyle, odd-indexed SecondStyle.
type Policy struct {
	FirstStyle  string
	SecondStyle string
}

func DefaultPolicy() Policy {
	return Policy{
		FirstStyle:  "LeftLine",
		SecondStyle: "RightLine",
	}
}

func (p Policy) styleFor(index int) string {
	if index%2 == 0 {
		return p.FirstStyle
	}
	return p.SecondStyle
}

// colours are BGR. In most players PrimaryColour is the unsung colour
// and SecondaryColour the sweep; here white unsung, blue sweep.
const headerTemplate = `[Script Info]
Title: %s
ScriptType: v4.00+
WrapStyle: 0
PlayResX: 1280
PlayResY: 720
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: %s,Arial,48,&H00FFFFFF,&H00FF0000,&H00000000,&H64000000,-1,0,0,0,100,100,0,0,1,3,0,1,260,10,90,1
Style: %s,Arial,48,&H00FFFFFF,&H00FF0000,&H00000000,&H64000000,-1,0,0,0,100,100,0,0,1,3,0,3,260,260,50,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`

// Engine lays out the dual-track karaoke event stream: one tagged
// "singing" event per segment plus one untagged "preview" event per
// adjacent pair, so the upcoming line stays visible with no gap while
// the current one is sung.
type Engine struct {
	Policy Policy
	Title  string
}

func NewEngine(title string) *Engine {
	if title == "" {
		title = "KTV Karaoke Subtitles"
	}
	return &Engine{
		Policy: DefaultPolicy(),
		Title:  title,
	}
}

// Header returns the static script info, styles and events preamble.
func (e *Engine) Header() string {
	return fmt.Sprintf(
		headerTemplate,
		e.Title,
		e.Policy.FirstStyle,
		e.Policy.SecondStyle,
	)
}

// Events builds the full ordered event list: all singing events first,
// then all preview events, as generated. Singing and preview events for
// the same interval overlap on purpose; they occupy different slots.
func (e *Engine) Events(segments []subtitle.Segment) []subtitle.Dialogue {
	kept := make([]subtitle.Segment, 0, len(segments))
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		if seg.EndTime <= seg.StartTime {
			continue
		}
		kept = append(kept, seg)
	}

	var events []subtitle.Dialogue

	for i, seg := range kept {
		text := FromWords(seg.Words, strings.TrimSpace(seg.Text))
		events = append(events, subtitle.NewDialogue(
			seg.StartTime,
			seg.EndTime,
			e.Policy.styleFor(i),
			text,
		))
	}

	// the preview for segment i+1 runs from the moment segment i starts
	// until segment i+1 starts singing, covering any silence in between
	for i := 0; i+1 < len(kept); i++ {
		cur := kept[i]
		next := kept[i+1]

		end := cur.EndTime
		if next.StartTime > end {
			end = next.StartTime
		}
		if end <= cur.StartTime {
			continue
		}

		events = append(events, subtitle.NewDialogue(
			cur.StartTime,
			end,
			e.Policy.styleFor(i+1),
			strings.TrimSpace(next.Text),
		))
	}

	return events
}
