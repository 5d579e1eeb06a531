package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// returned when a line does not start with the Dialogue keyword
var ErrNotDialogue = fmt.Errorf("not a Dialogue line")

const dialogueFieldCount = 10

// Dialogue is one renderable event line in an ASS [Events] section.
// All fields are kept as text so a parse/serialize round trip is exact.
type Dialogue struct {
	Layer   string
	Start   string
	End     string
	Style   string
	Name    string
	MarginL string
	MarginR string
	MarginV string
	Effect  string
	Text    string
}

// builds an event with the zero margins and layer the generator always uses
func NewDialogue(start, end time.Duration, style, text string) Dialogue {
	return Dialogue{
		Layer:   "0",
		Start:   FormatASSTime(start),
		End:     FormatASSTime(end),
		Style:   style,
		MarginL: "0",
		MarginR: "0",
		MarginV: "0",
		Text:    text,
	}
}

// ParseDialogue parses an event line into its ten fields. The Text field
// may itself contain commas, so the split is bounded at ten pieces and
// everything past the ninth comma stays in Text verbatim. Short lines are
// padded with empty fields rather than rejected.
func ParseDialogue(line string) (Dialogue, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "Dialogue:") {
		return Dialogue{}, ErrNotDialogue
	}

	content := strings.TrimPrefix(trimmed, "Dialogue:")
	content = strings.TrimSpace(content)

	parts := strings.SplitN(content, ",", dialogueFieldCount)
	for len(parts) < dialogueFieldCount {
		parts = append(parts, "")
	}

	return Dialogue{
		Layer:   parts[0],
		Start:   parts[1],
		End:     parts[2],
		Style:   parts[3],
		Name:    parts[4],
		MarginL: parts[5],
		MarginR: parts[6],
		MarginV: parts[7],
		Effect:  parts[8],
		Text:    parts[9],
	}, nil
}

// String serializes the event back into a Dialogue line, fields in the
// fixed [Events] Format order.
func (d Dialogue) String() string {
	fields := []string{
		d.Layer,
		d.Start,
		d.End,
		d.Style,
		d.Name,
		d.MarginL,
		d.MarginR,
		d.MarginV,
		d.Effect,
		d.Text,
	}
	return "Dialogue: " + strings.Join(fields, ",")
}

// StartDuration parses the event's start timestamp.
func (d Dialogue) StartDuration() (time.Duration, error) {
	return ParseASSTime(d.Start)
}

// EndDuration parses the event's end timestamp.
func (d Dialogue) EndDuration() (time.Duration, error) {
	return ParseASSTime(d.End)
}
