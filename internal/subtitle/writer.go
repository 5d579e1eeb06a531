package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteSRT writes one record per segment: sequence number, timestamp
// range, text, blank line.
func WriteSRT(segments []Segment, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder
	index := 1
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		sb.WriteString(fmt.Sprintf("%d\n", index))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatSRTTime(seg.StartTime),
			FormatSRTTime(seg.EndTime)))
		sb.WriteString(text)
		sb.WriteString("\n\n")
		index++
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// WriteASS writes a complete ASS document: the static header (script
// info, styles, events format line) followed by the events in stream
// order. Event order is preserved as given; players render by timestamp.
func WriteASS(header string, events []Dialogue, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(header)
	for _, ev := range events {
		sb.WriteString(ev.String())
		sb.WriteString("\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
