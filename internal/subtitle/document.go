package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Document is a parsed ASS file. Every line is preserved in order;
// Dialogue lines are additionally parsed into events that can be swapped
// out in place, so a read/modify/write cycle leaves header, styles and
// comments untouched.
type Document struct {
	lines         []string
	dialogueLines []int
	dialogues     []Dialogue
}

func OpenDocument(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ASS file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	doc := &Document{}

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		// non-Dialogue lines (header, styles, comments) pass through untouched
		if d, err := ParseDialogue(line); err == nil {
			doc.dialogueLines = append(doc.dialogueLines, len(doc.lines))
			doc.dialogues = append(doc.dialogues, d)
		}

		doc.lines = append(doc.lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS file: %w", err)
	}

	return doc, nil
}

// Dialogues returns the parsed events in document order.
func (doc *Document) Dialogues() []Dialogue {
	out := make([]Dialogue, len(doc.dialogues))
	copy(out, doc.dialogues)
	return out
}

// SetDialogue replaces the event at the given position (document order).
func (doc *Document) SetDialogue(index int, d Dialogue) error {
	if index < 0 || index >= len(doc.dialogues) {
		return fmt.Errorf(
			"dialogue index %d out of range (0-%d)",
			index,
			len(doc.dialogues)-1,
		)
	}
	doc.dialogues[index] = d
	return nil
}

// Write renders the document back out, serializing the current state of
// each event into its original line position.
func (doc *Document) Write(path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ASS file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	writer := bufio.NewWriter(file)

	dialogue := 0
	for i, line := range doc.lines {
		if dialogue < len(doc.dialogueLines) && doc.dialogueLines[dialogue] == i {
			line = doc.dialogues[dialogue].String()
			dialogue++
		}
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}
