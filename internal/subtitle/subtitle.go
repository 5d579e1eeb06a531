package subtitle

import (
	"time"
)

// single word with its own timing inside a segment
type Word struct {
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// represents transcribed audio segment, optionally with word-level timing
type Segment struct {
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
	Words     []Word
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT  Format = "srt"
	FormatASS  Format = "ass"
	FormatBoth Format = "both"
)
