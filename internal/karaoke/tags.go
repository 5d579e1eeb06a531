// Package karaoke implements the KTV subtitle timing engine: inline
// {\k} duration tags, duration-preserving re-timing of tagged lines,
// and the dual-track "current + next line" event layout.
package karaoke

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// inline duration tag, duration in centiseconds
var tagPattern = regexp.MustCompile(`\{\\k(\d+)\}`)

// Unit is one swept unit of tagged text: the sweep duration and the
// text it covers (a single character or a whole word).
type Unit struct {
	Centis int
	Text   string
}

// Run is an ordered sequence of units. For a run derived from tagged
// text, summing the durations reconstructs the line's total tagged
// duration exactly.
type Run []Unit

// Total sums the run's durations.
func (r Run) Total() int {
	total := 0
	for _, u := range r {
		total += u.Centis
	}
	return total
}

// Text concatenates the run's units back into untagged text.
func (r Run) Text() string {
	var sb strings.Builder
	for _, u := range r {
		sb.WriteString(u.Text)
	}
	return sb.String()
}

// Tag renders one inline duration tag.
func Tag(centis int) string {
	return fmt.Sprintf("{\\k%d}", centis)
}

// TotalTagged sums every duration tag found in text. If there are no
// tags, or the sum is not positive, fallbackCentis is returned instead.
func TotalTagged(text string, fallbackCentis int) int {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return fallbackCentis
	}

	total := 0
	for _, m := range matches {
		n, _ := strconv.Atoi(m[1])
		total += n
	}

	if total <= 0 {
		return fallbackCentis
	}
	return total
}

// ExplodeTags splits tagged text into one unit per character. Each
// tag's duration is divided evenly over the characters that follow it
// (up to the next tag), with the remainder assigned to the run's last
// character so the per-character durations sum back to the tag value.
// A tag with no following text contributes nothing.
func ExplodeTags(text string) Run {
	matches := tagPattern.FindAllStringSubmatchIndex(text, -1)

	var run Run
	for i, m := range matches {
		centis, _ := strconv.Atoi(text[m[2]:m[3]])

		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		chars := []rune(text[start:end])
		n := len(chars)
		if n == 0 {
			continue
		}

		if n == 1 {
			run = append(run, Unit{Centis: max(1, centis), Text: string(chars[0])})
			continue
		}

		per := max(1, centis/n)
		last := max(1, centis-per*(n-1))

		for j, ch := range chars {
			d := per
			if j == n-1 {
				d = last
			}
			run = append(run, Unit{Centis: d, Text: string(ch)})
		}
	}

	return run
}

// Redistribute divides a total duration across the given number of
// units: integer division per unit, all remainder on the last unit, and
// every unit at least 1 centisecond. When totalCentis < units the sum
// therefore exceeds the nominal total; the per-unit floor wins.
func Redistribute(totalCentis, units int) []int {
	if units <= 0 {
		return nil
	}
	if units == 1 {
		return []int{max(1, totalCentis)}
	}

	per := max(1, totalCentis/units)
	last := max(1, totalCentis-per*(units-1))

	out := make([]int, units)
	for i := 0; i < units-1; i++ {
		out[i] = per
	}
	out[units-1] = last
	return out
}
