// Package lyrics corrects machine-transcribed lyric lines against the
// real song lyrics using an LLM, keeping line indices stable so timing
// can be re-applied afterwards.
package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const DefaultBatchSize = 50

// single transcribed line to correct
type Item struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// corrected line
type Result struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// interface for lyric correction
type Corrector interface {
	Correct(ctx context.Context, items []Item) ([]Result, error)
}

// optional interface for correctors that support concurrent batch processing
type ConcurrentCorrector interface {
	Corrector
	CorrectWithConcurrency(
		ctx context.Context,
		items []Item,
		concurrency int,
	) ([]Result, error)
}

// correction service provider
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
)

type Options struct {
	Song      string // Song title, helps the model find the right lyrics
	Artist    string
	Language  string
	Model     string
	Prompt    string
	BatchSize int // items per API request (default 50)
}

// creates Corrector based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Corrector, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicCorrector(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported correction provider: %s", provider)
	}
}

// BuildPrompt creates the correction prompt for LLM providers
func BuildPrompt(opts Options, items []Item) string {
	var sb strings.Builder

	sb.WriteString(
		"The following lines were transcribed automatically from a song recording ",
	)
	sb.WriteString("and may contain mishearings. Correct each line to the actual lyrics.\n\n")

	if opts.Song != "" && opts.Artist != "" {
		sb.WriteString(fmt.Sprintf(
			"The song is %q by %s.\n", opts.Song, opts.Artist,
		))
	} else if opts.Song != "" {
		sb.WriteString(fmt.Sprintf("The song is %q.\n", opts.Song))
	}
	if opts.Language != "" {
		sb.WriteString(fmt.Sprintf("The lyrics are in %s.\n", opts.Language))
	}
	sb.WriteString("\n")

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Correct ONLY mistranscribed words; keep correct lines unchanged.\n")
	sb.WriteString("2. Do not merge, split, or reorder lines.\n")
	sb.WriteString("3. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("4. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString("5. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("6. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		sb.WriteString(
			fmt.Sprintf("Additional instructions: %s\n\n", opts.Prompt),
		)
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the corrected JSON array only:")

	return sb.String()
}

func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	jsonBlockRegex := regexp.MustCompile("```(?:json)?\\s*")
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	s = strings.TrimSpace(s)

	return s
}

// fixes invalid JSON escape sequences like \N (ASS line break).
// It replaces \N with \\N so JSON can parse it, preserving the literal \N
// in the output.
func fixInvalidEscapes(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	i := 0
	for i < len(s) {
		if i < len(s)-1 && s[i] == '\\' {
			next := s[i+1]
			// Valid JSON escape sequences: ", \, /, b, f, n, r, t, u
			switch next {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
				result.WriteByte(s[i])
				result.WriteByte(s[i+1])
				i += 2
			default:
				// Invalid escape like \N - escape the backslash
				result.WriteString("\\\\")
				result.WriteByte(next)
				i += 2
			}
		} else {
			result.WriteByte(s[i])
			i++
		}
	}

	return result.String()
}

func extractResults(text string) ([]Result, error) {
	text = fixInvalidEscapes(text)

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			continue
		}
		if results, ok := tryExtractResults(raw); ok && len(results) > 0 {
			return results, nil
		}
	}
	return nil, fmt.Errorf("no valid correction JSON found in response")
}

func tryExtractResults(raw json.RawMessage) ([]Result, bool) {
	var results []Result
	if err := json.Unmarshal(raw, &results); err == nil &&
		validateResults(results) {
		return results, true
	}

	wrapperKeys := []string{"results", "corrections", "lyrics", "data", "items"}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, false
	}

	for _, key := range wrapperKeys {
		if fieldRaw, exists := wrapper[key]; exists {
			var fieldResults []Result
			if err := json.Unmarshal(
				fieldRaw,
				&fieldResults,
			); err == nil && validateResults(fieldResults) {
				return fieldResults, true
			}
		}
	}

	for _, fieldRaw := range wrapper {
		var fieldResults []Result
		if err := json.Unmarshal(
			fieldRaw,
			&fieldResults,
		); err == nil && validateResults(fieldResults) {
			return fieldResults, true
		}
	}

	return nil, false
}

func validateResults(results []Result) bool {
	for _, r := range results {
		if r.Text != "" {
			return true
		}
	}
	return false
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
