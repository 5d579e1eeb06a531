package lyrics

import (
	"context"
	"strings"
	"testing"
)

func TestFactoryReturnsAnthropicCorrector(t *testing.T) {
	ctx := context.Background()
	opts := Options{Song: "月亮代表我的心", Artist: "鄧麗君"}
	corrector, err := Factory(ctx, ProviderAnthropic, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderAnthropic) returned error: %v", err)
	}
	if _, ok := corrector.(*AnthropicCorrector); !ok {
		t.Errorf("expected *AnthropicCorrector, got %T", corrector)
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	ctx := context.Background()
	_, err := Factory(ctx, Provider("unknown"), "fake-key", Options{})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	ctx := context.Background()
	_, err := Factory(ctx, ProviderAnthropic, "", Options{})
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestAnthropicCorrectorImplementsConcurrentCorrector(t *testing.T) {
	ctx := context.Background()
	corrector, err := Factory(ctx, ProviderAnthropic, "fake-key", Options{})
	if err != nil {
		t.Fatalf("Factory error: %v", err)
	}
	if _, ok := corrector.(ConcurrentCorrector); !ok {
		t.Error("AnthropicCorrector should implement ConcurrentCorrector")
	}
}

func TestBuildPromptIncludesSongContext(t *testing.T) {
	opts := Options{
		Song:     "你怎麼說",
		Artist:   "鄧麗君",
		Language: "Mandarin Chinese",
	}
	items := []Item{
		{Index: 0, Text: "我沒忘記你忘記我"},
		{Index: 1, Text: "連名字你都說錯"},
	}

	prompt := BuildPrompt(opts, items)

	for _, want := range []string{
		"你怎麼說",
		"鄧麗君",
		"Mandarin Chinese",
		"我沒忘記你忘記我",
		`"index"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExtractResults(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "plain array",
			input:     `[{"index": 0, "text": "月亮代表我的心"}]`,
			wantCount: 1,
		},
		{
			name:      "array with leading prose",
			input:     `Here are the corrections: [{"index": 0, "text": "line"}]`,
			wantCount: 1,
		},
		{
			name:      "wrapped in results key",
			input:     `{"results": [{"index": 0, "text": "a"}, {"index": 1, "text": "b"}]}`,
			wantCount: 2,
		},
		{
			name:      "wrapped in corrections key",
			input:     `{"corrections": [{"index": 0, "text": "a"}]}`,
			wantCount: 1,
		},
		{
			name:      "invalid ASS escape in text",
			input:     `[{"index": 0, "text": "first\Nsecond"}]`,
			wantCount: 1,
		},
		{
			name:    "no JSON at all",
			input:   "I cannot help with that.",
			wantErr: true,
		},
		{
			name:    "empty results",
			input:   `[]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractResults(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(results), tt.wantCount)
			}
		})
	}
}

func TestExtractResultsPreservesEscapedLineBreak(t *testing.T) {
	results, err := extractResults(`[{"index": 0, "text": "first\Nsecond"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Text != `first\Nsecond` {
		t.Errorf("got %q, want literal backslash-N preserved", results[0].Text)
	}
}

func TestFixInvalidEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "invalid escape",
			input: `"a\Nb"`,
			want:  `"a\\Nb"`,
		},
		{
			name:  "valid escapes untouched",
			input: `"a\nb\tc\"d"`,
			want:  `"a\nb\tc\"d"`,
		},
		{
			name:  "no escapes",
			input: `"plain"`,
			want:  `"plain"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fixInvalidEscapes(tt.input); got != tt.want {
				t.Errorf("fixInvalidEscapes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
