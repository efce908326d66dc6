package language

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"resumefit/internal/oracle"
)

// fakeOracle returns scripted completions and counts calls
type fakeOracle struct {
	response string
	err      error
	calls    int
}

func (f *fakeOracle) Complete(ctx context.Context, req oracle.CompletionRequest) (*oracle.Completion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &oracle.Completion{Text: f.response}, nil
}

func (f *fakeOracle) GetModelInfo(ctx context.Context) *oracle.ModelInfo {
	return &oracle.ModelInfo{Available: true}
}

func (f *fakeOracle) Close() error { return nil }

func longText(lang string) string {
	return strings.Repeat("This is a sufficiently long sample of "+lang+" text. ", 5)
}

func TestDetectShortInputSkipsOracle(t *testing.T) {
	fake := &fakeOracle{response: "de"}
	d := NewDetector(fake, nil)

	inputs := []string{"", "hi", "short resume", strings.Repeat("x", 49), "   \n\t  "}
	for _, input := range inputs {
		if got := d.Detect(context.Background(), input); got != "en" {
			t.Errorf("Detect(%q) = %q, want \"en\"", input, got)
		}
	}

	if fake.calls != 0 {
		t.Errorf("Expected zero oracle calls for short inputs, got %d", fake.calls)
	}
}

func TestDetectSupportedLanguage(t *testing.T) {
	fake := &fakeOracle{response: "es"}
	d := NewDetector(fake, nil)

	if got := d.Detect(context.Background(), longText("spanish")); got != "es" {
		t.Errorf("Detect = %q, want \"es\"", got)
	}
	if fake.calls != 1 {
		t.Errorf("Expected 1 oracle call, got %d", fake.calls)
	}
}

func TestDetectNormalizesResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"uppercase", "FR", "fr"},
		{"whitespace", "  de \n", "de"},
		{"verbose prefix truncated", "french", "fr"},
		{"unsupported", "xx", "en"},
		{"garbage", "I think this is English", "en"},
		{"empty", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeOracle{response: tt.response}
			d := NewDetector(fake, nil)
			if got := d.Detect(context.Background(), longText(tt.name)); got != tt.want {
				t.Errorf("Detect = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectOracleFailureDefaultsToEnglish(t *testing.T) {
	fake := &fakeOracle{err: errors.New("oracle unavailable")}
	d := NewDetector(fake, nil)

	if got := d.Detect(context.Background(), longText("unknown")); got != "en" {
		t.Errorf("Detect = %q, want \"en\" on oracle failure", got)
	}
}

func TestDetectMemoizesByPrefix(t *testing.T) {
	fake := &fakeOracle{response: "pt"}
	d := NewDetector(fake, nil)

	text := longText("portuguese")
	first := d.Detect(context.Background(), text)
	second := d.Detect(context.Background(), text)

	if first != "pt" || second != "pt" {
		t.Errorf("Detect returned %q then %q, want \"pt\" both times", first, second)
	}
	if fake.calls != 1 {
		t.Errorf("Expected 1 oracle call for repeated input, got %d", fake.calls)
	}

	// Same leading 200 characters means the memo is shared even when the
	// tail differs.
	variant := text + " extra trailing content"
	if got := d.Detect(context.Background(), variant); got != "pt" {
		t.Errorf("Detect(variant) = %q, want memoized \"pt\"", got)
	}
	if fake.calls != 1 {
		t.Errorf("Expected memoized result for shared prefix, got %d calls", fake.calls)
	}
}

func TestDetectMemoizesFailures(t *testing.T) {
	fake := &fakeOracle{err: errors.New("timeout")}
	d := NewDetector(fake, nil)

	text := longText("flaky")
	d.Detect(context.Background(), text)
	d.Detect(context.Background(), text)

	if fake.calls != 1 {
		t.Errorf("Expected fallback result to be memoized, got %d calls", fake.calls)
	}
}

func TestTruncateCutsOnRuneBoundary(t *testing.T) {
	// Multibyte text where every byte limit falls mid-rune unless trimmed
	text := strings.Repeat("日", 400) // three bytes each

	sample := truncate(text, sampleLength)
	if !utf8.ValidString(sample) {
		t.Errorf("truncate produced invalid UTF-8 at sample length")
	}
	if len(sample) != 999 {
		t.Errorf("len(sample) = %d, want 999", len(sample))
	}

	key := truncate(text, memoKeyLength)
	if !utf8.ValidString(key) {
		t.Errorf("truncate produced invalid UTF-8 at memo key length")
	}
	if len(key) != 198 {
		t.Errorf("len(key) = %d, want 198", len(key))
	}

	if got := truncate("short", 50); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
}
