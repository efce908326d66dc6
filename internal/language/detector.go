package language

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"resumefit/internal/errors"
	"resumefit/internal/oracle"
)

const (
	// DefaultLanguage is returned whenever detection cannot run or the
	// oracle answers with something outside the supported set.
	DefaultLanguage = "en"

	minDetectableLength = 50
	sampleLength        = 1000
	memoKeyLength       = 200
)

// supportedLanguages is the fixed ISO 639-1 set the detector may return
var supportedLanguages = map[string]bool{
	"en": true,
	"es": true,
	"fr": true,
	"de": true,
	"it": true,
	"pt": true,
	"nl": true,
	"pl": true,
	"ru": true,
	"ja": true,
	"zh": true,
	"ko": true,
	"ar": true,
	"hi": true,
	"tr": true,
	"id": true,
	"sv": true,
	"da": true,
	"no": true,
	"fi": true,
}

const detectPrompt = `Identify the dominant language of the following text.
Respond with ONLY the two-letter ISO 639-1 code (for example: en, es, fr, de).
Do not include any other text.

Text:
%s`

// Detector classifies the dominant language of input text. Results are
// memoized by a hash of the leading characters, so repeated submissions of
// the same document cost a single oracle call. The memo is unbounded for
// the process lifetime; entries are tiny (two-letter codes) and inputs are
// request-scoped, so growth is bounded in practice by traffic diversity.
type Detector struct {
	client oracle.Client
	logger *errors.Logger

	mu   sync.RWMutex
	memo map[string]string
}

// NewDetector creates a language detector backed by the given oracle client
func NewDetector(client oracle.Client, logger *errors.Logger) *Detector {
	return &Detector{
		client: client,
		logger: logger,
		memo:   make(map[string]string),
	}
}

// Detect returns the two-letter ISO 639-1 code for text. Short inputs and
// every failure mode fall back to English.
func (d *Detector) Detect(ctx context.Context, text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minDetectableLength {
		return DefaultLanguage
	}

	key := memoKey(trimmed)

	d.mu.RLock()
	if lang, ok := d.memo[key]; ok {
		d.mu.RUnlock()
		return lang
	}
	d.mu.RUnlock()

	lang := d.detect(ctx, trimmed)

	d.mu.Lock()
	d.memo[key] = lang
	d.mu.Unlock()

	return lang
}

func (d *Detector) detect(ctx context.Context, trimmed string) string {
	sample := truncate(trimmed, sampleLength)

	completion, err := d.client.Complete(ctx, oracle.CompletionRequest{
		Operation: oracle.OpDetectLanguage,
		Prompt:    fmt.Sprintf(detectPrompt, sample),
	})
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("Language detection failed, defaulting to English",
				"error", err.Error())
		}
		return DefaultLanguage
	}

	code := strings.ToLower(strings.TrimSpace(completion.Text))
	if len(code) > 2 {
		code = code[:2]
	}
	if !supportedLanguages[code] {
		if d.logger != nil {
			d.logger.Debug("Unsupported language code from oracle, defaulting to English",
				"code", code)
		}
		return DefaultLanguage
	}

	return code
}

func memoKey(text string) string {
	sum := md5.Sum([]byte(truncate(text, memoKeyLength)))
	return hex.EncodeToString(sum[:])
}

// truncate bounds text to limit bytes, cutting on a rune boundary so
// multibyte samples stay valid UTF-8
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
