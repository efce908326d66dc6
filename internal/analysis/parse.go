package analysis

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoObject is returned when a completion contains no JSON object at all
var ErrNoObject = errors.New("no JSON object found in oracle response")

// StripFences removes a markdown code fence wrapping around text, if present.
// The oracle frequently wraps JSON in ```json fences despite instructions.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag on the opening fence line.
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "json")
	}

	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}

	return strings.TrimSpace(trimmed)
}

// ExtractObject locates the outermost JSON object in text. Oracles sometimes
// prepend or append prose around the object.
func ExtractObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}

// decodeObject strips fences, isolates the JSON object and unmarshals it
// into out. Any failure is returned to the caller, which substitutes the
// stage's documented default.
func decodeObject(text string, out any) error {
	payload := ExtractObject(StripFences(text))
	if payload == "" {
		return ErrNoObject
	}
	return json.Unmarshal([]byte(payload), out)
}
