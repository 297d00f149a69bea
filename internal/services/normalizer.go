package services

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"alfredoptarigan/resume-optimizer/internal/models"
)

// ErrNoJSONObject is returned when no JSON object can be recovered from a
// model reply.
var ErrNoJSONObject = errors.New("no JSON object found in model reply")

var fenceMarker = regexp.MustCompile("```[A-Za-z0-9_-]*[ \t]*\r?\n?")

// ExtractJSONObject recovers the JSON object a chat model returned, tolerating
// markdown code fences and prose before or after the object.
func ExtractJSONObject(reply string) (map[string]any, error) {
	cleaned := strings.TrimSpace(reply)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(fenceMarker.ReplaceAllString(cleaned, ""))
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err == nil && obj != nil {
		return obj, nil
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return nil, ErrNoJSONObject
	}

	obj = nil
	if err := json.Unmarshal([]byte(reply[start:end+1]), &obj); err != nil || obj == nil {
		return nil, ErrNoJSONObject
	}

	return obj, nil
}

// analysisFromObject maps a parsed reply onto the result, falling back per
// field when the model left something out.
func analysisFromObject(obj map[string]any, originalText string) models.AnalysisResult {
	revised := stringValue(obj["optimized_text"])
	if revised == "" {
		revised = stringValue(obj["revised_text"])
	}
	if revised == "" {
		revised = originalText
	}

	return models.AnalysisResult{
		Score:       scoreValue(obj["score"]),
		Keywords:    stringList(obj["keywords"]),
		Suggestions: stringList(obj["suggestions"]),
		RevisedText: revised,
	}
}

func scoreValue(v any) int {
	var f float64
	switch s := v.(type) {
	case float64:
		f = s
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%")), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

func stringList(v any) []string {
	out := []string{}

	items, ok := v.([]any)
	if !ok {
		return out
	}

	// items are kept verbatim; only non-strings are dropped
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
