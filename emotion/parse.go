package emotion

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cognora/checkin-pipeline/model"
)

// Marker reasons carried in EmotionRecord.Error.
const (
	MarkerMalformed   = "malformed_json"
	MarkerUnavailable = "interpreter_unavailable"
)

// Parse failure kinds.
const (
	KindNoObject = "no_object"
	KindSyntax   = "syntax"
	KindSchema   = "schema"
)

// ParseError describes why a provider reply could not be decoded.
type ParseError struct {
	Kind string
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "emotion parse: " + e.Kind
	}
	return fmt.Sprintf("emotion parse: %s: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// reply mirrors the JSON contract in the prompt. Pointers distinguish a
// missing key from a zero value.
type reply struct {
	PrimaryEmotion     *string  `json:"primary_emotion"`
	Confidence         *float64 `json:"confidence"`
	Intensity          *float64 `json:"intensity"`
	Stability          *string  `json:"stability"`
	ConcerningPatterns []string `json:"concerning_patterns"`
	Summary            *string  `json:"summary"`
	Timestamp          *string  `json:"timestamp"`
}

// Parse decodes the first JSON object found in raw. On failure it returns a
// marker record with Error "malformed_json" and Raw set, plus a *ParseError.
func Parse(raw string) (model.EmotionRecord, error) {
	obj, ok := extractObject(raw)
	if !ok {
		return malformed(raw), &ParseError{Kind: KindNoObject, Raw: raw}
	}

	var r reply
	if err := json.Unmarshal([]byte(obj), &r); err != nil {
		kind := KindSyntax
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			kind = KindSchema
		}
		return malformed(raw), &ParseError{Kind: kind, Raw: raw, Err: err}
	}
	return r.record(), nil
}

func (r reply) record() model.EmotionRecord {
	rec := model.EmotionRecord{
		PrimaryEmotion:     "unknown",
		Confidence:         0.5,
		Intensity:          5,
		Stability:          model.Unstable,
		ConcerningPatterns: []string{},
	}
	if r.PrimaryEmotion != nil && strings.TrimSpace(*r.PrimaryEmotion) != "" {
		rec.PrimaryEmotion = strings.TrimSpace(*r.PrimaryEmotion)
	}
	if r.Confidence != nil {
		rec.Confidence = math.Min(1, math.Max(0, *r.Confidence))
	}
	if r.Intensity != nil {
		rec.Intensity = int(math.Min(10, math.Max(1, math.Round(*r.Intensity))))
	}
	if r.Stability != nil {
		rec.Stability = model.ParseStability(*r.Stability)
	}
	if r.ConcerningPatterns != nil {
		rec.ConcerningPatterns = r.ConcerningPatterns
	}
	if r.Summary != nil {
		rec.Summary = *r.Summary
	}
	if r.Timestamp != nil {
		rec.Timestamp = *r.Timestamp
	}
	return rec
}

// extractObject returns the text between the first '{' and the last '}'.
// Providers tend to wrap JSON in prose or code fences.
func extractObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func malformed(raw string) model.EmotionRecord {
	return model.EmotionRecord{Error: MarkerMalformed, Raw: raw}
}

// Unavailable is the marker record for a provider transport failure.
func Unavailable() model.EmotionRecord {
	return model.EmotionRecord{Error: MarkerUnavailable}
}
