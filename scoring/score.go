// Package scoring combines an emotion judgement and linguistic metrics into
// the 0-100 wellness score and its zone.
package scoring

import (
	"math"
	"strings"

	"github.com/cognora/checkin-pipeline/emotion"
	"github.com/cognora/checkin-pipeline/model"
)

const (
	idealSentenceLength = 15.0
	intensityPenalty    = 20.0
	neutral             = 0.5

	greenFloor  = 75.0
	yellowFloor = 50.0

	// FallbackName is the zone name of a neutral score produced from a
	// failed analysis.
	FallbackName = "Unknown"
)

var negativeEmotions = []string{"sad", "lonely", "anxious", "angry", "worried", "frustrated", "confused"}

// Calculate scores one entry. A marker emotion record yields the neutral
// fallback result. Out-of-range inputs are clamped, so the result is always
// within [0,100].
func Calculate(rec model.EmotionRecord, m model.LinguisticMetrics) model.ScoreResult {
	if rec.Failed() {
		return Fallback(rec.Error)
	}

	b := model.ScoreBreakdown{
		EmotionConfidence: clamp01(rec.Confidence, neutral),
		EmotionIntensity:  clamp01(float64(rec.Intensity)/10, neutral),
		EmotionStability:  neutral,
		LexicalDiversity:  clamp01(m.LexicalDiversity, neutral),
		SentenceFluency:   clamp01(1-math.Abs(idealSentenceLength-m.AvgSentenceLength)/idealSentenceLength, neutral),
		Coherence:         clamp01(m.CoherenceScore, neutral),
	}
	if rec.Stability == model.Stable {
		b.EmotionStability = 1
	}

	emotionScore := (b.EmotionConfidence*0.5 + b.EmotionStability*0.5) * 100
	if IsNegative(rec.PrimaryEmotion) {
		emotionScore -= b.EmotionIntensity * intensityPenalty
	}
	cognitiveScore := (b.LexicalDiversity*0.4 + b.SentenceFluency*0.3 + b.Coherence*0.3) * 100

	score := round1(clamp(emotionScore*0.5+cognitiveScore*0.5, 0, 100))
	zone := zoneFor(score)
	return model.ScoreResult{
		Score:          score,
		EmotionScore:   round1(clamp(emotionScore, 0, 100)),
		CognitiveScore: round1(clamp(cognitiveScore, 0, 100)),
		Zone:           zone,
		ZoneName:       zone.Label(),
		Breakdown:      &b,
	}
}

// CalculateJSON scores a raw provider reply. Undecodable replies produce the
// fallback result with the parse error recorded.
func CalculateJSON(raw string, m model.LinguisticMetrics) model.ScoreResult {
	rec, err := emotion.Parse(raw)
	if err != nil {
		return Fallback(err.Error())
	}
	return Calculate(rec, m)
}

// Fallback is the neutral result used when the emotion analysis failed. Its
// breakdown is present but empty.
func Fallback(reason string) model.ScoreResult {
	return model.ScoreResult{
		Score:          50,
		EmotionScore:   50,
		CognitiveScore: 50,
		Zone:           model.ZoneYellow,
		ZoneName:       FallbackName,
		Breakdown:      &model.ScoreBreakdown{},
		Error:          reason,
	}
}

// IsNegative reports whether the emotion label contains a negative term.
func IsNegative(primary string) bool {
	p := strings.ToLower(primary)
	for _, neg := range negativeEmotions {
		if strings.Contains(p, neg) {
			return true
		}
	}
	return false
}

func zoneFor(score float64) model.Zone {
	switch {
	case score >= greenFloor:
		return model.ZoneGreen
	case score >= yellowFloor:
		return model.ZoneYellow
	default:
		return model.ZoneRed
	}
}

func clamp(v, lo, hi float64) float64 { return math.Min(hi, math.Max(lo, v)) }

// clamp01 bounds v to [0,1]; NaN becomes def.
func clamp01(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return clamp(v, 0, 1)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
