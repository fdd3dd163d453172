package model

import "time"

// DateLayout is the calendar-day key format used for entries.
const DateLayout = "2006-01-02"

// LinguisticMetrics is derived from one transcript.
type LinguisticMetrics struct {
	WordCount         int     `json:"word_count"`
	UniqueWordCount   int     `json:"unique_word_count"`
	LexicalDiversity  float64 `json:"lexical_diversity"`
	SentenceCount     int     `json:"sentence_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	NounRatio         float64 `json:"noun_ratio"`
	VerbRatio         float64 `json:"verb_ratio"`
	AdjRatio          float64 `json:"adj_ratio"`
	NamedEntityCount  int     `json:"named_entity_count"`
	CoherenceScore    float64 `json:"coherence_score"`
	Error             string  `json:"error,omitempty"`
}

// EmotionRecord is the typed judgement returned by the text-analysis provider.
// A record with Error set is a marker: the numeric fields hold defaults and
// Raw carries whatever the provider returned.
type EmotionRecord struct {
	PrimaryEmotion     string    `json:"primary_emotion"`
	Confidence         float64   `json:"confidence"`
	Intensity          int       `json:"intensity"`
	Stability          Stability `json:"stability"`
	ConcerningPatterns []string  `json:"concerning_patterns"`
	Summary            string    `json:"summary"`
	Timestamp          string    `json:"timestamp,omitempty"`

	Error string `json:"error,omitempty"`
	Raw   string `json:"raw,omitempty"`
}

// Failed reports whether r is an error marker rather than a real judgement.
func (r EmotionRecord) Failed() bool { return r.Error != "" }

// ScoreBreakdown keeps the normalised inputs a score was computed from.
type ScoreBreakdown struct {
	EmotionConfidence float64 `json:"emotion_confidence"`
	EmotionStability  float64 `json:"emotion_stability"`
	EmotionIntensity  float64 `json:"emotion_intensity"`
	LexicalDiversity  float64 `json:"lexical_diversity"`
	SentenceFluency   float64 `json:"sentence_fluency"`
	Coherence         float64 `json:"coherence"`
}

// ScoreResult is the composite wellness score for one entry.
type ScoreResult struct {
	Score          float64         `json:"score"`
	EmotionScore   float64         `json:"emotion_score"`
	CognitiveScore float64         `json:"cognitive_score"`
	Zone           Zone            `json:"zone"`
	ZoneName       string          `json:"zone_name"`
	Breakdown      *ScoreBreakdown `json:"breakdown,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// DailyEntry is one check-in, keyed by (UserID, Date).
type DailyEntry struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Date       string            `json:"date"`
	Transcript string            `json:"transcript"`
	Emotion    EmotionRecord     `json:"emotion"`
	Metrics    LinguisticMetrics `json:"metrics"`
	Score      ScoreResult       `json:"score"`
	Feedback   string            `json:"feedback,omitempty"`
	Source     Source            `json:"source"`
	Timestamp  time.Time         `json:"timestamp"`
}

// AlertDecision is the evaluator's verdict over a window of recent entries.
type AlertDecision struct {
	Needed  bool     `json:"alert_needed"`
	Reasons []string `json:"reasons"`
	Urgency Urgency  `json:"urgency"`
}

// AlertLog is an append-only record of a caregiver notification attempt.
type AlertLog struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Timestamp time.Time     `json:"timestamp"`
	Decision  AlertDecision `json:"decision"`
	Sent      bool          `json:"alert_sent"`
}
