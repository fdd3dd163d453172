package orchestrator

import (
	"fmt"
	"math"
	"strings"

	"github.com/cognora/checkin-pipeline/alerting"
	"github.com/cognora/checkin-pipeline/model"
)

const (
	neutralScore   = 50.0
	unknownEmotion = "unknown"
	shownInAlert   = 3
)

// history flattens entries (most-recent-first) into the evaluator's parallel
// arrays. Entries that were never scored count as neutral.
func history(entries []model.DailyEntry) alerting.History {
	h := alerting.History{
		Scores:          make([]float64, 0, len(entries)),
		Emotions:        make([]string, 0, len(entries)),
		CognitiveScores: make([]float64, 0, len(entries)),
	}
	for _, e := range entries {
		score, cognitive := neutralScore, neutralScore
		if e.Score.Zone != 0 {
			score, cognitive = e.Score.Score, e.Score.CognitiveScore
		}
		emotion := strings.TrimSpace(e.Emotion.PrimaryEmotion)
		if emotion == "" {
			emotion = unknownEmotion
		}
		h.Scores = append(h.Scores, score)
		h.Emotions = append(h.Emotions, emotion)
		h.CognitiveScores = append(h.CognitiveScores, cognitive)
	}
	return h
}

func alertBody(userID string, d model.AlertDecision, h alerting.History) string {
	scores := make([]string, 0, shownInAlert)
	for _, s := range head(h.Scores, shownInAlert) {
		scores = append(scores, fmt.Sprintf("%.1f", s))
	}
	emotions := h.Emotions
	if len(emotions) > shownInAlert {
		emotions = emotions[:shownInAlert]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wellness Alert for User %s\n\n", userID)
	fmt.Fprintf(&b, "Reasons: %s\n", strings.Join(d.Reasons, ", "))
	fmt.Fprintf(&b, "Urgency: %s\n\n", d.Urgency)
	fmt.Fprintf(&b, "Recent scores: [%s]\n", strings.Join(scores, ", "))
	fmt.Fprintf(&b, "Recent emotions: [%s]\n\n", strings.Join(emotions, ", "))
	b.WriteString("Please check on the user's wellbeing.\n")
	return b.String()
}

// Summarize reports days tracked, the average score, a count per zone name
// and the latest entry.
func Summarize(userID string, entries []model.DailyEntry) Summary {
	s := Summary{UserID: userID, Zones: map[string]int{}}
	if len(entries) == 0 {
		return s
	}
	var total float64
	for _, e := range entries {
		total += e.Score.Score
		name := e.Score.ZoneName
		if name == "" {
			name = model.Zone(0).Label()
		}
		s.Zones[name]++
	}
	s.DaysTracked = len(entries)
	s.AverageScore = math.Round(total/float64(len(entries))*10) / 10
	latest := entries[0]
	s.Latest = &latest
	return s
}

func head(s []float64, n int) []float64 {
	if n < len(s) {
		return s[:n]
	}
	return s
}
