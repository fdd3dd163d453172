// Package alerting decides whether a caregiver should be notified based on a
// short window of recent check-ins.
package alerting

import (
	"fmt"
	"strings"

	"github.com/cognora/checkin-pipeline/config"
	"github.com/cognora/checkin-pipeline/model"
)

const NoScoresReason = "No recent scores available"

// Rules holds the thresholds of the three alert rules.
type Rules struct {
	RecentWindow       int
	ImmediateThreshold float64
	SustainedThreshold float64
	SustainedDays      int
	LonelyDays         int
}

func Defaults() Rules {
	return Rules{
		RecentWindow:       3,
		ImmediateThreshold: 60,
		SustainedThreshold: 50,
		SustainedDays:      3,
		LonelyDays:         2,
	}
}

// RulesFrom reads thresholds from config.
func RulesFrom(a config.Alerts) Rules {
	return Rules{
		RecentWindow:       a.RecentWindow,
		ImmediateThreshold: a.ImmediateThreshold,
		SustainedThreshold: a.SustainedThreshold,
		SustainedDays:      a.SustainedDays,
		LonelyDays:         a.LonelyDays,
	}
}

// History is the evaluator input. Every slice is most-recent-first.
type History struct {
	Scores          []float64
	Emotions        []string
	CognitiveScores []float64
}

type Evaluator struct {
	rules Rules
}

// New builds an evaluator. Non-positive windows and thresholds take their
// default values.
func New(r Rules) *Evaluator {
	def := Defaults()
	if r.RecentWindow <= 0 {
		r.RecentWindow = def.RecentWindow
	}
	if r.ImmediateThreshold <= 0 {
		r.ImmediateThreshold = def.ImmediateThreshold
	}
	if r.SustainedThreshold <= 0 {
		r.SustainedThreshold = def.SustainedThreshold
	}
	if r.SustainedDays <= 0 {
		r.SustainedDays = def.SustainedDays
	}
	if r.LonelyDays <= 0 {
		r.LonelyDays = def.LonelyDays
	}
	return &Evaluator{rules: r}
}

// Evaluate applies the rules independently. The immediate rule needs a single
// entry; the sustained rules need a full window.
func (e *Evaluator) Evaluate(h History) model.AlertDecision {
	if len(h.Scores) == 0 {
		return model.AlertDecision{Reasons: []string{NoScoresReason}, Urgency: model.UrgencyLow}
	}

	r := e.rules
	reasons := []string{}
	if anyBelow(head(h.Scores, r.RecentWindow), r.ImmediateThreshold) {
		reasons = append(reasons, fmt.Sprintf("Immediate alert: Cognora score below %g", r.ImmediateThreshold))
	}
	if len(h.Scores) >= r.SustainedDays && allBelow(head(h.Scores, r.SustainedDays), r.SustainedThreshold) {
		reasons = append(reasons, fmt.Sprintf("Low wellness scores for %d+ consecutive days", r.SustainedDays))
	}
	if len(h.Emotions) >= r.LonelyDays && allLonely(h.Emotions[:r.LonelyDays]) {
		reasons = append(reasons, fmt.Sprintf("Lonely emotion detected for %d+ consecutive days", r.LonelyDays))
	}

	d := model.AlertDecision{Needed: len(reasons) > 0, Reasons: reasons, Urgency: model.UrgencyLow}
	if d.Needed {
		d.Urgency = model.UrgencyHigh
	}
	return d
}

func head(s []float64, n int) []float64 {
	if n < len(s) {
		return s[:n]
	}
	return s
}

func anyBelow(s []float64, limit float64) bool {
	for _, v := range s {
		if v < limit {
			return true
		}
	}
	return false
}

func allBelow(s []float64, limit float64) bool {
	for _, v := range s {
		if v >= limit {
			return false
		}
	}
	return len(s) > 0
}

func allLonely(emotions []string) bool {
	for _, e := range emotions {
		if !strings.Contains(strings.ToLower(e), "lonely") {
			return false
		}
	}
	return len(emotions) > 0
}
