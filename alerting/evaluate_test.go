package alerting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cognora/checkin-pipeline/config"
	"github.com/cognora/checkin-pipeline/model"
)

const (
	immediate = "Immediate alert: Cognora score below 60"
	sustained = "Low wellness scores for 3+ consecutive days"
	lonely    = "Lonely emotion detected for 2+ consecutive days"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		history History
		needed  bool
		reasons []string
		urgency model.Urgency
	}{
		{
			name:    "no scores",
			history: History{},
			reasons: []string{NoScoresReason},
			urgency: model.UrgencyLow,
		},
		{
			name:    "no scores ignores emotions",
			history: History{Emotions: []string{"lonely", "lonely"}},
			reasons: []string{NoScoresReason},
			urgency: model.UrgencyLow,
		},
		{
			name:    "all fine",
			history: History{Scores: []float64{70, 72, 75}, Emotions: []string{"calm", "happy", "calm"}},
			reasons: []string{},
			urgency: model.UrgencyLow,
		},
		{
			name:    "low streak",
			history: History{Scores: []float64{45, 48, 40}},
			needed:  true,
			reasons: []string{immediate, sustained},
			urgency: model.UrgencyHigh,
		},
		{
			name:    "single bad day with sparse history",
			history: History{Scores: []float64{30}},
			needed:  true,
			reasons: []string{immediate},
			urgency: model.UrgencyHigh,
		},
		{
			name:    "bad day outside the window",
			history: History{Scores: []float64{80, 81, 82, 20}},
			reasons: []string{},
			urgency: model.UrgencyLow,
		},
		{
			name:    "score exactly at threshold",
			history: History{Scores: []float64{60, 60, 60}},
			reasons: []string{},
			urgency: model.UrgencyLow,
		},
		{
			name:    "two low days are not sustained",
			history: History{Scores: []float64{45, 48}},
			needed:  true,
			reasons: []string{immediate},
			urgency: model.UrgencyHigh,
		},
		{
			name: "lonely",
			history: History{
				Scores:   []float64{70, 72, 75},
				Emotions: []string{"lonely", "very Lonely today", "sad"},
			},
			needed:  true,
			reasons: []string{lonely},
			urgency: model.UrgencyHigh,
		},
		{
			name:    "lonely once",
			history: History{Scores: []float64{70, 72}, Emotions: []string{"lonely", "calm"}},
			reasons: []string{},
			urgency: model.UrgencyLow,
		},
		{
			name: "every rule",
			history: History{
				Scores:   []float64{10, 20, 30},
				Emotions: []string{"lonely", "lonely"},
			},
			needed:  true,
			reasons: []string{immediate, sustained, lonely},
			urgency: model.UrgencyHigh,
		},
	}
	ev := New(Defaults())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ev.Evaluate(tt.history)
			assert.Equal(t, tt.needed, d.Needed)
			assert.Equal(t, tt.reasons, d.Reasons)
			assert.Equal(t, tt.urgency, d.Urgency)
		})
	}
}

func TestEvaluate_CustomRules(t *testing.T) {
	ev := New(RulesFrom(config.Alerts{
		RecentWindow: 1, ImmediateThreshold: 40, SustainedThreshold: 55, SustainedDays: 2, LonelyDays: 1,
	}))

	d := ev.Evaluate(History{Scores: []float64{50, 52, 10}, Emotions: []string{"lonely"}})
	assert.True(t, d.Needed)
	assert.Equal(t, []string{
		"Low wellness scores for 2+ consecutive days",
		"Lonely emotion detected for 1+ consecutive days",
	}, d.Reasons)
}

func TestNew_FillsMissingRules(t *testing.T) {
	ev := New(Rules{ImmediateThreshold: 45, LonelyDays: -1})

	d := ev.Evaluate(History{Scores: []float64{70, 44, 80}, Emotions: []string{"lonely", "lonely"}})
	assert.True(t, d.Needed)
	assert.Equal(t, []string{
		"Immediate alert: Cognora score below 45",
		lonely,
	}, d.Reasons)

	assert.NotPanics(t, func() {
		New(Rules{LonelyDays: -3}).Evaluate(History{Scores: []float64{90}, Emotions: []string{"lonely"}})
	})
}
