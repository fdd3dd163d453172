package orchestrator

import (
	"io"

	"github.com/cognora/checkin-pipeline/model"
)

type CheckIn struct {
	UserID     string
	Date       string // YYYY-MM-DD, empty means today
	Transcript string
	Context    string // optional background passed to the interpreter
	Source     model.Source
}

type VoiceCheckIn struct {
	UserID    string
	Date      string
	Context   string
	AudioName string
	Audio     io.Reader
}

type SubmitResult struct {
	Entry model.DailyEntry `json:"entry"`
	Saved bool             `json:"saved"`
	// Alert is nil when no check ran.
	Alert *AlertOutcome `json:"alert,omitempty"`
}

type AlertOutcome struct {
	UserID   string              `json:"user_id"`
	Decision model.AlertDecision `json:"decision"`
	Sent     bool                `json:"alert_sent"`
	Message  string              `json:"message"`
	Scores   []float64           `json:"recent_scores"`
	Emotions []string            `json:"recent_emotions"`
}

// Summary is the weekly-report view of a user's history.
type Summary struct {
	UserID       string            `json:"user_id"`
	DaysTracked  int               `json:"days_tracked"`
	AverageScore float64           `json:"average_score"`
	Zones        map[string]int    `json:"zones"`
	Latest       *model.DailyEntry `json:"latest,omitempty"`
}
