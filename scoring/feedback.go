package scoring

import (
	"fmt"

	"github.com/cognora/checkin-pipeline/model"
)

// Feedback renders the message shown to the user next to a score.
func Feedback(r model.ScoreResult) string {
	switch r.ZoneName {
	case model.ZoneGreen.Label():
		return fmt.Sprintf("Excellent wellness score of %.1f! You're showing strong emotional and cognitive health.", r.Score)
	case model.ZoneYellow.Label():
		return fmt.Sprintf("Good wellness score of %.1f. Your overall health is stable with room for improvement.", r.Score)
	default:
		return fmt.Sprintf("Your wellness score of %.1f indicates some concerns. Consider reaching out to your support network.", r.Score)
	}
}
