package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/cognora/checkin-pipeline/model"
	"github.com/cognora/checkin-pipeline/orchestrator"
)

func printResult(w io.Writer, res orchestrator.SubmitResult) {
	en := res.Entry
	s := en.Score
	fmt.Fprintf(w, "User %s, %s (%s)\n", en.UserID, en.Date, en.Source)
	fmt.Fprintf(w, "Cognora score: %.1f [%s]\n", s.Score, s.ZoneName)
	fmt.Fprintf(w, "  emotion %.1f  cognitive %.1f\n", s.EmotionScore, s.CognitiveScore)
	if em := en.Emotion; em.Error == "" {
		fmt.Fprintf(w, "  feeling %s (intensity %d, %s)\n", em.PrimaryEmotion, em.Intensity, em.Stability)
	} else {
		fmt.Fprintf(w, "  emotion analysis unavailable: %s\n", em.Error)
	}
	fmt.Fprintln(w, en.Feedback)
	if !res.Saved {
		fmt.Fprintln(w, "WARNING: entry was not saved")
	}
	if res.Alert != nil {
		printOutcome(w, *res.Alert)
	}
}

func printOutcome(w io.Writer, out orchestrator.AlertOutcome) {
	d := out.Decision
	fmt.Fprintf(w, "Alert check: %s\n", out.Message)
	if d.Needed {
		fmt.Fprintf(w, "  urgency %s\n", d.Urgency)
	}
	for _, r := range d.Reasons {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}

func printAlertLog(w io.Writer, a model.AlertLog) {
	status := "sent"
	if !a.Sent {
		status = "failed"
	}
	fmt.Fprintf(w, "%s  %-6s  %-4s  %s\n",
		a.Timestamp.Format(time.RFC3339), status, a.Decision.Urgency, strings.Join(a.Decision.Reasons, "; "))
}

func printSummary(w io.Writer, s orchestrator.Summary) {
	fmt.Fprintf(w, "User %s: %d day(s) tracked, average %.1f\n", s.UserID, s.DaysTracked, s.AverageScore)
	names := make([]string, 0, len(s.Zones))
	for n := range s.Zones {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-10s %d\n", n, s.Zones[n])
	}
}

func printEntryLine(w io.Writer, en model.DailyEntry) {
	emotion := en.Emotion.PrimaryEmotion
	if emotion == "" {
		emotion = "-"
	}
	fmt.Fprintf(w, "%s  %5.1f  %-10s  %s\n", en.Date, en.Score.Score, en.Score.ZoneName, emotion)
}
