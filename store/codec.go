package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cognora/checkin-pipeline/model"
)

// entryRow is the column layout shared by the SQL engines. The analysis
// results are kept as JSON documents.
type entryRow struct {
	ID         string
	UserID     string
	Date       string
	Transcript string
	Source     string
	Emotion    []byte
	Metrics    []byte
	Score      []byte
	Feedback   string
	CreatedAt  time.Time
}

func encodeEntry(e model.DailyEntry) (entryRow, error) {
	row := entryRow{
		ID:         e.ID,
		UserID:     e.UserID,
		Date:       e.Date,
		Transcript: e.Transcript,
		Source:     e.Source.String(),
		Feedback:   e.Feedback,
		CreatedAt:  e.Timestamp.UTC(),
	}
	var err error
	if row.Emotion, err = json.Marshal(e.Emotion); err != nil {
		return entryRow{}, fmt.Errorf("encode emotion: %w", err)
	}
	if row.Metrics, err = json.Marshal(e.Metrics); err != nil {
		return entryRow{}, fmt.Errorf("encode metrics: %w", err)
	}
	if row.Score, err = json.Marshal(e.Score); err != nil {
		return entryRow{}, fmt.Errorf("encode score: %w", err)
	}
	return row, nil
}

func (r entryRow) decode() (model.DailyEntry, error) {
	src, err := model.ParseSource(r.Source)
	if err != nil {
		return model.DailyEntry{}, err
	}
	e := model.DailyEntry{
		ID:         r.ID,
		UserID:     r.UserID,
		Date:       r.Date,
		Transcript: r.Transcript,
		Source:     src,
		Feedback:   r.Feedback,
		Timestamp:  r.CreatedAt.UTC(),
	}
	if err := json.Unmarshal(r.Emotion, &e.Emotion); err != nil {
		return model.DailyEntry{}, fmt.Errorf("decode emotion: %w", err)
	}
	if err := json.Unmarshal(r.Metrics, &e.Metrics); err != nil {
		return model.DailyEntry{}, fmt.Errorf("decode metrics: %w", err)
	}
	if err := json.Unmarshal(r.Score, &e.Score); err != nil {
		return model.DailyEntry{}, fmt.Errorf("decode score: %w", err)
	}
	return e, nil
}

// tsLayout is fixed width so text ordering matches time ordering.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

func toTS(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func fromTS(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
