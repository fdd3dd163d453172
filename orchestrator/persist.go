package orchestrator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cognora/checkin-pipeline/model"
)

type ExportBundle struct {
	UserID      string             `json:"user_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Summary     Summary            `json:"summary"`
	Entries     []model.DailyEntry `json:"entries"`
	Alerts      []model.AlertLog   `json:"alerts"`
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Export writes the user's recent entries, their summary and the alert log to
// path as indented JSON.
func (p *Pipeline) Export(ctx context.Context, userID string, days int, path string) error {
	entries, err := p.History(ctx, userID, days)
	if err != nil {
		return err
	}
	alerts, err := p.AlertHistory(ctx, userID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return writeJSON(path, ExportBundle{
		UserID:      userID,
		GeneratedAt: p.d.Now().UTC(),
		Summary:     Summarize(userID, entries),
		Entries:     entries,
		Alerts:      alerts,
	})
}
