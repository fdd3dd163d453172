package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/cognora/checkin-pipeline/model"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, filePath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)

	st := &SQLite{db: db}
	if err := st.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return st, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) SaveEntry(ctx context.Context, e model.DailyEntry) error {
	row, err := encodeEntry(e)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entries
		(id, user_id, entry_date, transcript, source, emotion, metrics, score, feedback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, entry_date) DO UPDATE SET
			id = excluded.id,
			transcript = excluded.transcript,
			source = excluded.source,
			emotion = excluded.emotion,
			metrics = excluded.metrics,
			score = excluded.score,
			feedback = excluded.feedback,
			created_at = excluded.created_at`,
		row.ID,
		row.UserID,
		row.Date,
		row.Transcript,
		row.Source,
		string(row.Emotion),
		string(row.Metrics),
		string(row.Score),
		row.Feedback,
		toTS(row.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

func (s *SQLite) RecentEntries(ctx context.Context, userID string, max int) ([]model.DailyEntry, error) {
	out := make([]model.DailyEntry, 0)
	if max <= 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, entry_date, transcript, source, emotion, metrics, score, feedback, created_at
		FROM entries
		WHERE user_id = ?
		ORDER BY entry_date DESC, created_at DESC
		LIMIT ?`,
		userID, max,
	)
	if err != nil {
		return nil, fmt.Errorf("recent entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row                     entryRow
			emotion, metrics, score string
			createdAt               string
		)
		if err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.Date,
			&row.Transcript,
			&row.Source,
			&emotion,
			&metrics,
			&score,
			&row.Feedback,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		row.Emotion, row.Metrics, row.Score = []byte(emotion), []byte(metrics), []byte(score)
		row.CreatedAt = fromTS(createdAt)

		e, err := row.decode()
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", row.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) AppendAlert(ctx context.Context, a model.AlertLog) error {
	decision, err := json.Marshal(a.Decision)
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO alerts (id, user_id, created_at, decision, sent)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID,
		a.UserID,
		toTS(a.Timestamp),
		string(decision),
		boolToInt(a.Sent),
	)
	if err != nil {
		return fmt.Errorf("append alert: %w", err)
	}
	return nil
}

func (s *SQLite) AlertHistory(ctx context.Context, userID string) ([]model.AlertLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, created_at, decision, sent
		FROM alerts
		WHERE user_id = ?
		ORDER BY created_at DESC, seq DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("alert history: %w", err)
	}
	defer rows.Close()

	out := make([]model.AlertLog, 0)
	for rows.Next() {
		var (
			a                   model.AlertLog
			createdAt, decision string
			sent                int
		)
		if err := rows.Scan(&a.ID, &a.UserID, &createdAt, &decision, &sent); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if err := json.Unmarshal([]byte(decision), &a.Decision); err != nil {
			return nil, fmt.Errorf("alert %s: decode decision: %w", a.ID, err)
		}
		a.Timestamp = fromTS(createdAt)
		a.Sent = sent != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLite) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		PRAGMA journal_mode=WAL;
		CREATE TABLE IF NOT EXISTS entries (
			id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			entry_date TEXT NOT NULL,
			transcript TEXT NOT NULL,
			source TEXT NOT NULL,
			emotion TEXT NOT NULL,
			metrics TEXT NOT NULL,
			score TEXT NOT NULL,
			feedback TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (user_id, entry_date)
		);
		CREATE TABLE IF NOT EXISTS alerts (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			decision TEXT NOT NULL,
			sent INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_alerts_user ON alerts(user_id, created_at);
	`)
	return err
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
