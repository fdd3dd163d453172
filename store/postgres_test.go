package store

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognora/checkin-pipeline/model"
)

func newMockStore(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return newPostgresWith(mock), mock
}

func TestPostgres_SaveEntry(t *testing.T) {
	st, mock := newMockStore(t)
	e := newEntry("u1", "2026-10-02", 72.5, time.Now())

	mock.ExpectExec(`INSERT INTO entries .* ON CONFLICT \(user_id, entry_date\) DO UPDATE`).
		WithArgs(e.ID, "u1", "2026-10-02", e.Transcript, "voice",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "ok", e.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, st.SaveEntry(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveEntryError(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO entries`).WillReturnError(errors.New("connection reset"))

	err := st.SaveEntry(context.Background(), newEntry("u1", "2026-10-02", 50, time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save entry")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RecentEntries(t *testing.T) {
	st, mock := newMockStore(t)
	now := time.Date(2026, 10, 3, 8, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"id", "user_id", "entry_date", "transcript", "source", "emotion", "metrics", "score", "feedback", "created_at"}).
		AddRow("e2", "u1", "2026-10-03", "second", "text",
			[]byte(`{"primary_emotion":"calm","confidence":0.9,"intensity":3,"stability":"stable","concerning_patterns":[],"summary":""}`),
			[]byte(`{"word_count":1,"coherence_score":0.5}`),
			[]byte(`{"score":81.2,"emotion_score":90,"cognitive_score":72.4,"zone":"green","zone_name":"Excellent"}`),
			"great", now).
		AddRow("e1", "u1", "2026-10-02", "first", "voice",
			[]byte(`{"error":"malformed_json","raw":"nope"}`),
			[]byte(`{}`),
			[]byte(`{"score":50,"emotion_score":50,"cognitive_score":50,"zone":"yellow","zone_name":"Unknown","error":"malformed_json"}`),
			"", now.Add(-24*time.Hour))

	mock.ExpectQuery(`SELECT .* FROM entries WHERE user_id = \$1 ORDER BY entry_date DESC, created_at DESC LIMIT 7`).
		WithArgs("u1").
		WillReturnRows(rows)

	got, err := st.RecentEntries(context.Background(), "u1", 7)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "e2", got[0].ID)
	assert.Equal(t, model.ZoneGreen, got[0].Score.Zone)
	assert.Equal(t, model.Stable, got[0].Emotion.Stability)
	assert.Equal(t, model.SourceText, got[0].Source)

	assert.Equal(t, model.SourceVoice, got[1].Source)
	assert.True(t, got[1].Emotion.Failed())
	assert.Equal(t, "Unknown", got[1].Score.ZoneName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RecentEntriesZeroLimit(t *testing.T) {
	st, mock := newMockStore(t)
	got, err := st.RecentEntries(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AlertLog(t *testing.T) {
	st, mock := newMockStore(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 3, 8, 0, 0, 0, time.UTC)
	a := model.AlertLog{
		ID:        "8a4f2a3e-6f55-4d7a-9d39-2b1b7b0f6a11",
		UserID:    "u1",
		Timestamp: at,
		Decision:  model.AlertDecision{Needed: true, Reasons: []string{"Lonely emotion detected for 2+ consecutive days"}, Urgency: model.UrgencyHigh},
		Sent:      true,
	}

	mock.ExpectExec(`INSERT INTO alerts`).
		WithArgs(a.ID, "u1", at, pgxmock.AnyArg(), true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, st.AppendAlert(ctx, a))

	mock.ExpectQuery(`SELECT .* FROM alerts WHERE user_id = \$1 ORDER BY created_at DESC, seq DESC`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "created_at", "decision", "sent"}).
			AddRow(a.ID, "u1", at, []byte(`{"alert_needed":true,"reasons":["Lonely emotion detected for 2+ consecutive days"],"urgency":"high"}`), true))

	got, err := st.AlertHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a, got[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
