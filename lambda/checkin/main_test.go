package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognora/checkin-pipeline/model"
	"github.com/cognora/checkin-pipeline/orchestrator"
)

type mockSubmitter struct {
	got orchestrator.CheckIn
	res orchestrator.SubmitResult
	err error
}

func (m *mockSubmitter) Submit(_ context.Context, in orchestrator.CheckIn) (orchestrator.SubmitResult, error) {
	m.got = in
	return m.res, m.err
}

func newHandler(m *mockSubmitter) *handler {
	log, _ := test.NewNullLogger()
	return &handler{p: m, log: log}
}

func TestHandle_OK(t *testing.T) {
	m := &mockSubmitter{res: orchestrator.SubmitResult{
		Entry: model.DailyEntry{ID: "e1", UserID: "u1", Date: "2026-10-15", Score: model.ScoreResult{Score: 81.5, Zone: model.ZoneGreen, ZoneName: "Excellent"}},
		Saved: true,
		Alert: &orchestrator.AlertOutcome{UserID: "u1", Message: "No alert conditions met", Decision: model.AlertDecision{Reasons: []string{}}},
	}}

	resp, err := newHandler(m).handle(context.Background(), events.APIGatewayProxyRequest{
		Body: `{"user_id":"u1","date":"2026-10-15","transcript":"Lovely walk.","context":"widower","source":"voice"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, orchestrator.CheckIn{
		UserID: "u1", Date: "2026-10-15", Transcript: "Lovely walk.", Context: "widower", Source: model.SourceVoice,
	}, m.got)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, true, body["saved"])
	entry := body["entry"].(map[string]any)
	assert.Equal(t, "e1", entry["id"])
	assert.Equal(t, "green", entry["score"].(map[string]any)["zone"])
	assert.Equal(t, "No alert conditions met", body["alert"].(map[string]any)["message"])
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"bad json", `{"user_id":`, "INVALID_REQUEST"},
		{"missing user", `{"transcript":"hi"}`, "VALIDATION_ERROR"},
		{"bad source", `{"user_id":"u1","source":"fax"}`, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockSubmitter{}
			resp, err := newHandler(m).handle(context.Background(), events.APIGatewayProxyRequest{Body: tt.body})
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var e ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &e))
			assert.Equal(t, tt.code, e.Code)
			assert.Empty(t, m.got.UserID)
		})
	}
}

func TestHandle_SubmitErrors(t *testing.T) {
	resp, err := newHandler(&mockSubmitter{err: orchestrator.ErrInvalidDate}).
		handle(context.Background(), events.APIGatewayProxyRequest{Body: `{"user_id":"u1","date":"yesterday"}`})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = newHandler(&mockSubmitter{err: errors.New("boom")}).
		handle(context.Background(), events.APIGatewayProxyRequest{Body: `{"user_id":"u1"}`})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
