package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transcribe", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		audio, _ := io.ReadAll(f)
		assert.Equal(t, "morning.wav", hdr.Filename)
		assert.Equal(t, "RIFF", string(audio))

		_ = json.NewEncoder(w).Encode(ASRResp{
			Segments: []TransSeg{{0, 1.2, " I slept well. "}, {1.2, 2, ""}, {2, 3.5, "Then I walked."}},
			Language: "en",
		})
	}))
	defer srv.Close()

	tr := NewTranscriber(NewHTTP(time.Second), srv.URL+"/")
	text, err := tr.Transcribe(context.Background(), "morning.wav", strings.NewReader("RIFF"))
	require.NoError(t, err)
	assert.Equal(t, "I slept well. Then I walked.", text)
}

func TestTranscriber_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewTranscriber(NewHTTP(time.Second), srv.URL).
		Transcribe(context.Background(), "a.wav", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "asr 503")
}

func TestGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req GenerateReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(GenerateResp{Text: "echo: " + req.Prompt})
	}))
	defer srv.Close()

	out, err := NewGenerator(NewHTTP(time.Second), srv.URL).Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)
}

func TestGenerator_EmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"text":"  "}`)
	}))
	defer srv.Close()

	_, err := NewGenerator(NewHTTP(time.Second), srv.URL).Generate(context.Background(), "hi")
	assert.Error(t, err)
}

func TestWebhook(t *testing.T) {
	var got NotifyReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notify", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewWebhook(NewHTTP(time.Second), srv.URL, "carer@example.org").
		Notify(context.Background(), "Cognora+ Wellness Alert", "body text")
	require.NoError(t, err)
	assert.Equal(t, NotifyReq{Subject: "Cognora+ Wellness Alert", Body: "body text", Caregiver: "carer@example.org"}, got)
}

func TestWebhook_Non200IsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := NewWebhook(NewHTTP(time.Second), srv.URL, "").Notify(context.Background(), "s", "b")
	assert.Error(t, err)
}

func TestLogNotifier(t *testing.T) {
	log, hook := test.NewNullLogger()
	require.NoError(t, NewLogNotifier(log).Notify(context.Background(), "subj", "reasons here"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "reasons here", entry.Message)
	assert.Equal(t, "subj", entry.Data["subject"])
}
