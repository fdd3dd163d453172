package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
pipeline:
  log_level: debug
store:
  engine: json
  path: /tmp/entries.json
services:
  llm:
    provider: none
    timeout: 5s
alerts:
  history_days: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Pipeline.Level)
	assert.Equal(t, "text", cfg.Pipeline.Format)
	assert.Equal(t, "json", cfg.Store.Engine)
	assert.Equal(t, "/tmp/entries.json", cfg.Store.Path)
	assert.Equal(t, "none", cfg.Services.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.Services.LLM.Timeout)
	assert.Equal(t, 10, cfg.Alerts.HistoryDays)

	// untouched keys keep their defaults
	assert.Equal(t, 3, cfg.Alerts.RecentWindow)
	assert.Equal(t, 60.0, cfg.Alerts.ImmediateThreshold)
	assert.Equal(t, 50.0, cfg.Alerts.SustainedThreshold)
	assert.True(t, cfg.Alerts.CheckOnSubmit)
	assert.Equal(t, "rule", cfg.Linguistics.EntityMode)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "store:\n  engine: sqlite\n")
	t.Setenv("COGNORA_ALERTS_LONELY_DAYS", "4")
	t.Setenv("COGNORA_SERVICES_LLM_PROVIDER", "none")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Alerts.LonelyDays)
	assert.Equal(t, "none", cfg.Services.LLM.Provider)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Root)
		wantErr bool
	}{
		{"defaults", func(*Root) {}, false},
		{"unknown engine", func(r *Root) { r.Store.Engine = "mongo" }, true},
		{"postgres without dsn", func(r *Root) { r.Store.Engine = "postgres" }, true},
		{"http provider without url", func(r *Root) { r.Services.LLM.Provider = "http" }, true},
		{"unknown entity mode", func(r *Root) { r.Linguistics.EntityMode = "spacy" }, true},
		{"zero window", func(r *Root) { r.Alerts.RecentWindow = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validRoot()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDumpMasksAPIKey(t *testing.T) {
	cfg := validRoot()
	cfg.Services.LLM.APIKey = "sk-secret"

	out, err := cfg.Dump()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "sk-secret")
	assert.Contains(t, string(out), "****")
	assert.Equal(t, "sk-secret", cfg.Services.LLM.APIKey)
}

func validRoot() Root {
	return Root{
		Services:    Services{LLM: LLM{Provider: "anthropic"}},
		Store:       Store{Engine: "sqlite", Path: "x.db"},
		Linguistics: Linguistics{EntityMode: "rule"},
		Alerts: Alerts{
			HistoryDays: 7, RecentWindow: 3, SustainedDays: 3, LonelyDays: 2,
		},
	}
}
