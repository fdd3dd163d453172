// Package app assembles a Pipeline from configuration. The CLI and the
// lambda handler share it.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cognora/checkin-pipeline/alerting"
	"github.com/cognora/checkin-pipeline/clients"
	"github.com/cognora/checkin-pipeline/config"
	"github.com/cognora/checkin-pipeline/emotion"
	"github.com/cognora/checkin-pipeline/linguistics"
	"github.com/cognora/checkin-pipeline/llm"
	"github.com/cognora/checkin-pipeline/orchestrator"
	"github.com/cognora/checkin-pipeline/store"
)

// disabled is the generator for provider "none".
type disabled struct{}

func (disabled) Generate(context.Context, string) (string, error) {
	return "", emotion.ErrUnavailable
}

// Generator picks the text-generation backend named by cfg.Provider.
func Generator(cfg config.LLM, h *clients.HTTP, log logrus.FieldLogger) (emotion.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "anthropic":
		return llm.NewAnthropic(cfg, log.WithField("provider", "anthropic")), nil
	case "http":
		return clients.NewGenerator(h, cfg.URL), nil
	case "none":
		return disabled{}, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// Build opens the store and wires every collaborator. The returned close
// function releases the store.
func Build(ctx context.Context, cfg *config.Root, log logrus.FieldLogger) (*orchestrator.Pipeline, func() error, error) {
	st, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	h := clients.NewHTTP(cfg.HTTP.Timeout)
	gen, err := Generator(cfg.Services.LLM, h, log)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	var notifier orchestrator.Notifier = clients.NewLogNotifier(log)
	if url := cfg.Services.Notify.URL; url != "" {
		notifier = clients.NewWebhook(h, url, cfg.Services.Notify.Caregiver)
	}

	deps := orchestrator.Deps{
		Interpreter: emotion.New(gen),
		Extractor:   linguistics.New(linguistics.Options{EntityMode: linguistics.ParseEntityMode(cfg.Linguistics.EntityMode)}),
		Store:       st,
		Notifier:    notifier,
		Log:         log,
	}
	if url := cfg.Services.ASR.URL; url != "" {
		deps.Transcriber = clients.NewTranscriber(h, url)
	}

	p := orchestrator.NewPipeline(deps, orchestrator.Options{
		HistoryDays:   cfg.Alerts.HistoryDays,
		CheckOnSubmit: cfg.Alerts.CheckOnSubmit,
		Subject:       cfg.Alerts.Subject,
		Rules:         alerting.RulesFrom(cfg.Alerts),
	})
	log.WithFields(logrus.Fields{
		"engine":   cfg.Store.Engine,
		"provider": cfg.Services.LLM.Provider,
		"asr":      deps.Transcriber != nil,
	}).Debug("pipeline ready")
	return p, st.Close, nil
}
