// Package llm adapts the Anthropic Messages API to the emotion.Generator
// contract.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"github.com/cognora/checkin-pipeline/config"
)

var ErrEmptyResponse = errors.New("llm: empty response")

type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	log       logrus.FieldLogger
}

// NewAnthropic builds a client from config. opts are applied after the
// config-derived options.
func NewAnthropic(cfg config.LLM, log logrus.FieldLogger, opts ...option.RequestOption) *Anthropic {
	var base []option.RequestOption
	if cfg.APIKey != "" {
		base = append(base, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.URL != "" {
		base = append(base, option.WithBaseURL(cfg.URL))
	}
	if cfg.Timeout > 0 {
		base = append(base, option.WithRequestTimeout(cfg.Timeout))
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Anthropic{
		client:    anthropic.NewClient(append(base, opts...)...),
		model:     cfg.Model,
		maxTokens: maxTokens,
		log:       log,
	}
}

// Generate sends prompt as a single user message and returns the joined text
// blocks of the reply.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm api call: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}

	a.log.WithFields(logrus.Fields{
		"model":         a.model,
		"input_tokens":  msg.Usage.InputTokens,
		"output_tokens": msg.Usage.OutputTokens,
		"elapsed":       time.Since(start).Round(time.Millisecond),
	}).Debug("llm reply")
	return sb.String(), nil
}
