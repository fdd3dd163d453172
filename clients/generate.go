package clients

import (
	"context"
	"errors"
	"strings"
)

// --- Text generation (/generate) ---
type GenerateReq struct {
	Prompt string `json:"prompt"`
}
type GenerateResp struct {
	Text string `json:"text"`
}

// Generator talks to a self-hosted text-generation service.
type Generator struct {
	h   *HTTP
	url string
}

func NewGenerator(h *HTTP, url string) *Generator {
	return &Generator{h: h, url: strings.TrimRight(url, "/")}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	var out GenerateResp
	if err := g.h.postJSON(ctx, "generate", g.url+"/generate", GenerateReq{Prompt: prompt}, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", errors.New("generate: empty text")
	}
	return out.Text, nil
}
