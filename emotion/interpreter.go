// Package emotion turns a transcript into a typed EmotionRecord by asking a
// text-generation provider for a fixed JSON shape.
package emotion

import (
	"context"
	"errors"
	"fmt"

	"github.com/cognora/checkin-pipeline/model"
)

// ErrUnavailable is returned by generators that are switched off.
var ErrUnavailable = errors.New("emotion: text generation unavailable")

// Generator produces a completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Interpreter struct {
	gen Generator
}

func New(gen Generator) *Interpreter {
	return &Interpreter{gen: gen}
}

// Interpret calls the generator exactly once. It always returns a usable
// record: on a transport failure the record is the "interpreter_unavailable"
// marker, on a malformed reply the "malformed_json" marker. The error is
// returned alongside for logging.
func (i *Interpreter) Interpret(ctx context.Context, transcript, userContext string) (model.EmotionRecord, error) {
	raw, err := i.gen.Generate(ctx, BuildPrompt(transcript, userContext))
	if err != nil {
		return Unavailable(), fmt.Errorf("emotion generate: %w", err)
	}
	return Parse(raw)
}
