package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"word-qa/internal/llmservice"
	"word-qa/internal/models"
)

var ErrNothingToSynthesize = errors.New("synthesis needs at least two partial answers")

// Synthesizer merges per-chunk answers into one answer with a further model call.
type Synthesizer struct {
	invoker   *llmservice.Invoker
	maxTokens int
}

func NewSynthesizer(invoker *llmservice.Invoker, maxTokens int) *Synthesizer {
	return &Synthesizer{invoker: invoker, maxTokens: maxTokens}
}

// Synthesize returns the merged answer. A failed model call is reported
// through the result, not the error.
func (s *Synthesizer) Synthesize(ctx context.Context, partials []string, question string) (models.ChunkResult, error) {
	if len(partials) < 2 {
		return models.ChunkResult{}, fmt.Errorf("%w: got %d", ErrNothingToSynthesize, len(partials))
	}

	log.Info().Int("partials", len(partials)).Msg("Synthesizing partial answers")
	prompt := BuildSynthesisPrompt(partials, question, s.invoker.WordLimit())
	return s.invoker.Complete(ctx, prompt, s.maxTokens), nil
}

func BuildSynthesisPrompt(partials []string, question string, wordLimit int) string {
	parts := make([]string, len(partials))
	for i, p := range partials {
		parts[i] = fmt.Sprintf("Partial answer %d:\n%s", i+1, strings.TrimSpace(p))
	}
	return fmt.Sprintf(models.SynthesisPromptTemplate, len(partials), question, strings.Join(parts, models.SynthesisSeparator), wordLimit)
}
