package llmservice

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"word-qa/internal/models"
)

// FallbackPolicy is an ordered list of candidate models and a predicate
// deciding whether a failed attempt moves on to the next candidate.
type FallbackPolicy struct {
	Candidates  []models.Candidate
	Recoverable func(error) bool
}

// DefaultRecoverable treats every failure as recoverable except cancellation
// by the caller.
func DefaultRecoverable(err error) bool {
	return !errors.Is(err, context.Canceled)
}

func (p FallbackPolicy) recoverable(err error) bool {
	if p.Recoverable == nil {
		return DefaultRecoverable(err)
	}
	return p.Recoverable(err)
}

type InvokerConfig struct {
	Policy    FallbackPolicy
	Timeout   time.Duration
	WordLimit int
}

// Invoker sends prompts to the first candidate model that answers.
// Each candidate is tried at most once per call.
type Invoker struct {
	transport Transport
	policy    FallbackPolicy
	timeout   time.Duration
	wordLimit int
}

func NewInvoker(transport Transport, cfg InvokerConfig) *Invoker {
	wordLimit := cfg.WordLimit
	if wordLimit <= 0 {
		wordLimit = models.DefaultWordLimit
	}
	return &Invoker{
		transport: transport,
		policy:    cfg.Policy,
		timeout:   cfg.Timeout,
		wordLimit: wordLimit,
	}
}

// WordLimit is the answer length ceiling used in prompts.
func (i *Invoker) WordLimit() int {
	return i.wordLimit
}

// Invoke asks question against one chunk of the corpus.
func (i *Invoker) Invoke(ctx context.Context, question, text string, chunkNumber, totalChunks, maxTokens int) models.ChunkResult {
	logger := log.With().Int("chunk", chunkNumber).Int("total_chunks", totalChunks).Logger()
	prompt := BuildQuestionPrompt(question, text, chunkNumber, totalChunks, i.wordLimit)

	result := i.run(ctx, prompt, maxTokens, logger)
	result.ChunkNumber = chunkNumber
	result.ChunkSize = utf8.RuneCountInString(text)
	return result
}

// Complete sends an already built prompt as a single chunk.
func (i *Invoker) Complete(ctx context.Context, prompt string, maxTokens int) models.ChunkResult {
	result := i.run(ctx, prompt, maxTokens, log.Logger)
	result.ChunkNumber = 1
	result.ChunkSize = utf8.RuneCountInString(prompt)
	return result
}

func (i *Invoker) run(ctx context.Context, prompt string, maxTokens int, logger zerolog.Logger) models.ChunkResult {
	// invalid bytes are dropped rather than failing every candidate
	prompt = strings.ToValidUTF8(prompt, "")

	for _, candidate := range i.policy.Candidates {
		if err := ctx.Err(); err != nil {
			logger.Warn().Err(err).Msg("Context done, skipping remaining models")
			break
		}

		text, err := i.attempt(ctx, candidate, prompt, maxTokens)
		if err == nil {
			logger.Info().Str("model", candidate.DisplayName).Msg("Successfully used model")
			return models.ChunkResult{Success: true, ModelUsed: candidate.ID, Text: text}
		}

		if !i.policy.recoverable(err) {
			logger.Error().Err(err).Str("model", candidate.DisplayName).Msg("Unrecoverable model error")
			break
		}
		if errors.Is(err, ErrOverloaded) {
			logger.Warn().Str("model", candidate.DisplayName).Msg("Model is overloaded, trying fallback")
			continue
		}
		logger.Error().Err(err).Str("model", candidate.DisplayName).Msg("Error occurred with model, trying fallback")
	}

	logger.Error().Msg("All models failed or are overloaded")
	return models.ChunkResult{}
}

func (i *Invoker) attempt(ctx context.Context, candidate models.Candidate, prompt string, maxTokens int) (string, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	resp, err := i.transport.Send(ctx, userRequest(candidate.ID, prompt, maxTokens))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
