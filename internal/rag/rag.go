package rag

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"word-qa/internal/chunker"
	"word-qa/internal/config"
	"word-qa/internal/llmservice"
	"word-qa/internal/models"
)

// RAG answers one question over a corpus: chunk, query each chunk, and
// synthesize when more than one chunk produced an answer.
type RAG struct {
	invoker        *llmservice.Invoker
	synthesizer    *Synthesizer
	chunkMaxTokens int
}

func NewRAG(invoker *llmservice.Invoker, cfg *config.Config) *RAG {
	return &RAG{
		invoker:        invoker,
		synthesizer:    NewSynthesizer(invoker, cfg.Answer.SynthesisMaxTokens),
		chunkMaxTokens: cfg.Answer.ChunkMaxTokens,
	}
}

// Answer runs the pipeline. The returned answer is empty when no chunk
// succeeded or when synthesis of several chunk answers failed; the partial
// answers are not used as a fallback in that case. The error is only set for
// an invalid budget.
func (r *RAG) Answer(ctx context.Context, question, corpus string, articles []models.Article, budget int) (string, *models.TechnicalDetails, error) {
	details := &models.TechnicalDetails{
		OriginalDocumentSize: utf8.RuneCountInString(corpus),
		ModelsUsed:           []string{},
		ChunkDetails:         []models.ChunkResult{},
	}

	chunks, err := chunker.Split(corpus, budget, articles)
	if err != nil {
		return "", details, err
	}
	details.ChunksCreated = len(chunks)
	log.Info().Int("chunks", len(chunks)).Int("document_size", details.OriginalDocumentSize).Msg("Document chunked")

	var succeeded []models.ChunkResult
	for i, chunk := range chunks {
		result := r.invoker.Invoke(ctx, question, chunk, i+1, len(chunks), r.chunkMaxTokens)
		details.ChunkDetails = append(details.ChunkDetails, result)
		if !result.Success {
			details.ChunksFailed++
			log.Warn().Int("chunk", result.ChunkNumber).Msg("Chunk failed, continuing with remaining chunks")
			continue
		}
		details.ChunksProcessed++
		details.AddModel(result.ModelUsed)
		succeeded = append(succeeded, result)
	}

	switch len(succeeded) {
	case 0:
		log.Error().Int("chunks", len(chunks)).Msg("No chunk produced an answer")
		return "", details, nil
	case 1:
		details.FinalModel = succeeded[0].ModelUsed
		return succeeded[0].Text, details, nil
	}

	partials := make([]string, len(succeeded))
	for i, res := range succeeded {
		partials[i] = res.Text
	}

	details.SynthesisPerformed = true
	synthesis, err := r.synthesizer.Synthesize(ctx, partials, question)
	if err != nil {
		return "", details, err
	}
	if !synthesis.Success {
		log.Error().Int("partials", len(partials)).Msg("Synthesis failed, no final answer")
		return "", details, nil
	}

	details.AddModel(synthesis.ModelUsed)
	details.FinalModel = synthesis.ModelUsed
	return synthesis.Text, details, nil
}
