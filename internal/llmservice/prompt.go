package llmservice

import (
	"fmt"

	"word-qa/internal/models"
)

// BuildQuestionPrompt wraps a chunk of documents and the question with the
// citation and length instructions. The part hint is only added when the
// corpus was split.
func BuildQuestionPrompt(question, text string, chunkNumber, totalChunks, wordLimit int) string {
	hint := ""
	if totalChunks > 1 {
		hint = fmt.Sprintf(models.ChunkHintTemplate, chunkNumber, totalChunks)
	}
	if wordLimit <= 0 {
		wordLimit = models.DefaultWordLimit
	}
	return fmt.Sprintf(models.QuestionPromptTemplate, text, hint, question, wordLimit)
}
