package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"word-qa/internal/models"
)

var generatedAt = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func TestMarkdown(t *testing.T) {
	md := Markdown(Report{
		Question: "What happened?",
		Answer:   "A storm (Title: \"Storm\").",
		Details: &models.TechnicalDetails{
			FinalModel:           "model-a",
			ModelsUsed:           []string{"model-b", "model-a"},
			OriginalDocumentSize: 1234,
			ChunksCreated:        2,
			ChunksProcessed:      1,
			ChunksFailed:         1,
			ChunkDetails: []models.ChunkResult{
				{ChunkNumber: 1, ChunkSize: 600, ModelUsed: "model-b", Success: true, Text: "x"},
				{ChunkNumber: 2, ChunkSize: 634},
			},
		},
		GeneratedAt: generatedAt,
	})

	assert.Contains(t, md, "## Question\n\nWhat happened?\n")
	assert.Contains(t, md, "## Answer\n\nA storm (Title: \"Storm\").\n")
	assert.Contains(t, md, "- Models used: model-b, model-a\n")
	assert.Contains(t, md, "- Chunks: 2 created, 1 processed, 1 failed\n")
	assert.Contains(t, md, "| 1 | 600 | model-b | ok |\n")
	assert.Contains(t, md, "| 2 | 634 | none | failed |\n")
	assert.Contains(t, md, "*Generated on: 2024-05-06 07:08:09*")
}

func TestMarkdown_NoAnswer(t *testing.T) {
	md := Markdown(Report{Question: "Q?", GeneratedAt: generatedAt})
	assert.Contains(t, md, noAnswer)
	assert.NotContains(t, md, "Technical Details")
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")

	name, err := Save(dir, Report{
		Question:    "What happened?",
		Answer:      "**Flooding** closed schools.",
		Details:     &models.TechnicalDetails{FinalModel: "model-a", ModelsUsed: []string{"model-a"}},
		GeneratedAt: generatedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, "qa_20240506_070809.md", name)

	md, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(md), "**Flooding** closed schools.")

	page, err := os.ReadFile(filepath.Join(dir, "qa_20240506_070809.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<h1>Q&amp;A Report</h1>")
	assert.Contains(t, string(page), "<strong>Flooding</strong> closed schools.")
}
