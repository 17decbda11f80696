// Package report writes question/answer reports as Markdown with an HTML rendering.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"word-qa/internal/helper"
	"word-qa/internal/models"
)

const noAnswer = "No answer received."

// Report is everything a saved report shows.
type Report struct {
	Question    string
	Answer      string
	Details     *models.TechnicalDetails
	GeneratedAt time.Time
}

// Save writes qa_<timestamp>.md and qa_<timestamp>.html into outputDir and
// returns the Markdown file name.
func Save(outputDir string, r Report) (string, error) {
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}
	if err := helper.CreateFolder(outputDir); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	base := "qa_" + r.GeneratedAt.Format("20060102_150405")
	markdown := Markdown(r)

	htmlBody, err := convertToHTML(markdown)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}

	mdName := base + ".md"
	if err := os.WriteFile(filepath.Join(outputDir, mdName), []byte(markdown), 0o644); err != nil {
		return "", err
	}
	page := fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Q&amp;A Report</title></head>\n<body>\n%s</body>\n</html>\n", htmlBody)
	if err := os.WriteFile(filepath.Join(outputDir, base+".html"), []byte(page), 0o644); err != nil {
		return "", err
	}
	return mdName, nil
}

// Markdown renders the report as a Markdown document.
func Markdown(r Report) string {
	var b strings.Builder
	b.WriteString("# Q&A Report\n\n")
	b.WriteString("## Question\n\n")
	b.WriteString(r.Question + "\n\n")
	b.WriteString("## Answer\n\n")
	if strings.TrimSpace(r.Answer) == "" {
		b.WriteString(noAnswer + "\n\n")
	} else {
		b.WriteString(strings.TrimSpace(r.Answer) + "\n\n")
	}

	if d := r.Details; d != nil {
		b.WriteString("## Technical Details\n\n")
		fmt.Fprintf(&b, "- Final model: %s\n", orNone(d.FinalModel))
		fmt.Fprintf(&b, "- Models used: %s\n", orNone(strings.Join(d.ModelsUsed, ", ")))
		fmt.Fprintf(&b, "- Document size: %d characters\n", d.OriginalDocumentSize)
		fmt.Fprintf(&b, "- Chunks: %d created, %d processed, %d failed\n", d.ChunksCreated, d.ChunksProcessed, d.ChunksFailed)
		fmt.Fprintf(&b, "- Synthesis performed: %t\n\n", d.SynthesisPerformed)

		if len(d.ChunkDetails) > 1 {
			b.WriteString("| Chunk | Size | Model | Status |\n")
			b.WriteString("|---|---|---|---|\n")
			for _, c := range d.ChunkDetails {
				status := "failed"
				if c.Success {
					status = "ok"
				}
				fmt.Fprintf(&b, "| %d | %d | %s | %s |\n", c.ChunkNumber, c.ChunkSize, orNone(c.ModelUsed), status)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "*Generated on: %s*\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}

func convertToHTML(text string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
