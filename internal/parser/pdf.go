package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"word-qa/internal/models"
)

// parsePDF returns the whole file as one article titled by its file name.
func parsePDF(filePath string) ([]models.Article, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if pageText = strings.TrimSpace(pageText); pageText != "" {
			pages = append(pages, pageText)
		}
	}
	if len(pages) == 0 {
		return nil, nil
	}

	name := filepath.Base(filePath)
	return []models.Article{{
		Title:   strings.TrimSuffix(name, filepath.Ext(name)),
		Content: strings.Join(pages, "\n\n"),
		Source:  name,
	}}, nil
}
