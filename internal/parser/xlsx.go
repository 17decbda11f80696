package parser

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"word-qa/internal/models"
)

// parseXLSX reads article index sheets: a header row naming "title" and
// "content" columns, optionally "publication" and "date", then one article
// per row. Sheets without those headers are skipped.
func parseXLSX(filePath string) ([]models.Article, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	source := filepath.Base(filePath)
	var articles []models.Article
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			log.Warn().Err(err).Str("sheet", sheetName).Msg("Could not read sheet")
			continue
		}
		if len(rows) < 2 {
			continue
		}

		columns := headerColumns(rows[0])
		if _, ok := columns["title"]; !ok {
			log.Debug().Str("sheet", sheetName).Msg("Sheet has no title column, skipping")
			continue
		}
		if _, ok := columns["content"]; !ok {
			log.Debug().Str("sheet", sheetName).Msg("Sheet has no content column, skipping")
			continue
		}

		for _, row := range rows[1:] {
			title := field(row, columns, "title")
			content := field(row, columns, "content")
			if title == "" || content == "" {
				continue
			}

			var meta []string
			if pub := field(row, columns, "publication"); pub != "" {
				meta = append(meta, "Publication: "+pub)
			}
			if date := field(row, columns, "date"); date != "" {
				meta = append(meta, "Date: "+date)
			}
			if len(meta) > 0 {
				content = strings.Join(meta, "\n") + "\n" + content
			}

			articles = append(articles, models.Article{Title: title, Content: content, Source: source})
		}
	}
	return articles, nil
}

func headerColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := columns[key]; key != "" && !seen {
			columns[key] = i
		}
	}
	return columns
}

func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
