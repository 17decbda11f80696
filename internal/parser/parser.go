package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"word-qa/internal/models"
)

var (
	ErrDataDirNotFound   = errors.New("data directory not found")
	ErrNoDocuments       = errors.New("no articles found in supported documents")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

const separatorWidth = 80

// Corpus is the combined text of a data directory plus the articles it was built from.
type Corpus struct {
	Text     string
	Articles []models.Article
}

// Supported reports whether ParseArticles can read the file.
func Supported(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".docx", ".pdf", ".xlsx":
		return true
	default:
		return false
	}
}

// ParseArticles extracts the articles of one document.
func ParseArticles(filePath string) ([]models.Article, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".docx":
		return parseDOCX(filePath)
	case ".pdf":
		return parsePDF(filePath)
	case ".xlsx":
		return parseXLSX(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ProcessDataDirectory reads every supported file in dataDir, in name order.
// Files that cannot be read are logged and skipped.
func ProcessDataDirectory(dataDir string) (*Corpus, error) {
	info, err := os.Stat(dataDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDataDirNotFound, dataDir)
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, err
	}

	corpus := &Corpus{}
	var lines []string
	for _, entry := range entries {
		name := entry.Name()
		// skip Office lock files
		if entry.IsDir() || strings.HasPrefix(name, "~$") || !Supported(name) {
			continue
		}

		log.Info().Str("file", name).Msg("Processing")
		articles, err := ParseArticles(filepath.Join(dataDir, name))
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("Could not process file")
			continue
		}

		for _, a := range articles {
			lines = append(lines,
				"File: "+name,
				"Title: "+a.Title,
				"Content: "+a.Content,
				strings.Repeat("-", separatorWidth),
			)
		}
		corpus.Articles = append(corpus.Articles, articles...)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocuments, dataDir)
	}
	corpus.Text = strings.Join(lines, "\n")
	return corpus, nil
}
