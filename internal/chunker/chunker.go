// Package chunker splits corpus text into ordered chunks that fit a character budget.
package chunker

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"word-qa/internal/models"
)

var ErrInvalidBudget = errors.New("chunk budget must be positive")

// granularity is the boundary a piece of text is split on. Each level falls
// back to the next one for pieces that are still over budget.
type granularity int

const (
	byParagraph granularity = iota
	bySentence
	byWord
)

var paragraphRe = regexp.MustCompile(`\n[ \t\r]*\n`)

func (g granularity) String() string {
	switch g {
	case byParagraph:
		return "paragraph"
	case bySentence:
		return "sentence"
	default:
		return "word"
	}
}

func (g granularity) split(text string) []string {
	switch g {
	case byParagraph:
		return paragraphRe.Split(text, -1)
	case bySentence:
		return strings.SplitAfter(text, ". ")
	default:
		return strings.Fields(text)
	}
}

func (g granularity) separator() string {
	if g == byParagraph {
		return "\n\n"
	}
	return " "
}

// Split breaks content into chunks of at most budget characters.
//
// Content that already fits is returned unchanged as a single chunk. Otherwise,
// when articles are given they are packed whole in order, and only an article
// that is too large on its own is broken down further. Without articles the
// content is split on paragraphs, then sentences, then words. A single word
// longer than the budget is truncated.
func Split(content string, budget int, articles []models.Article) ([]string, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBudget, budget)
	}
	if size(content) <= budget {
		return []string{content}, nil
	}

	var chunks []string
	if len(articles) > 0 {
		chunks = packArticles(articles, budget)
	} else {
		chunks = splitText(content, budget, byParagraph)
	}
	if len(chunks) == 0 {
		// whitespace-only content
		chunks = []string{""}
	}

	log.Debug().Int("budget", budget).Int("articles", len(articles)).Int("chunks", len(chunks)).Msg("Split content into chunks")
	return chunks, nil
}

// RenderArticle returns the form an article takes inside a chunk.
func RenderArticle(a models.Article) string {
	return strings.TrimSpace(fmt.Sprintf(models.ArticleTemplate, a.Title, a.Content))
}

func packArticles(articles []models.Article, budget int) []string {
	p := packer{budget: budget, sep: models.ArticleSeparator}
	for _, a := range articles {
		rendered := RenderArticle(a)
		if size(rendered) > budget {
			p.flush()
			log.Debug().Str("title", a.Title).Int("size", size(rendered)).Msg("Article exceeds budget, splitting")
			p.chunks = append(p.chunks, splitText(rendered, budget, byParagraph)...)
			continue
		}
		p.add(rendered)
	}
	p.flush()
	return p.chunks
}

func splitText(text string, budget int, level granularity) []string {
	p := packer{budget: budget, sep: level.separator()}
	for _, piece := range level.split(text) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if size(piece) <= budget {
			p.add(piece)
			continue
		}

		p.flush()
		if level == byWord {
			log.Warn().Int("size", size(piece)).Int("budget", budget).Msg("Truncating word longer than chunk budget")
			p.chunks = append(p.chunks, truncate(piece, budget))
			continue
		}
		p.chunks = append(p.chunks, splitText(piece, budget, level+1)...)
	}
	p.flush()
	return p.chunks
}

// packer greedily joins pieces with sep until the next one would overflow.
type packer struct {
	budget      int
	sep         string
	chunks      []string
	current     strings.Builder
	currentSize int
}

func (p *packer) add(piece string) {
	n := size(piece)
	sepSize := size(p.sep)
	if p.currentSize > 0 && p.currentSize+sepSize+n > p.budget {
		p.flush()
	}
	if p.currentSize > 0 {
		p.current.WriteString(p.sep)
		p.currentSize += sepSize
	}
	p.current.WriteString(piece)
	p.currentSize += n
}

func (p *packer) flush() {
	if chunk := strings.TrimSpace(p.current.String()); chunk != "" {
		p.chunks = append(p.chunks, chunk)
	}
	p.current.Reset()
	p.currentSize = 0
}

func size(s string) int {
	return utf8.RuneCountInString(s)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
