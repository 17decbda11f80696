package parser

import (
	"strings"

	"word-qa/internal/models"
)

// paragraph is one body paragraph of a word-processing document.
type paragraph struct {
	Style string
	Text  string
}

func (p paragraph) isHeading() bool {
	return strings.HasPrefix(strings.ToLower(p.Style), "heading")
}

type articleParserState struct {
	title   string
	content []string
	source  string
	result  []models.Article
}

// articlesFromParagraphs groups paragraphs into articles. Every heading starts
// a new article; paragraphs seen before the first heading are kept with it.
func articlesFromParagraphs(paragraphs []paragraph, source string) []models.Article {
	state := articleParserState{source: source}
	for _, p := range paragraphs {
		processParagraph(p, &state)
	}
	handleArticleEnd(&state)
	return state.result
}

func processParagraph(p paragraph, state *articleParserState) {
	if p.isHeading() {
		if handleArticleEnd(state) {
			state.content = nil
		}
		state.title = strings.TrimSpace(p.Text)
		return
	}
	state.content = append(state.content, p.Text)
}

// handleArticleEnd stores the current article if it has both a title and
// content, and reports whether it did.
func handleArticleEnd(state *articleParserState) bool {
	content := strings.TrimSpace(strings.Join(state.content, "\n"))
	if state.title == "" || content == "" {
		return false
	}
	state.result = append(state.result, models.Article{
		Title:   state.title,
		Content: content,
		Source:  state.source,
	})
	return true
}
