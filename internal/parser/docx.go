package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"word-qa/internal/models"
)

func parseDOCX(filePath string) ([]models.Article, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// GetContent returns the raw word/document.xml
	paragraphs, err := parseDocumentXML(r.Editable().GetContent())
	if err != nil {
		return nil, fmt.Errorf("parse document.xml: %w", err)
	}
	return articlesFromParagraphs(paragraphs, filepath.Base(filePath)), nil
}

// parseDocumentXML returns the top-level paragraphs of a document.xml body
// with their style ids. Text of nested paragraphs (text boxes) is folded into
// the enclosing paragraph.
func parseDocumentXML(content string) ([]paragraph, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []paragraph
		current    paragraph
		text       strings.Builder
		depth      int
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				depth++
				if depth == 1 {
					current = paragraph{}
					text.Reset()
				}
			case "pStyle":
				if depth == 1 {
					current.Style = attrValue(t, "val")
				}
			case "t":
				inText = depth > 0
			case "tab":
				if depth > 0 {
					text.WriteString("\t")
				}
			case "br", "cr":
				if depth > 0 {
					text.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if depth == 1 {
					current.Text = text.String()
					paragraphs = append(paragraphs, current)
				}
				if depth > 0 {
					depth--
				}
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}
	return paragraphs, nil
}

func attrValue(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
