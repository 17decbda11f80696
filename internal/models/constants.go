package models

const (
	ArticleTemplate    = "Title: %s\nContent: %s"
	ArticleSeparator   = "\n\n"
	SynthesisSeparator = "\n\n---\n\n"
	DefaultWordLimit   = 500
)

var (
	QuestionPromptTemplate = `You are a helpful assistant. The following is the content of documents from a data directory:

%s
%s
Question: %s

IMPORTANT: You must include citations in parentheses after every factual claim you make. Citations should include the article title, publication name, and publication date if available from the document. For example: (Title: "Article Name", Publication: "Miami Herald", Date: 2024-01-15) or (Title: "Article Name", Publication: "Miami Herald") if no date is available.

Please answer in %d words or fewer.`

	ChunkHintTemplate = `
Note: this is part %d of %d of the documents. Answer using only the information in this part; other parts are answered separately.
`

	SynthesisPromptTemplate = `You are a helpful assistant. The question below was answered separately against %d parts of a document collection. The partial answers follow, separated by "---".

Question: %s

%s

Combine the partial answers into a single coherent answer:
- Merge the information from all partial answers.
- Remove redundant statements and resolve any contradictions.
- Keep every citation in parentheses exactly as given in the partial answers.

Please answer in %d words or fewer.`
)
