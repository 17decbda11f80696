package models

// Article is one titled unit of the corpus, as extracted from a source document.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// Candidate is one entry of the ordered model fallback list.
type Candidate struct {
	ID          string `yaml:"id" json:"id"`
	DisplayName string `yaml:"name" json:"name"`
}

// ChunkResult records the outcome of querying a single chunk.
// ModelUsed and Text are empty when Success is false.
type ChunkResult struct {
	ChunkNumber int    `json:"chunk_number"`
	ChunkSize   int    `json:"chunk_size"`
	ModelUsed   string `json:"model_used,omitempty"`
	Success     bool   `json:"success"`
	Text        string `json:"text,omitempty"`
}

// TechnicalDetails summarises one question-answer run.
type TechnicalDetails struct {
	FinalModel           string        `json:"final_model,omitempty"`
	ModelsUsed           []string      `json:"models_used"`
	OriginalDocumentSize int           `json:"original_document_size"`
	ChunksCreated        int           `json:"chunks_created"`
	ChunksProcessed      int           `json:"chunks_processed"`
	ChunksFailed         int           `json:"chunks_failed"`
	SynthesisPerformed   bool          `json:"synthesis_performed"`
	ChunkDetails         []ChunkResult `json:"chunk_details"`
}

// AddModel appends model to ModelsUsed unless it is empty or already present.
func (d *TechnicalDetails) AddModel(model string) {
	if model == "" {
		return
	}
	for _, m := range d.ModelsUsed {
		if m == model {
			return
		}
	}
	d.ModelsUsed = append(d.ModelsUsed, model)
}
