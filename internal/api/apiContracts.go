package api

type HealthResponse struct {
	Ok bool `json:"ok" example:"true"`
}

type IngestResponse struct {
	Ok           bool     `json:"ok"`
	Pdf          string   `json:"pdf" example:"attention_is_all_you_need.pdf"`
	DocId        string   `json:"doc_id" example:"attention_is_all_you_need_1a2b3c4d"`
	Pages        int      `json:"pages" example:"12"`
	Chunks       int      `json:"chunks" example:"48"`
	Embedded     int      `json:"embedded" example:"48"`
	Ids          []string `json:"ids"`
	Collection   string   `json:"collection" example:"edu_books"`
	SavedPdfPath string   `json:"saved_pdf_path,omitempty"`
}

// ChunkOverlap is a pointer so a client sending an explicit 0 is
// distinguishable from one omitting the field.
type IngestURLRequest struct {
	URL            string `json:"url" validate:"required"`
	CollectionName string `json:"collection_name,omitempty"`
	OCRLang        string `json:"ocr_lang,omitempty"`
	ChunkSize      int    `json:"chunk_size,omitempty"`
	ChunkOverlap   *int   `json:"chunk_overlap,omitempty"`
	DPI            int    `json:"dpi,omitempty"`
}

type AskRequest struct {
	Question       string `json:"question" validate:"required"`
	TopK           int    `json:"top_k,omitempty"`
	CollectionName string `json:"collection_name,omitempty"`
}

type Source struct {
	Id       string         `json:"id"`
	Document string         `json:"document"`
	Metadata map[string]any `json:"metadata"`
	Distance float64        `json:"distance"`
}

type AskResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []Source `json:"sources"`
}

// GapsResponse deliberately has no sources field: gap detection returns
// only the synthesized answer, never the retrieved material.
type GapsResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"chunk_overlap must be smaller than chunk_size"`
	Code    int    `json:"code" example:"400"`
	Stage   string `json:"stage,omitempty" example:"validation"`
	DocId   string `json:"doc_id,omitempty"`
	Written int    `json:"written,omitempty"`
}
