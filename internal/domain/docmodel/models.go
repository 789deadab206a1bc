package docmodel

import (
	"context"
	"time"
)

type AnswerMode string

const (
	ModeQA           AnswerMode = "qa"
	ModeGapDetection AnswerMode = "gaps"
)

// DocMeta holds bibliographic metadata from the PDF info dictionary,
// with first-page heuristics filling the blanks. All fields are
// best-effort and may be empty.
type DocMeta struct {
	Title    string `json:"title,omitempty"`
	Authors  string `json:"authors,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Keywords string `json:"keywords,omitempty"`
	Year     string `json:"year,omitempty"`
}

// Document identity is content addressed: the same bytes under the same
// source name always map to the same Id, so re-ingestion is detectable.
type Document struct {
	Id         string  `json:"doc_id"`
	SourceFile string  `json:"source_file"`
	PageCount  int     `json:"page_count"`
	Meta       DocMeta `json:"meta,omitempty"`
}

type DocChunk struct {
	Doc        Document
	ChunkId    string `json:"chunk_id"`
	ChunkIndex int    `json:"chunk_index"`
	Content    string `json:"content"`
}

// RetrievalResult carries one stored chunk back from the vector store.
// Distance is 1 - cosine similarity: lower means more relevant.
type RetrievalResult struct {
	ChunkId  string         `json:"id"`
	Content  string         `json:"document"`
	Metadata map[string]any `json:"metadata"`
	Distance float64        `json:"distance"`
}

type Answer struct {
	Question string
	Answer   string
	Sources  []RetrievalResult
}

// IngestParams carries the per-request knobs. ChunkOverlap is a pointer
// because an explicit 0 and an omitted value mean different things: only
// the latter takes the default.
type IngestParams struct {
	Collection   string
	OCRLang      string
	ChunkSize    int
	ChunkOverlap *int
	DPI          int
}

type IngestResult struct {
	Doc          Document
	ChunkIds     []string
	Chunks       int
	Embedded     int
	Collection   string
	SavedPDFPath string
}

// IngestionRecord is what the document registry persists per doc_id.
type IngestionRecord struct {
	DocId      string    `json:"doc_id"`
	SourceFile string    `json:"source_file"`
	Pages      int       `json:"pages"`
	Chunks     int       `json:"chunks"`
	Collection string    `json:"collection"`
	IngestedAt time.Time `json:"ingested_at"`
}

type DocumentStore interface {
	GetRecord(ctx context.Context, docId string) (IngestionRecord, bool)
	SaveRecord(ctx context.Context, record IngestionRecord) error
	DeleteRecord(ctx context.Context, docId string)
}
