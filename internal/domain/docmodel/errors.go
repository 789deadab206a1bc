package docmodel

import "fmt"

// ValidationError covers bad request parameters. It is raised before any
// external call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// ExtractionError means no page of the document produced any text, from
// either the text layer or OCR.
type ExtractionError struct {
	SourceFile string
	Pages      int
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("no text extracted from %s (%d pages)", e.SourceFile, e.Pages)
}

// IngestionError covers failures before extraction starts: download
// failures, non-PDF content, size cap exceeded.
type IngestionError struct {
	Source string
	Reason string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingestion of %s failed: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("ingestion of %s failed: %s", e.Source, e.Reason)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// EmbeddingError aborts ingestion after chunking but before any upsert,
// so a document is never half stored.
type EmbeddingError struct {
	DocId string
	Err   error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed for doc %s: %v", e.DocId, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// StoreError reports how many records made it into the vector store, so
// the caller can retry the remainder keyed by chunk_id.
type StoreError struct {
	Collection string
	Written    int
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("vector store failure on collection %s after %d records: %v", e.Collection, e.Written, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// GenerationError means the language model call failed or timed out; no
// partial answer is ever returned alongside it.
type GenerationError struct {
	Mode AnswerMode
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed in %s mode: %v", e.Mode, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
