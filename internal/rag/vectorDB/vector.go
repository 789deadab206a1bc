package vectorDB

import (
	"context"

	"github.com/rgudla/research-assistant/internal/domain/docmodel"
)

// DataProcessor is the vector store contract. Distance on results is
// 1 - cosine similarity: lower means closer, and Query returns results
// in non-decreasing distance order.
type DataProcessor interface {
	// EnsureCollection creates the collection with the configured
	// dimensionality if it does not exist yet.
	EnsureCollection(ctx context.Context, collectionName string) error

	// VerifyCollectionDimension fails when an existing collection was
	// built with a different vector size than the configured embedding
	// model produces. Meant to run once at startup.
	VerifyCollectionDimension(ctx context.Context, collectionName string) error

	// UpsertBatch writes chunk records; it reports how many records were
	// written even on failure so the caller can retry the remainder.
	// Point ids derive from chunk ids, so retries never duplicate.
	UpsertBatch(ctx context.Context, collectionName string, chunks []docmodel.DocChunk, vectors [][]float32, embeddingModel string) (int, error)

	// Query returns up to topK nearest records, best match first. topK
	// is clamped to the configured maximum.
	Query(ctx context.Context, collectionName string, queryVector []float32, topK int) ([]docmodel.RetrievalResult, error)

	GetCachedAnswer(ctx context.Context, mode docmodel.AnswerMode, queryVector []float32) (docmodel.Answer, bool, error)
	SaveToCache(ctx context.Context, mode docmodel.AnswerMode, id string, vector []float32, answer docmodel.Answer) error
}
