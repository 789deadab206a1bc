package rag

import (
	"context"
	"time"

	"github.com/rgudla/research-assistant/internal/adapter/utils"
	"github.com/rgudla/research-assistant/internal/config"
	"github.com/rgudla/research-assistant/internal/domain/docmodel"
	"github.com/rgudla/research-assistant/internal/metrics"
)

// Step wrappers: each pipeline stage gets a latency sample under its
// own label so slow dependencies show up per stage, not per request.

func (s *service) executeExtractionStep(ctx context.Context, pdfPath string, params docmodel.IngestParams) ([]string, error) {
	start := time.Now()
	pages, err := s.extractor.ExtractPages(ctx, pdfPath, params.OCRLang, params.DPI)
	metrics.CaptureExecutionMetrics("pdf_extraction", time.Since(start))
	return pages, err
}

func (s *service) executeBatchEmbeddingStep(ctx context.Context, chunkTexts []string) ([][]float32, error) {
	start := time.Now()
	vectors, err := s.embedder.BatchEmbedding(ctx, chunkTexts)
	metrics.CaptureExecutionMetrics("batch_embedding", time.Since(start))
	return vectors, err
}

func (s *service) executeEmbeddingStep(ctx context.Context, question string) ([]float32, error) {
	start := time.Now()
	vector, err := s.embedder.GetEmbedding(ctx, question)
	metrics.CaptureExecutionMetrics("query_embedding", time.Since(start))
	return vector, err
}

func (s *service) executeUpsertStep(ctx context.Context, collectionName string, chunks []docmodel.DocChunk, vectors [][]float32) (int, error) {
	start := time.Now()
	written, err := s.vectorDB.UpsertBatch(ctx, collectionName, chunks, vectors, s.embedder.ModelName())
	metrics.CaptureExecutionMetrics("vector_upsert", time.Since(start))
	return written, err
}

func (s *service) executeVectorSearchStep(ctx context.Context, collectionName string, queryVector []float32, topK int) ([]docmodel.RetrievalResult, error) {
	start := time.Now()
	results, err := s.vectorDB.Query(ctx, collectionName, queryVector, topK)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	return results, err
}

// A cache lookup failure is never worth failing the request over.
func (s *service) executeCacheCheckStep(ctx context.Context, mode docmodel.AnswerMode, queryVector []float32) (docmodel.Answer, bool) {
	start := time.Now()
	answer, found, err := s.vectorDB.GetCachedAnswer(ctx, mode, queryVector)
	metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start))
	if err != nil {
		s.logger.Warn("Answer cache lookup failed", "mode", mode, "error", err)
		return docmodel.Answer{}, false
	}
	return answer, found
}

func (s *service) executeLLMStep(ctx context.Context, system string, user string) (string, error) {
	start := time.Now()
	text, err := s.llmProvider.Complete(ctx, system, user)
	metrics.CaptureExecutionMetrics("llm_completion", time.Since(start))
	return text, err
}

// saveAnswerToCache runs after the response is sent, so it uses its own
// bounded context instead of the already finished request context.
func (s *service) saveAnswerToCache(mode docmodel.AnswerMode, queryVector []float32, answer docmodel.Answer) {
	ctx, cancel := context.WithTimeout(context.Background(), config.CacheWriteTimeout)
	defer cancel()

	if mode == docmodel.ModeGapDetection {
		// gap reports are returned without sources, keep the cache consistent
		answer.Sources = nil
	}
	if err := s.vectorDB.SaveToCache(ctx, mode, utils.GetNewUUID(), queryVector, answer); err != nil {
		s.logger.Warn("Answer cache write failed", "mode", mode, "error", err)
	}
}
