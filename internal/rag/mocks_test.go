package rag

import (
	"context"

	"github.com/rgudla/research-assistant/internal/domain/docmodel"
)

type mockVectorDB struct {
	OnEnsureCollection          func(ctx context.Context, collectionName string) error
	OnVerifyCollectionDimension func(ctx context.Context, collectionName string) error
	OnUpsertBatch               func(ctx context.Context, collectionName string, chunks []docmodel.DocChunk, vectors [][]float32, embeddingModel string) (int, error)
	OnQuery                     func(ctx context.Context, collectionName string, queryVector []float32, topK int) ([]docmodel.RetrievalResult, error)
	OnGetCachedAnswer           func(ctx context.Context, mode docmodel.AnswerMode, queryVector []float32) (docmodel.Answer, bool, error)
	OnSaveToCache               func(ctx context.Context, mode docmodel.AnswerMode, id string, vector []float32, answer docmodel.Answer) error
}

func (m *mockVectorDB) EnsureCollection(ctx context.Context, collectionName string) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, collectionName)
	}
	return nil
}

func (m *mockVectorDB) VerifyCollectionDimension(ctx context.Context, collectionName string) error {
	if m.OnVerifyCollectionDimension != nil {
		return m.OnVerifyCollectionDimension(ctx, collectionName)
	}
	return nil
}

func (m *mockVectorDB) UpsertBatch(ctx context.Context, collectionName string, chunks []docmodel.DocChunk, vectors [][]float32, embeddingModel string) (int, error) {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, collectionName, chunks, vectors, embeddingModel)
	}
	return len(chunks), nil
}

func (m *mockVectorDB) Query(ctx context.Context, collectionName string, queryVector []float32, topK int) ([]docmodel.RetrievalResult, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, collectionName, queryVector, topK)
	}
	return nil, nil
}

func (m *mockVectorDB) GetCachedAnswer(ctx context.Context, mode docmodel.AnswerMode, queryVector []float32) (docmodel.Answer, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, mode, queryVector)
	}
	return docmodel.Answer{}, false, nil
}

func (m *mockVectorDB) SaveToCache(ctx context.Context, mode docmodel.AnswerMode, id string, vector []float32, answer docmodel.Answer) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, mode, id, vector, answer)
	}
	return nil
}

type mockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, query string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

func (m *mockEmbedder) ModelName() string {
	return "mock-embedding-model"
}

type mockLLM struct {
	OnComplete func(ctx context.Context, system string, user string) (string, error)
	Called     bool
	LastSystem string
	LastUser   string
}

func (m *mockLLM) Complete(ctx context.Context, system string, user string) (string, error) {
	m.Called = true
	m.LastSystem = system
	m.LastUser = user
	if m.OnComplete != nil {
		return m.OnComplete(ctx, system, user)
	}
	return "mock answer", nil
}

type mockExtractor struct {
	OnExtractPages func(ctx context.Context, pdfPath string, ocrLang string, dpi int) ([]string, error)
	OnExtractMeta  func(pdfPath string, firstPageText string) docmodel.DocMeta
}

func (m *mockExtractor) ExtractPages(ctx context.Context, pdfPath string, ocrLang string, dpi int) ([]string, error) {
	if m.OnExtractPages != nil {
		return m.OnExtractPages(ctx, pdfPath, ocrLang, dpi)
	}
	return []string{"page one text"}, nil
}

func (m *mockExtractor) ExtractMeta(pdfPath string, firstPageText string) docmodel.DocMeta {
	if m.OnExtractMeta != nil {
		return m.OnExtractMeta(pdfPath, firstPageText)
	}
	return docmodel.DocMeta{}
}
