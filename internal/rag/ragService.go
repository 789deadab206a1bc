package rag

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rgudla/research-assistant/internal/config"
	"github.com/rgudla/research-assistant/internal/domain/docmodel"
	"github.com/rgudla/research-assistant/internal/metrics"
	"github.com/rgudla/research-assistant/internal/rag/embedding"
	"github.com/rgudla/research-assistant/internal/rag/ingest"
	"github.com/rgudla/research-assistant/internal/rag/llm"
	"github.com/rgudla/research-assistant/internal/rag/vectorDB"
	"github.com/rgudla/research-assistant/pkg/logger_i"
)

// Service is the public contract of the pipeline: handlers only see
// this, never the vector store or LLM clients behind it.
type Service interface {
	IngestPDF(ctx context.Context, pdfPath string, sourceName string, params docmodel.IngestParams) (docmodel.IngestResult, error)
	IngestURL(ctx context.Context, rawURL string, params docmodel.IngestParams) (docmodel.IngestResult, error)
	Ask(ctx context.Context, mode docmodel.AnswerMode, question string, topK int, collectionName string) (docmodel.Answer, error)
}

// PageExtractor is what the service needs from the PDF side; the real
// implementation lives in ingest.Extractor.
type PageExtractor interface {
	ExtractPages(ctx context.Context, pdfPath string, ocrLang string, dpi int) ([]string, error)
	ExtractMeta(pdfPath string, firstPageText string) docmodel.DocMeta
}

type service struct {
	vectorDB          vectorDB.DataProcessor
	llmProvider       llm.Provider
	embedder          embedding.Embedder
	docStore          docmodel.DocumentStore
	extractor         PageExtractor
	storageDir        string
	defaultCollection string
	defaultOCRLang    string
	logger            *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, llmP llm.Provider, em embedding.Embedder,
	docStore docmodel.DocumentStore, extractor PageExtractor, env config.Env) Service {
	return &service{
		vectorDB:          vector,
		llmProvider:       llmP,
		embedder:          em,
		docStore:          docStore,
		extractor:         extractor,
		storageDir:        env.StoragePDFDir,
		defaultCollection: env.CollectionName,
		defaultOCRLang:    env.OCRLang,
		logger:            logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) IngestPDF(ctx context.Context, pdfPath string, sourceName string, params docmodel.IngestParams) (docmodel.IngestResult, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "pdf", sourceName)

	params = s.applyIngestDefaults(params)
	if err := validateIngestParams(params); err != nil {
		return docmodel.IngestResult{}, err
	}

	content, err := os.ReadFile(pdfPath)
	if err != nil {
		return docmodel.IngestResult{}, &docmodel.IngestionError{Source: sourceName, Reason: "could not read PDF", Err: err}
	}

	pages, err := s.executeExtractionStep(ctx, pdfPath, params)
	if err != nil {
		log.Error("extraction failed", "error", err)
		return docmodel.IngestResult{}, err
	}

	docId := ingest.AssignDocId(sourceName, content)
	doc := docmodel.Document{
		Id:         docId,
		SourceFile: filepath.Base(sourceName),
		PageCount:  len(pages),
		Meta:       s.extractor.ExtractMeta(pdfPath, firstPage(pages)),
	}
	log = log.With("doc_id", docId)

	if record, found := s.docStore.GetRecord(ctx, docId); found {
		// same bytes, same name: chunk ids will match and the upsert
		// below just overwrites the existing points
		log.Info("re-ingesting already known document", "first_ingested", record.IngestedAt)
	}

	// page boundaries survive as paragraph breaks, which the chunker
	// treats as its strongest separator
	fullText := strings.Join(pages, "\n\n")

	chunkTexts, err := ingest.SplitText(fullText, params.ChunkSize, *params.ChunkOverlap)
	if err != nil {
		return docmodel.IngestResult{}, err
	}

	chunks := make([]docmodel.DocChunk, 0, len(chunkTexts))
	chunkIds := make([]string, 0, len(chunkTexts))
	for i, text := range chunkTexts {
		id := ingest.ChunkID(docId, i)
		chunkIds = append(chunkIds, id)
		chunks = append(chunks, docmodel.DocChunk{
			Doc:        doc,
			ChunkId:    id,
			ChunkIndex: i,
			Content:    text,
		})
	}

	// embed the full batch before any write; a cancelled or failed
	// request must not leave a half-stored document behind
	vectors, err := s.executeBatchEmbeddingStep(ctx, chunkTexts)
	if err != nil {
		log.Error("embedding failed", "stage", "embedding", "collection", params.Collection, "error", err)
		return docmodel.IngestResult{}, &docmodel.EmbeddingError{DocId: docId, Err: err}
	}

	if err := s.vectorDB.EnsureCollection(ctx, params.Collection); err != nil {
		log.Error("collection creation failed", "stage", "store", "collection", params.Collection, "error", err)
		return docmodel.IngestResult{}, &docmodel.StoreError{Collection: params.Collection, Written: 0, Err: err}
	}

	written, err := s.executeUpsertStep(ctx, params.Collection, chunks, vectors)
	if err != nil {
		log.Error("upsert failed", "stage", "store", "collection", params.Collection, "written", written, "error", err)
		return docmodel.IngestResult{}, &docmodel.StoreError{Collection: params.Collection, Written: written, Err: err}
	}

	savedPath := s.saveOriginal(pdfPath, docId, log)

	if err := s.docStore.SaveRecord(ctx, docmodel.IngestionRecord{
		DocId:      docId,
		SourceFile: doc.SourceFile,
		Pages:      doc.PageCount,
		Chunks:     len(chunks),
		Collection: params.Collection,
		IngestedAt: time.Now(),
	}); err != nil {
		log.Warn("failed to persist ingestion record", "error", err)
	}

	metrics.CountDocumentIngested(len(chunks))
	log.Info("ingest complete", "pages", doc.PageCount, "chunks", len(chunks), "collection", params.Collection)

	return docmodel.IngestResult{
		Doc:          doc,
		ChunkIds:     chunkIds,
		Chunks:       len(chunks),
		Embedded:     written,
		Collection:   params.Collection,
		SavedPDFPath: savedPath,
	}, nil
}

func (s *service) IngestURL(ctx context.Context, rawURL string, params docmodel.IngestParams) (docmodel.IngestResult, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "url", rawURL)
	log.Info("ingesting PDF from URL")

	filename, tempPath, err := ingest.DownloadPDF(ctx, rawURL, s.storageDir)
	if err != nil {
		log.Error("download failed", "stage", "download", "error", err)
		return docmodel.IngestResult{}, err
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			log.Warn("failed to delete downloaded temp file", "path", tempPath, "error", err)
		}
	}()

	return s.IngestPDF(ctx, tempPath, filename, params)
}

func (s *service) Ask(ctx context.Context, mode docmodel.AnswerMode, question string, topK int, collectionName string) (docmodel.Answer, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "mode", mode)

	if strings.TrimSpace(question) == "" {
		return docmodel.Answer{}, &docmodel.ValidationError{Field: "question", Reason: "must not be empty"}
	}
	if topK == 0 {
		topK = config.DefaultTopK
	}
	if topK < 0 {
		return docmodel.Answer{}, &docmodel.ValidationError{Field: "top_k", Reason: "must be positive"}
	}
	if collectionName == "" {
		collectionName = s.defaultCollection
	}

	queryVector, err := s.executeEmbeddingStep(ctx, question)
	if err != nil {
		log.Error("question embedding failed", "stage", "embedding", "error", err)
		return docmodel.Answer{}, &docmodel.EmbeddingError{Err: err}
	}

	// the answer cache is only keyed by question vector, so it is only
	// sound for the default collection
	useCache := collectionName == s.defaultCollection
	if useCache {
		if cached, found := s.executeCacheCheckStep(ctx, mode, queryVector); found {
			metrics.CountCacheHit(string(mode))
			cached.Question = question
			return cached, nil
		}
	}

	results, err := s.executeVectorSearchStep(ctx, collectionName, queryVector, topK)
	if err != nil {
		log.Error("retrieval failed", "stage", "store", "collection", collectionName, "error", err)
		return docmodel.Answer{}, &docmodel.StoreError{Collection: collectionName, Err: err}
	}

	if len(results) == 0 {
		// never hand the model an empty context to hallucinate over
		log.Info("no relevant context found", "collection", collectionName)
		return docmodel.Answer{Question: question, Answer: noContextAnswer(mode)}, nil
	}

	system, user := buildPrompt(mode, question, results)
	text, err := s.executeLLMStep(ctx, system, user)
	if err != nil {
		log.Error("generation failed", "stage", "generation", "error", err)
		return docmodel.Answer{}, &docmodel.GenerationError{Mode: mode, Err: err}
	}

	answer := docmodel.Answer{Question: question, Answer: text, Sources: results}
	if useCache {
		go s.saveAnswerToCache(mode, queryVector, answer)
	}
	return answer, nil
}

func (s *service) applyIngestDefaults(params docmodel.IngestParams) docmodel.IngestParams {
	if params.ChunkSize == 0 {
		params.ChunkSize = config.DefaultChunkSize
	}
	if params.ChunkOverlap == nil {
		// clamp so a small custom chunk_size still gets a valid overlap
		overlap := config.DefaultChunkOverlap
		if overlap >= params.ChunkSize {
			overlap = params.ChunkSize - 1
		}
		if overlap < 0 {
			overlap = 0
		}
		params.ChunkOverlap = &overlap
	}
	if params.DPI == 0 {
		params.DPI = config.DefaultDPI
	}
	if params.OCRLang == "" {
		params.OCRLang = s.defaultOCRLang
	}
	if params.Collection == "" {
		params.Collection = s.defaultCollection
	}
	return params
}

func firstPage(pages []string) string {
	if len(pages) == 0 {
		return ""
	}
	return pages[0]
}

func validateIngestParams(params docmodel.IngestParams) error {
	if params.ChunkSize <= 0 {
		return &docmodel.ValidationError{Field: "chunk_size", Reason: "must be positive"}
	}
	if overlap := *params.ChunkOverlap; overlap < 0 || overlap >= params.ChunkSize {
		return &docmodel.ValidationError{Field: "chunk_overlap", Reason: "must satisfy 0 <= chunk_overlap < chunk_size"}
	}
	if params.DPI <= 0 {
		return &docmodel.ValidationError{Field: "dpi", Reason: "must be positive"}
	}
	return nil
}

func (s *service) saveOriginal(pdfPath string, docId string, log *logger_i.Logger) string {
	if s.storageDir == "" {
		return ""
	}
	if err := os.MkdirAll(s.storageDir, 0750); err != nil {
		log.Warn("failed creating storage dir", "error", err)
		return ""
	}
	outPath := filepath.Join(s.storageDir, docId+".pdf")

	src, err := os.Open(pdfPath)
	if err != nil {
		log.Warn("failed saving original PDF", "error", err)
		return ""
	}
	defer src.Close()

	dst, err := os.Create(outPath)
	if err != nil {
		log.Warn("failed saving original PDF", "error", err)
		return ""
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		log.Warn("failed saving original PDF", "error", err)
		return ""
	}
	return outPath
}
