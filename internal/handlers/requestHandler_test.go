package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rgudla/research-assistant/internal/domain/docmodel"
)

type mockRagService struct {
	OnIngestPDF func(ctx context.Context, pdfPath string, sourceName string, params docmodel.IngestParams) (docmodel.IngestResult, error)
	OnIngestURL func(ctx context.Context, rawURL string, params docmodel.IngestParams) (docmodel.IngestResult, error)
	OnAsk       func(ctx context.Context, mode docmodel.AnswerMode, question string, topK int, collectionName string) (docmodel.Answer, error)
}

func (m *mockRagService) IngestPDF(ctx context.Context, pdfPath string, sourceName string, params docmodel.IngestParams) (docmodel.IngestResult, error) {
	if m.OnIngestPDF != nil {
		return m.OnIngestPDF(ctx, pdfPath, sourceName, params)
	}
	return docmodel.IngestResult{}, nil
}

func (m *mockRagService) IngestURL(ctx context.Context, rawURL string, params docmodel.IngestParams) (docmodel.IngestResult, error) {
	if m.OnIngestURL != nil {
		return m.OnIngestURL(ctx, rawURL, params)
	}
	return docmodel.IngestResult{}, nil
}

func (m *mockRagService) Ask(ctx context.Context, mode docmodel.AnswerMode, question string, topK int, collectionName string) (docmodel.Answer, error) {
	if m.OnAsk != nil {
		return m.OnAsk(ctx, mode, question, topK, collectionName)
	}
	return docmodel.Answer{Question: question, Answer: "mock answer"}, nil
}

func TestHealthHandler(t *testing.T) {
	InitRAGHandlers(&mockRagService{})

	rec := httptest.NewRecorder()
	HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body["ok"] {
		t.Fatal("expected ok: true")
	}
}

func TestAskHandlerReturnsSources(t *testing.T) {
	InitRAGHandlers(&mockRagService{
		OnAsk: func(ctx context.Context, mode docmodel.AnswerMode, question string, topK int, collectionName string) (docmodel.Answer, error) {
			if mode != docmodel.ModeQA {
				t.Errorf("expected qa mode, got %q", mode)
			}
			if topK != 5 {
				t.Errorf("expected top_k 5, got %d", topK)
			}
			return docmodel.Answer{
				Question: question,
				Answer:   "42",
				Sources: []docmodel.RetrievalResult{
					{ChunkId: "doc_chunk_0", Content: "the answer is 42", Distance: 0.05, Metadata: map[string]any{"source_file": "guide.pdf"}},
				},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"the ultimate question","top_k":5}`))
	rec := httptest.NewRecorder()
	AskHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	sources, ok := body["sources"].([]any)
	if !ok || len(sources) != 1 {
		t.Fatalf("expected 1 source, got %v", body["sources"])
	}
	source := sources[0].(map[string]any)
	if source["id"] != "doc_chunk_0" {
		t.Errorf("unexpected source id %v", source["id"])
	}
	if source["document"] != "the answer is 42" {
		t.Errorf("unexpected source document %v", source["document"])
	}
}

func TestGapsHandlerHidesSources(t *testing.T) {
	InitRAGHandlers(&mockRagService{
		OnAsk: func(ctx context.Context, mode docmodel.AnswerMode, question string, topK int, collectionName string) (docmodel.Answer, error) {
			if mode != docmodel.ModeGapDetection {
				t.Errorf("expected gaps mode, got %q", mode)
			}
			return docmodel.Answer{
				Question: question,
				Answer:   "Summary and gaps",
				Sources: []docmodel.RetrievalResult{
					{ChunkId: "doc_chunk_0", Content: "internal material"},
				},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/gaps", strings.NewReader(`{"question":"state of the field"}`))
	rec := httptest.NewRecorder()
	GapsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, present := body["sources"]; present {
		t.Fatal("gap responses must not expose retrieved sources")
	}
	if body["answer"] != "Summary and gaps" {
		t.Errorf("unexpected answer %v", body["answer"])
	}
}

func TestAskHandlerBadJSON(t *testing.T) {
	InitRAGHandlers(&mockRagService{})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question": `))
	rec := httptest.NewRecorder()
	AskHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAskHandlerValidationErrorMapping(t *testing.T) {
	InitRAGHandlers(&mockRagService{
		OnAsk: func(ctx context.Context, mode docmodel.AnswerMode, question string, topK int, collectionName string) (docmodel.Answer, error) {
			return docmodel.Answer{}, &docmodel.ValidationError{Field: "question", Reason: "must not be empty"}
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":""}`))
	rec := httptest.NewRecorder()
	AskHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["stage"] != "validation" {
		t.Errorf("expected validation stage, got %v", body["stage"])
	}
}

func TestAskHandlerUpstreamErrorMapping(t *testing.T) {
	InitRAGHandlers(&mockRagService{
		OnAsk: func(ctx context.Context, mode docmodel.AnswerMode, question string, topK int, collectionName string) (docmodel.Answer, error) {
			return docmodel.Answer{}, &docmodel.GenerationError{Mode: mode}
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()
	AskHandler(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestIngestURLHandlerRequiresURL(t *testing.T) {
	InitRAGHandlers(&mockRagService{})

	req := httptest.NewRequest(http.MethodPost, "/ingest/url", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	IngestURLHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestIngestPDFHandlerOverlapPresence(t *testing.T) {
	tests := []struct {
		name        string
		fields      map[string]string
		wantOverlap *int
	}{
		{
			name:        "omitted overlap stays unset",
			fields:      map[string]string{"chunk_size": "1000"},
			wantOverlap: nil,
		},
		{
			name:        "explicit zero overlap is kept",
			fields:      map[string]string{"chunk_size": "1000", "chunk_overlap": "0"},
			wantOverlap: new(int),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got docmodel.IngestParams
			InitRAGHandlers(&mockRagService{
				OnIngestPDF: func(ctx context.Context, pdfPath string, sourceName string, params docmodel.IngestParams) (docmodel.IngestResult, error) {
					got = params
					return docmodel.IngestResult{}, nil
				},
			})

			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			part, err := mw.CreateFormFile("pdf", "paper.pdf")
			if err != nil {
				t.Fatal(err)
			}
			part.Write([]byte("%PDF-1.4 body"))
			for k, v := range tc.fields {
				mw.WriteField(k, v)
			}
			mw.Close()

			req := httptest.NewRequest(http.MethodPost, "/ingest/pdf", &buf)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			rec := httptest.NewRecorder()
			IngestPDFHandler(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if got.ChunkSize != 1000 {
				t.Errorf("expected chunk size 1000, got %d", got.ChunkSize)
			}
			if tc.wantOverlap == nil {
				if got.ChunkOverlap != nil {
					t.Errorf("expected overlap unset, got %d", *got.ChunkOverlap)
				}
			} else {
				if got.ChunkOverlap == nil {
					t.Fatal("expected overlap set, got nil")
				}
				if *got.ChunkOverlap != *tc.wantOverlap {
					t.Errorf("expected overlap %d, got %d", *tc.wantOverlap, *got.ChunkOverlap)
				}
			}
		})
	}
}

func TestIngestPDFHandlerRequiresFile(t *testing.T) {
	InitRAGHandlers(&mockRagService{})

	req := httptest.NewRequest(http.MethodPost, "/ingest/pdf", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
	rec := httptest.NewRecorder()
	IngestPDFHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
