package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rgudla/research-assistant/internal/adapter"
	"github.com/rgudla/research-assistant/internal/api"
	"github.com/rgudla/research-assistant/internal/config"
	"github.com/rgudla/research-assistant/internal/domain/docmodel"
	"github.com/rgudla/research-assistant/internal/rag"
	"github.com/rgudla/research-assistant/pkg/logger_i"
)

var logger *logger_i.Logger
var ragService rag.Service

// InitRAGHandlers wires the service into the package level handlers.
// Must run before the router starts serving.
func InitRAGHandlers(service rag.Service) {
	logger = logger_i.NewLogger("Request Handler")
	ragService = service
}

// HealthHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Returns ok when the process is serving requests
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	api.HealthResponse
//	@Router			/health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Ok: true})
}

// IngestPDFHandler godoc
//
//	@Summary		Ingest an uploaded PDF
//	@Description	Extracts text (OCR fallback for scanned pages), chunks, embeds and stores the document
//	@Tags			ingest
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			pdf				formData	file	true	"PDF file"
//	@Param			collection_name	formData	string	false	"Target collection"
//	@Param			ocr_lang		formData	string	false	"Tesseract language"
//	@Param			chunk_size		formData	int		false	"Chunk size in characters"
//	@Param			chunk_overlap	formData	int		false	"Chunk overlap in characters"
//	@Param			dpi				formData	int		false	"Rasterization DPI for OCR"
//	@Success		200	{object}	api.IngestResponse
//	@Failure		400	{object}	api.ErrorResponse
//	@Failure		422	{object}	api.ErrorResponse
//	@Failure		502	{object}	api.ErrorResponse
//	@Router			/ingest/pdf [post]
func IngestPDFHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !validateContext(ctx, w) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		writeBadRequest(w, "could not parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		writeBadRequest(w, "missing required file field: pdf")
		return
	}
	defer file.Close()

	params, ok := ingestParamsFromForm(r)
	if !ok {
		writeBadRequest(w, "chunk_size, chunk_overlap and dpi must be integers")
		return
	}

	// spool the upload to disk; the extractor needs a real file path
	tempPath, err := spoolUpload(file, header.Filename)
	if err != nil {
		logger.Error("Failed spooling upload", "error", err)
		WriteErrorResponse(w, &docmodel.IngestionError{Source: header.Filename, Reason: "could not store upload", Err: err})
		return
	}
	defer os.Remove(tempPath)

	result, err := ragService.IngestPDF(ctx, tempPath, header.Filename, params)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToIngestResponse(result))
}

// IngestURLHandler godoc
//
//	@Summary		Ingest a PDF from a URL
//	@Description	Downloads the PDF, then runs the same pipeline as the upload endpoint
//	@Tags			ingest
//	@Accept			json
//	@Produce		json
//	@Param			request	body		api.IngestURLRequest	true	"Download request"
//	@Success		200		{object}	api.IngestResponse
//	@Failure		400		{object}	api.ErrorResponse
//	@Failure		422		{object}	api.ErrorResponse
//	@Failure		502		{object}	api.ErrorResponse
//	@Router			/ingest/url [post]
func IngestURLHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !validateContext(ctx, w) {
		return
	}

	var req api.IngestURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.URL == "" {
		writeBadRequest(w, "url is required")
		return
	}

	params := docmodel.IngestParams{
		Collection:   req.CollectionName,
		OCRLang:      req.OCRLang,
		ChunkSize:    req.ChunkSize,
		ChunkOverlap: req.ChunkOverlap,
		DPI:          req.DPI,
	}

	result, err := ragService.IngestURL(ctx, req.URL, params)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToIngestResponse(result))
}

// AskHandler godoc
//
//	@Summary		Question answering over ingested documents
//	@Description	Retrieves the most relevant chunks and answers strictly from them, citing sources
//	@Tags			answer
//	@Accept			json
//	@Produce		json
//	@Param			request	body		api.AskRequest	true	"Question"
//	@Success		200		{object}	api.AskResponse
//	@Failure		400		{object}	api.ErrorResponse
//	@Failure		502		{object}	api.ErrorResponse
//	@Router			/ask [post]
func AskHandler(w http.ResponseWriter, r *http.Request) {
	answer, err := handleAsk(w, r, docmodel.ModeQA)
	if err != nil {
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAskResponse(answer))
}

// GapsHandler godoc
//
//	@Summary		Gap detection over ingested documents
//	@Description	Summarizes the retrieved material and lists its limitations and open problems
//	@Tags			answer
//	@Accept			json
//	@Produce		json
//	@Param			request	body		api.AskRequest	true	"Topic under review"
//	@Success		200		{object}	api.GapsResponse
//	@Failure		400		{object}	api.ErrorResponse
//	@Failure		502		{object}	api.ErrorResponse
//	@Router			/gaps [post]
func GapsHandler(w http.ResponseWriter, r *http.Request) {
	answer, err := handleAsk(w, r, docmodel.ModeGapDetection)
	if err != nil {
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToGapsResponse(answer))
}

// handleAsk is the shared body of the two answer endpoints; on error the
// response has already been written.
func handleAsk(w http.ResponseWriter, r *http.Request, mode docmodel.AnswerMode) (docmodel.Answer, error) {
	ctx := r.Context()
	if !validateContext(ctx, w) {
		return docmodel.Answer{}, ctx.Err()
	}

	var req api.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return docmodel.Answer{}, err
	}

	answer, err := ragService.Ask(ctx, mode, req.Question, req.TopK, req.CollectionName)
	if err != nil {
		WriteErrorResponse(w, err)
		return docmodel.Answer{}, err
	}
	return answer, nil
}

func ingestParamsFromForm(r *http.Request) (docmodel.IngestParams, bool) {
	chunkSize, ok1 := parseFormInt(r, "chunk_size")
	chunkOverlap, ok2 := parseOptionalFormInt(r, "chunk_overlap")
	dpi, ok3 := parseFormInt(r, "dpi")
	if !ok1 || !ok2 || !ok3 {
		return docmodel.IngestParams{}, false
	}
	return docmodel.IngestParams{
		Collection:   r.FormValue("collection_name"),
		OCRLang:      r.FormValue("ocr_lang"),
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		DPI:          dpi,
	}, true
}

func spoolUpload(file io.Reader, filename string) (string, error) {
	temp, err := os.CreateTemp("", "upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	defer temp.Close()

	if _, err := io.Copy(temp, file); err != nil {
		os.Remove(temp.Name())
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return temp.Name(), nil
}
