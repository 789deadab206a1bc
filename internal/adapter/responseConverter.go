package adapter

import (
	"errors"
	"net/http"

	"github.com/rgudla/research-assistant/internal/api"
	"github.com/rgudla/research-assistant/internal/domain/docmodel"
)

func ToIngestResponse(res docmodel.IngestResult) api.IngestResponse {
	return api.IngestResponse{
		Ok:           true,
		Pdf:          res.Doc.SourceFile,
		DocId:        res.Doc.Id,
		Pages:        res.Doc.PageCount,
		Chunks:       res.Chunks,
		Embedded:     res.Embedded,
		Ids:          res.ChunkIds,
		Collection:   res.Collection,
		SavedPdfPath: res.SavedPDFPath,
	}
}

func ToAskResponse(ans docmodel.Answer) api.AskResponse {
	sources := make([]api.Source, 0, len(ans.Sources))
	for _, s := range ans.Sources {
		sources = append(sources, api.Source{
			Id:       s.ChunkId,
			Document: s.Content,
			Metadata: s.Metadata,
			Distance: s.Distance,
		})
	}
	return api.AskResponse{
		Question: ans.Question,
		Answer:   ans.Answer,
		Sources:  sources,
	}
}

// ToGapsResponse drops the sources on purpose: the retrieved chunks stay
// internal in gap-detection mode.
func ToGapsResponse(ans docmodel.Answer) api.GapsResponse {
	return api.GapsResponse{
		Question: ans.Question,
		Answer:   ans.Answer,
	}
}

// ToErrorResponse maps the error taxonomy onto a status code and a wire
// shape that carries enough context to act on without resubmitting the
// payload.
func ToErrorResponse(err error) (int, api.ErrorResponse) {
	var validationErr *docmodel.ValidationError
	var ingestionErr *docmodel.IngestionError
	var extractionErr *docmodel.ExtractionError
	var embeddingErr *docmodel.EmbeddingError
	var storeErr *docmodel.StoreError
	var generationErr *docmodel.GenerationError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, api.ErrorResponse{
			Error: validationErr.Error(), Code: http.StatusBadRequest, Stage: "validation",
		}
	case errors.As(err, &ingestionErr):
		return http.StatusBadRequest, api.ErrorResponse{
			Error: ingestionErr.Error(), Code: http.StatusBadRequest, Stage: "ingestion",
		}
	case errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity, api.ErrorResponse{
			Error: extractionErr.Error(), Code: http.StatusUnprocessableEntity, Stage: "extraction",
		}
	case errors.As(err, &embeddingErr):
		return http.StatusBadGateway, api.ErrorResponse{
			Error: embeddingErr.Error(), Code: http.StatusBadGateway, Stage: "embedding", DocId: embeddingErr.DocId,
		}
	case errors.As(err, &storeErr):
		return http.StatusBadGateway, api.ErrorResponse{
			Error: storeErr.Error(), Code: http.StatusBadGateway, Stage: "store", Written: storeErr.Written,
		}
	case errors.As(err, &generationErr):
		return http.StatusBadGateway, api.ErrorResponse{
			Error: generationErr.Error(), Code: http.StatusBadGateway, Stage: "generation",
		}
	default:
		return http.StatusInternalServerError, api.ErrorResponse{
			Error: "Internal Server Error", Code: http.StatusInternalServerError,
		}
	}
}
