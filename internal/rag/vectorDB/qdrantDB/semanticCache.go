package qdrantDB

import (
	"context"
	"encoding/json"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/rgudla/research-assistant/internal/config"
	"github.com/rgudla/research-assistant/internal/domain/docmodel"
)

// One cache collection per answer mode: the same question must never
// pull a QA answer into gap detection or vice versa.
func cacheCollectionName(mode docmodel.AnswerMode) string {
	return "answer-cache-" + string(mode)
}

func initCacheCollections(ctx context.Context, db *ClientHolder) {
	for _, mode := range []docmodel.AnswerMode{docmodel.ModeQA, docmodel.ModeGapDetection} {
		if err := createCollection(ctx, db.QObj, cacheCollectionName(mode)); err != nil {
			logger.Error("Answer cache collection creation failed", "mode", mode, "error", err)
		}
	}
}

func (db *ClientHolder) GetCachedAnswer(ctx context.Context, mode docmodel.AnswerMode, queryVector []float32) (docmodel.Answer, bool, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: cacheCollectionName(mode),
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil || len(searchResult) == 0 {
		return docmodel.Answer{}, false, err
	}

	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return docmodel.Answer{}, false, nil
	}

	loggr.Debug("Answer cache hit", "mode", mode, "score", searchResult[0].Score)

	answer := docmodel.Answer{
		Question: searchResult[0].Payload["question"].GetStringValue(),
		Answer:   searchResult[0].Payload["answer"].GetStringValue(),
	}
	if raw := searchResult[0].Payload["sources"].GetStringValue(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &answer.Sources); err != nil {
			loggr.Error("Corrupt cached sources, ignoring cache entry", "error", err)
			return docmodel.Answer{}, false, nil
		}
	}
	return answer, true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, mode docmodel.AnswerMode, id string, vector []float32, answer docmodel.Answer) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	payload := map[string]any{
		"question":  answer.Question,
		"answer":    answer.Answer,
		"timestamp": time.Now().Unix(),
	}
	if len(answer.Sources) > 0 {
		raw, err := json.Marshal(answer.Sources)
		if err == nil {
			payload["sources"] = string(raw)
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: cacheCollectionName(mode),
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to cache failed", "error", err)
	}
	return err
}
