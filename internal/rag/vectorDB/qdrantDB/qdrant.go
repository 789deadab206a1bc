package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/rgudla/research-assistant/internal/adapter/utils"
	"github.com/rgudla/research-assistant/internal/config"
	"github.com/rgudla/research-assistant/internal/domain/docmodel"
	"github.com/rgudla/research-assistant/pkg/logger_i"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			initCacheCollections(ctx, &ClientHolder{QObj: qdrantInstance})
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate qdrant client: ", "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) EnsureCollection(ctx context.Context, collectionName string) error {
	return createCollection(ctx, db.QObj, collectionName)
}

// VerifyCollectionDimension is the startup guard against pointing a new
// embedding model at an old collection. A missing collection is fine, it
// will be created lazily with the right size.
func (db *ClientHolder) VerifyCollectionDimension(ctx context.Context, collectionName string) error {
	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	info, err := db.QObj.GetCollectionInfo(ctx, collectionName)
	if err != nil {
		return err
	}
	params := info.GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		return nil
	}
	if params.GetSize() != dimension {
		return fmt.Errorf("collection %s holds %d-dimensional vectors but the embedding model produces %d",
			collectionName, params.GetSize(), dimension)
	}
	return nil
}

// UpsertBatch writes in sub-batches and reports the number of records
// written so far when a sub-batch fails. Point ids are derived from the
// chunk ids, so a retry of the failed remainder never duplicates rows.
func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, chunks []docmodel.DocChunk, vectors [][]float32, embeddingModel string) (int, error) {
	if len(chunks) != len(vectors) {
		return 0, fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	ingestedAt := time.Now().Unix()
	written := 0

	for start := 0; start < len(chunks); start += config.EmbeddingBatchSize {
		end := start + config.EmbeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		points := make([]*qdrant.PointStruct, 0, end-start)
		for i := start; i < end; i++ {
			chunk := chunks[i]
			payload := map[string]any{
				"content":         chunk.Content,
				"chunk_id":        chunk.ChunkId,
				"chunk_index":     chunk.ChunkIndex,
				"doc_id":          chunk.Doc.Id,
				"source_file":     chunk.Doc.SourceFile,
				"embedding_model": embeddingModel,
				"ingested_at":     ingestedAt,
			}
			addDocMeta(payload, chunk.Doc.Meta)
			points = append(points, &qdrant.PointStruct{
				Id:      qdrant.NewID(utils.DeterministicPointID(chunk.ChunkId)),
				Vectors: qdrant.NewVectors(vectors[i]...),
				Payload: qdrant.NewValueMap(payload),
			})
		}

		_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collectionName,
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return written, fmt.Errorf("qdrant upsert failed: %w", err)
		}
		written = end
	}

	return written, nil
}

// Query returns the nearest chunks, best match first. Qdrant reports a
// cosine similarity score where higher is better; we surface it as
// distance = 1 - score so lower always means more relevant.
func (db *ClientHolder) Query(ctx context.Context, collectionName string, queryVector []float32, topK int) ([]docmodel.RetrievalResult, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if topK > config.MaxTopK {
		loggr.Debug("clamping top_k", "requested", topK, "max", config.MaxTopK)
		topK = config.MaxTopK
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	results := make([]docmodel.RetrievalResult, 0, len(result))
	for _, hit := range result {
		metadata := map[string]any{
			"doc_id":          hit.Payload["doc_id"].GetStringValue(),
			"source_file":     hit.Payload["source_file"].GetStringValue(),
			"chunk_index":     hit.Payload["chunk_index"].GetIntegerValue(),
			"embedding_model": hit.Payload["embedding_model"].GetStringValue(),
		}
		for _, key := range []string{"title", "authors", "subject", "keywords", "year"} {
			if v := hit.Payload[key].GetStringValue(); v != "" {
				metadata[key] = v
			}
		}
		results = append(results, docmodel.RetrievalResult{
			ChunkId:  hit.Payload["chunk_id"].GetStringValue(),
			Content:  hit.Payload["content"].GetStringValue(),
			Distance: 1 - float64(hit.Score),
			Metadata: metadata,
		})
	}

	loggr.Debug("Found matches", "count", len(results))
	return results, nil
}

// addDocMeta copies the non-empty bibliographic fields onto the chunk
// payload so retrieval can cite title and year without a second lookup.
func addDocMeta(payload map[string]any, meta docmodel.DocMeta) {
	fields := map[string]string{
		"title":    meta.Title,
		"authors":  meta.Authors,
		"subject":  meta.Subject,
		"keywords": meta.Keywords,
		"year":     meta.Year,
	}
	for key, value := range fields {
		if value != "" {
			payload[key] = value
		}
	}
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}
