package store

import (
	"context"
	"encoding/json"

	"github.com/rgudla/research-assistant/internal/config"
	"github.com/rgudla/research-assistant/internal/data/redisStore"
	"github.com/rgudla/research-assistant/internal/domain/docmodel"
	"github.com/rgudla/research-assistant/pkg/logger_i"
)

// RedisDocumentStore keeps one IngestionRecord per doc_id. Because doc
// ids are content addressed, a Get hit before ingestion means the exact
// same file was already indexed.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveRecord(ctx context.Context, record docmodel.IngestionRecord) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc_id", record.DocId)
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, record.DocId, data, config.RedisDocumentStoreTTL)
	if err == nil {
		log.Debug("Saved ingestion record")
	}
	return err
}

func (s *RedisDocumentStore) GetRecord(ctx context.Context, docId string) (docmodel.IngestionRecord, bool) {
	var record docmodel.IngestionRecord
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc_id", docId)

	val, err := s.store.Get(ctx, docId)
	if s.store.IsNil(err) {
		return record, false
	} else if err != nil {
		log.Error("Error reading ingestion record", "error", err)
		return record, false
	}

	if err = json.Unmarshal([]byte(val), &record); err != nil {
		log.Error("Corrupt ingestion record", "error", err)
		return record, false
	}
	return record, true
}

func (s *RedisDocumentStore) DeleteRecord(ctx context.Context, docId string) {
	if err := s.store.Del(ctx, docId); err != nil {
		s.logger.Error("Error deleting ingestion record", "doc_id", docId, "error", err)
		return
	}
	s.logger.Debug("Ingestion record deleted", "doc_id", docId)
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test document store"),
	}
}
