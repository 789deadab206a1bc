package store

import (
	"context"
	"sync"

	"github.com/rgudla/research-assistant/internal/domain/docmodel"
	"github.com/rgudla/research-assistant/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem DocumentStore")

// InMemoryDocumentStore is the fallback registry when Redis is offline.
// Records do not survive a restart, which only costs us duplicate-ingest
// detection, not correctness.
type InMemoryDocumentStore struct {
	mu      *sync.RWMutex
	records map[string]docmodel.IngestionRecord
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		mu:      new(sync.RWMutex),
		records: make(map[string]docmodel.IngestionRecord),
	}
}

func (s *InMemoryDocumentStore) SaveRecord(ctx context.Context, record docmodel.IngestionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.DocId] = record
	inMemLogger.Debug("Saved ingestion record", "doc_id", record.DocId)
	return nil
}

func (s *InMemoryDocumentStore) GetRecord(ctx context.Context, docId string) (docmodel.IngestionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, found := s.records[docId]
	return record, found
}

func (s *InMemoryDocumentStore) DeleteRecord(ctx context.Context, docId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, docId)
}
