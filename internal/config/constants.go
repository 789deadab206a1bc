package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//server listening port
	ServerListenAddr = ":8000"

	//serverTimeouts
	ReadTimeout            = 10 * time.Second
	WriteTimeout           = 120 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//ingestion defaults, overridable per request
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
	DefaultDPI          = 300
	DefaultOCRLang      = "eng"

	//a page with fewer characters than this in its text layer goes to OCR
	MinTextLayerChars = 30

	//upload / download bounds
	MaxUploadSize   int64 = 32 << 20
	MaxDownloadSize int64 = 32 << 20
	DownloadTimeout       = 30 * time.Second

	//retrieval
	DefaultTopK = 3
	MaxTopK     = 20

	//vectorDB
	EmbeddingOutputDimensionality int32 = 1536
	QdrantHost                          = "localhost"
	QdrantGrpcPort                      = 6334
	QdrantUseTLS                        = false
	QdrantPoolSize                      = 1

	//semantic answer cache
	CacheSimilarityCutoff = 0.97
	CacheWriteTimeout     = 10 * time.Second

	//llm
	GroqBaseURL      = "https://api.groq.com/openai/v1"
	DefaultGroqModel = "qwen/qwen3-32b"

	ModelTemperature         float64 = 0.2
	ModelTopP                float64 = 0.95
	ModelMaxCompletionTokens int64   = 1024

	LLMCallTimeout       = 60 * time.Second
	EmbeddingCallTimeout = 60 * time.Second

	//embeddings
	DefaultEmbeddingModel = "gemini-embedding-001"
	EmbeddingBatchSize    = 100

	//http pooling for the downloader
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	RedisAddr = "127.0.0.1:6379"

	//redis has 16 DBs we can use
	RedisDocumentStore = 0

	RedisDocumentStoreTTL = 0 * time.Second //ingestion records do not expire
)
