package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/rgudla/research-assistant/internal/config"
	"github.com/rgudla/research-assistant/internal/data/store"
	"github.com/rgudla/research-assistant/internal/domain/docmodel"
	"github.com/rgudla/research-assistant/internal/handlers"
	"github.com/rgudla/research-assistant/internal/rag"
	"github.com/rgudla/research-assistant/internal/rag/embedding/googleEmbedding"
	"github.com/rgudla/research-assistant/internal/rag/ingest"
	"github.com/rgudla/research-assistant/internal/rag/llm/groq"
	"github.com/rgudla/research-assistant/internal/rag/vectorDB/qdrantDB"
	"github.com/rgudla/research-assistant/internal/server"
	"github.com/rgudla/research-assistant/pkg/logger_i"
)

//	@title			Research Assistant API
//	@version		1.0
//	@description	Ingests PDFs into a vector store and answers questions or detects research gaps over them.

//	@host		localhost:8000
//	@BasePath	/

func main() {
	//.env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	logger_i.Init()
	logger := logger_i.NewLogger("Main")

	defaultAddr := os.Getenv("LISTEN_ADDR")
	if defaultAddr == "" {
		defaultAddr = config.ServerListenAddr
	}
	listenAddr := flag.String("listen-addr", defaultAddr, "server listen address")
	flag.Parse()

	env := config.LoadEnv()

	serviceContext, stopExecution := context.WithCancel(context.Background())
	defer stopExecution()

	// ingestion records survive restarts only when redis is up; the
	// in-memory fallback keeps the pipeline usable without it
	var docStore docmodel.DocumentStore
	if redisDocStore := store.GetRedisDocumentStore(serviceContext); redisDocStore != nil {
		docStore = redisDocStore
	} else {
		logger.Warn("Redis unavailable, ingestion records will not survive restarts")
		docStore = store.InitInMemoryDocumentStore()
	}

	qdrantClient := qdrantDB.GetQdrantClient(serviceContext)
	if qdrantClient == nil {
		logger.Error("Could not connect to Qdrant, exiting")
		os.Exit(1)
	}
	if err := qdrantClient.VerifyCollectionDimension(serviceContext, env.CollectionName); err != nil {
		logger.Error("Collection dimension check failed", "collection", env.CollectionName, "error", err)
		os.Exit(1)
	}

	embedder := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, env.EmbeddingModel, env.GoogleAPIKey)
	if embedder == nil {
		logger.Error("Could not create embedding client, exiting")
		os.Exit(1)
	}

	llmClient := groq.GetGroqClient(serviceContext, env.GroqAPIKey, env.GroqModel)
	if llmClient == nil {
		logger.Error("Could not create LLM client, exiting")
		os.Exit(1)
	}

	extractor := ingest.NewExtractor(env.PdftoppmCmd, env.TesseractCmd)

	ragService := rag.NewService(qdrantClient, llmClient, embedder, docStore, extractor, env)
	handlers.InitRAGHandlers(ragService)

	httpServer := server.CreateServer(*listenAddr)

	go server.ShutDownHandler(server.ShutdownParams{
		Server:        httpServer,
		StopExecution: stopExecution,
	})

	logger.Info("Server starting", "addr", *listenAddr, "collection", env.CollectionName)
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Info("Server closed", "reason", err)
	}
}
