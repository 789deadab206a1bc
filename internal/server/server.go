package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rgudla/research-assistant/internal/adapter/utils"
	"github.com/rgudla/research-assistant/internal/config"
	"github.com/rgudla/research-assistant/internal/handlers"
	"github.com/rgudla/research-assistant/internal/middleware"
	"github.com/rgudla/research-assistant/pkg/logger_i"
)

var logger *logger_i.Logger

func CreateServer(listenAddr string) *http.Server {
	logger = logger_i.NewLogger("Server")

	routerClient := utils.GetRouter()
	router := routerClient.Router

	router.Get("/health", middleware.Wrap(handlers.HealthHandler))
	router.Post("/ingest/pdf", middleware.Wrap(handlers.IngestPDFHandler))
	router.Post("/ingest/url", middleware.Wrap(handlers.IngestURLHandler))
	router.Post("/ask", middleware.Wrap(handlers.AskHandler))
	router.Post("/gaps", middleware.Wrap(handlers.GapsHandler))

	return &http.Server{
		Addr:         listenAddr,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
}

type ShutdownParams struct {
	Server *http.Server
	// StopExecution cancels the service context shared by every client
	// singleton, which triggers their cleanup goroutines.
	StopExecution context.CancelFunc
}

// ShutDownHandler blocks until SIGINT or SIGTERM, then drains in-flight
// requests before tearing down the shared clients.
func ShutDownHandler(params ShutdownParams) {
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChannel

	logger.Info("Received signal, shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	if err := params.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}

	params.StopExecution()
	logger.Info("Server stopped")
}
