package customHttpClient

import (
	"net/http"

	"github.com/rgudla/research-assistant/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// GetDownloadClient returns the pooled client used for URL ingestion.
// One transport is shared so repeated downloads from the same host reuse
// connections.
func GetDownloadClient() *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   config.DownloadTimeout,
	}
}
