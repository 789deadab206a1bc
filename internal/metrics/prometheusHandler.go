package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var documentsIngested = promauto.NewCounter(prometheus.CounterOpts{
	Name: "documents_ingested_total",
	Help: "Number of documents fully ingested into the vector store",
})

var chunksIngested = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chunks_ingested_total",
	Help: "Number of chunks embedded and upserted",
})

var ocrPages = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ocr_pages_total",
	Help: "Pages that fell back to OCR because the text layer was empty or too short",
})

var cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "semantic_cache_hits_total",
	Help: "Answer cache hits per mode",
}, []string{"mode"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CountDocumentIngested(chunks int) {
	documentsIngested.Inc()
	chunksIngested.Add(float64(chunks))
}

func CountOCRPage() {
	ocrPages.Inc()
}

func CountCacheHit(mode string) {
	cacheHits.WithLabelValues(mode).Inc()
}

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
