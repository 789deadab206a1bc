package middleware

import (
	"net/http"
	"strconv"

	"github.com/rgudla/research-assistant/internal/metrics"
	"github.com/rgudla/research-assistant/pkg/logger_i"
)

var logger = logger_i.NewLogger("Middleware")

// Wrap is the standard chain for every route: trace id, per-IP rate
// limit, then the handler, with request counts recorded on the way out.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recorder := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}

		injectTrace(rateLimit(next)).ServeHTTP(recorder, r)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(recorder.Status)).Inc()
	}
}
