package middleware

import (
	"context"
	"net/http"

	"github.com/rgudla/research-assistant/internal/adapter/utils"
	"github.com/rgudla/research-assistant/internal/config"
)

// injectTrace attaches a trace id to the request context so every log
// line downstream can be tied back to one request. Clients may supply
// their own via X-Trace-Id.
func injectTrace(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceId := r.Header.Get("X-Trace-Id")
		if traceId == "" {
			traceId = utils.GetNewUUID()
		}

		ctx := context.WithValue(r.Context(), config.TRACE_ID_KEY, traceId)
		w.Header().Set("X-Trace-Id", traceId)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
