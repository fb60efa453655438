package middleware

import (
	"net/http"

	"github.com/Affo25/imsdashboard/pkg/logger"

	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// TraceID tags the request logger with a trace id and echoes it back.
// Client-supplied ids are kept only when they parse as UUIDs.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID)
		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
