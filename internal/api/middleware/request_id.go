package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// requestIDHeader заголовок с ID запроса (проставляется, если гейтвей не прислал свой)
const requestIDHeader = "X-Request-ID"

type requestIDContextKey struct{}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// RequestID middleware присваивает каждому запросу ID и логирует его завершение
func RequestID(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, requestID)
			ctx := context.WithValue(r.Context(), requestIDContextKey{}, requestID)

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))

			log.Info("%s %s request_id=%s duration=%s", r.Method, r.URL.Path, requestID, time.Since(start))
		})
	}
}

// RequestIDFromContext возвращает ID запроса из контекста
func RequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDContextKey{}).(string)
	return requestID, ok
}
