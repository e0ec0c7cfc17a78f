package middleware

import (
	"net/http"
	"time"

	"github.com/giftbridge/settlement-service/internal/domain/ports"
)

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one structured line per request
func RequestLogger(logger ports.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(lw, r)

			logger.Info("http request",
				ports.String("method", r.Method),
				ports.String("path", r.URL.Path),
				ports.Int("status", lw.status),
				ports.String("duration", time.Since(start).String()),
				ports.String("remote", r.RemoteAddr))
		})
	}
}
