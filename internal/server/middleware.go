package server

import (
	"net/http"
	"time"

	"github.com/gitrgoliveira/md-preview/internal/logger"
	"github.com/google/uuid"
)

// RequestIDHeader carries the id assigned to each request
const RequestIDHeader = "X-Request-Id"

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// accessLog logs every request when it arrives and when it completes
func accessLog(log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set(RequestIDHeader, id)

		log.Info("Request received",
			logger.CategoryKey, logger.CategoryAccess,
			"request_id", id,
			"method", r.Method,
			"uri", r.URL.RequestURI(),
			"remote", r.RemoteAddr)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Debug("Request completed",
			"request_id", id,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
