package webapp

import (
	"context"
	"net/http"
	"strings"
	"time"

	"crypto-faucet/internal/platform/id"

	"github.com/sirupsen/logrus"
)

const headerRequestID = "X-Request-Id"

type logCtxKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// withRequestLog 为每个请求分配请求 ID（沿用调用方传入的 X-Request-Id），并记录访问日志。
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(headerRequestID))
		if reqID == "" || len(reqID) > 64 {
			reqID = id.New("req")
		}
		w.Header().Set(headerRequestID, reqID)

		entry := s.log.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), logCtxKey{}, entry)))
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		entry.WithFields(logrus.Fields{
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("http request")
	})
}

func (s *Server) logger(r *http.Request) *logrus.Entry {
	if e, ok := r.Context().Value(logCtxKey{}).(*logrus.Entry); ok {
		return e
	}
	return logrus.NewEntry(s.log)
}
