package httpx

import (
	"log"
	"net/http"
	"time"
)

type accessLogWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (aw *accessLogWriter) WriteHeader(code int) {
	if aw.status == 0 {
		aw.status = code
	}
	aw.ResponseWriter.WriteHeader(code)
}

func (aw *accessLogWriter) Write(b []byte) (int, error) {
	if aw.status == 0 {
		aw.status = http.StatusOK
	}
	n, err := aw.ResponseWriter.Write(b)
	aw.bytes += int64(n)
	return n, err
}

func (aw *accessLogWriter) Unwrap() http.ResponseWriter { return aw.ResponseWriter }

// AccessLogMiddleware logs one line per request once it has been served.
// route is the ServeMux pattern that matched, empty for unmatched paths.
// client is the address resolved by ClientIPMiddleware.
func AccessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		aw := &accessLogWriter{ResponseWriter: w}
		next.ServeHTTP(aw, r)

		status := aw.status
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("access method=%s path=%s route=%q status=%d bytes=%d duration_ms=%d client=%s request_id=%s",
			r.Method, r.URL.Path, r.Pattern, status, aw.bytes,
			time.Since(start).Milliseconds(), ClientIPFrom(r), RequestIDFrom(r))
	})
}
