package httpx

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
)

// committedWriter remembers whether the response has started, so a panic
// after the first write does not append a second body.
type committedWriter struct {
	http.ResponseWriter
	committed bool
}

func (cw *committedWriter) WriteHeader(code int) {
	cw.committed = true
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *committedWriter) Write(b []byte) (int, error) {
	cw.committed = true
	return cw.ResponseWriter.Write(b)
}

func (cw *committedWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }

// RecoveryMiddleware turns a handler panic into a 500 envelope. It must sit
// inside any middleware that should observe the 500. http.ErrAbortHandler
// is re-raised so the server aborts the connection as usual.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &committedWriter{ResponseWriter: w}
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			log.Printf("panic recovered: method=%s path=%s request_id=%s error=%v stack=%s",
				r.Method, r.URL.Path, RequestIDFrom(r), v, debug.Stack())
			if cw.committed {
				return
			}
			JSONError(cw, r, http.StatusInternalServerError, fmt.Sprintf("An unexpected error occurred: %v", v), nil)
		}()
		next.ServeHTTP(cw, r)
	})
}
