package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/metrics"
)

// Counter reports how many rows a store holds.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the payload of GET /api/health.
type Status struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	TotalBooks   int       `json:"totalBooks"`
	TotalAuthors int       `json:"totalAuthors"`
	Version      string    `json:"version"`
}

type HTTPHandler struct {
	books   Counter
	authors Counter
	db      Pinger
	version string
	now     func() time.Time
}

func NewHTTPHandler(books, authors Counter, db Pinger, version string) *HTTPHandler {
	return &HTTPHandler{books: books, authors: authors, db: db, version: version, now: time.Now}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /healthz", h.Liveness)
	mux.HandleFunc("GET /readyz", h.Readiness)
}

// Health handles GET /api/health
// @Summary Health check
// @Description Check the health status of the application and database
// @Tags health
// @Produce json
// @Success 200 {object} httpx.Response
// @Failure 503 {object} httpx.Response
// @Router /api/health [get]
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := Status{Status: "UP", Timestamp: h.now(), Version: h.version}

	books, err := h.books.Count(r.Context())
	if err == nil {
		status.TotalBooks = books
		var authors int
		authors, err = h.authors.Count(r.Context())
		status.TotalAuthors = authors
	}
	if err != nil {
		status.Status = "DOWN"
		httpx.JSONError(w, r, http.StatusServiceUnavailable, fmt.Sprintf("Application is unhealthy: %v", err), status)
		return
	}

	metrics.SetBooks(status.TotalBooks)
	metrics.SetAuthors(status.TotalAuthors)
	httpx.JSONSuccess(w, r, "Application is healthy", status)
}

func (h *HTTPHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *HTTPHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		http.Error(w, "db not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
