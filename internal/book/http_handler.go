package book

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the book read and delete routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/books", h.List)
	mux.HandleFunc("GET /api/books/language/{code}", h.ListByLanguage)
	mux.HandleFunc("GET /api/books/{id}", h.GetByID)
	mux.HandleFunc("DELETE /api/books/{id}", h.Delete)
}

// List handles GET /api/books
// @Summary Get all books
// @Tags books
// @Produce json
// @Success 200 {object} httpx.Response
// @Failure 500 {object} httpx.Response
// @Router /api/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONUnexpected(w, r, fmt.Errorf("list books: %w", err))
		return
	}
	httpx.JSONSuccess(w, r, "Books retrieved successfully", ToResponses(books))
}

// ListByLanguage handles GET /api/books/language/{code}
// @Summary Get books by language
// @Tags books
// @Produce json
// @Param code path string true "Language code (e.g. en, pt)"
// @Success 200 {object} httpx.Response
// @Failure 500 {object} httpx.Response
// @Router /api/books/language/{code} [get]
func (h *HTTPHandler) ListByLanguage(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	books, err := h.service.ListByLanguage(r.Context(), code)
	if err != nil {
		httpx.JSONUnexpected(w, r, fmt.Errorf("list books by language: %w", err))
		return
	}

	message := "Books retrieved successfully for language: " + code
	if len(books) == 0 {
		message = "No books found for language: " + code
	}
	httpx.JSONSuccess(w, r, message, ToResponses(books))
}

// GetByID handles GET /api/books/{id}
// @Summary Get book by ID
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /api/books/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b, found, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.JSONUnexpected(w, r, fmt.Errorf("get book %d: %w", id, err))
		return
	}
	if !found {
		httpx.JSONError(w, r, http.StatusNotFound, fmt.Sprintf("Book not found with ID: %d", id), nil)
		return
	}
	httpx.JSONSuccess(w, r, "Book found", ToResponse(b))
}

// Delete handles DELETE /api/books/{id}
// @Summary Delete a book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /api/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, fmt.Sprintf("Book not found with ID: %d", id), nil)
			return
		}
		httpx.JSONUnexpected(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, "Book deleted successfully", nil)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "Invalid book ID: "+raw, nil)
		return 0, false
	}
	return id, true
}
