package author

import (
	"fmt"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"
)

// MaxYear is the latest year accepted by the by-year listing.
const MaxYear = 2024

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the author routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/authors", h.List)
	mux.HandleFunc("GET /api/authors/year/{year}", h.ListByYear)
	mux.HandleFunc("GET /api/authors/{id}", h.GetByID)
}

// List handles GET /api/authors
// @Summary Get all authors
// @Description Retrieve all authors stored in the database
// @Tags authors
// @Produce json
// @Success 200 {object} httpx.Response
// @Failure 500 {object} httpx.Response
// @Router /api/authors [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONUnexpected(w, r, fmt.Errorf("list authors: %w", err))
		return
	}
	httpx.JSONSuccess(w, r, "Authors retrieved successfully", ToResponses(authors))
}

// ListByYear handles GET /api/authors/year/{year}
// @Summary Get authors by year
// @Description Retrieve all authors who were alive in a specific year
// @Tags authors
// @Produce json
// @Param year path int true "Year to search for authors"
// @Success 200 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 500 {object} httpx.Response
// @Router /api/authors/year/{year} [get]
func (h *HTTPHandler) ListByYear(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "Invalid year: "+raw, nil)
		return
	}
	if year < 0 || year > MaxYear {
		httpx.JSONError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid year: %d", year), nil)
		return
	}

	authors, err := h.service.ListByYear(r.Context(), year)
	if err != nil {
		httpx.JSONUnexpected(w, r, fmt.Errorf("list authors by year: %w", err))
		return
	}

	message := fmt.Sprintf("Authors retrieved successfully for year: %d", year)
	if len(authors) == 0 {
		message = fmt.Sprintf("No authors found who were alive in year: %d", year)
	}
	httpx.JSONSuccess(w, r, message, ToResponses(authors))
}

// GetByID handles GET /api/authors/{id}
// @Summary Get author by ID
// @Tags authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /api/authors/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "Invalid author ID: "+raw, nil)
		return
	}

	a, found, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.JSONUnexpected(w, r, fmt.Errorf("get author %d: %w", id, err))
		return
	}
	if !found {
		httpx.JSONError(w, r, http.StatusNotFound, fmt.Sprintf("Author not found with ID: %d", id), nil)
		return
	}
	httpx.JSONSuccess(w, r, "Author found", ToResponse(a))
}
