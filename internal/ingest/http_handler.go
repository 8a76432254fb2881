package ingest

import (
	"errors"
	"net/http"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// SearchRequest is the body of POST /api/books/search.
type SearchRequest struct {
	Title string `json:"title" validate:"required,notblank,min=1,max=255"`
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/books/search", h.Search)
}

// Search handles POST /api/books/search
// @Summary Search and save a book
// @Description Look the title up in Gutendex and store the first match, or return the stored copy
// @Tags books
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Title to search for"
// @Success 200 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Failure 413 {object} httpx.Response
// @Failure 500 {object} httpx.Response
// @Router /api/books/search [post]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := httpx.DecodeAndValidate(r, &req); err != nil {
		httpx.JSONDecodeError(w, r, err)
		return
	}

	res, err := h.svc.Import(r.Context(), req.Title)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}
		httpx.JSONUnexpected(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, "Book found and saved successfully", book.ToResponse(res.Book))
}
