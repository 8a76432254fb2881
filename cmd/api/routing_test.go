package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/health"
	"bookcatalog/internal/ingest"
	"bookcatalog/internal/platform/gutendex"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

type noopPinger struct{}

func (noopPinger) Ping(ctx context.Context) error { return nil }

type emptySource struct{}

func (emptySource) SearchByTitle(ctx context.Context, title string) ([]gutendex.Candidate, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (http.Handler, *author.MockRepository, *book.MockRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	authorRepo := author.NewMockRepository(ctrl)
	bookRepo := book.NewMockRepository(ctrl)

	authorService := author.NewService(authorRepo)
	bookService := book.NewService(bookRepo)

	cfg := config.Config{RateLimitRPS: 1000, RateLimitBurst: 1000, MaxBodyBytes: 1 << 20}
	router := newRouter(handlers{
		authors: author.NewHTTPHandler(authorService),
		books:   book.NewHTTPHandler(bookService),
		imports: ingest.NewHTTPHandler(ingest.NewService(emptySource{}, nil, bookRepo, authorRepo, nil)),
		health:  health.NewHTTPHandler(bookService, authorService, noopPinger{}, "test"),
	}, cfg)
	return router, authorRepo, bookRepo
}

func TestRouting(t *testing.T) {
	router, authorRepo, bookRepo := newTestRouter(t)

	t.Run("author routes", func(t *testing.T) {
		authorRepo.EXPECT().List(gomock.Any()).Return([]author.Author{}, nil)
		authorRepo.EXPECT().ListAliveInYear(gomock.Any(), 1850).Return([]author.Author{}, nil)
		authorRepo.EXPECT().GetByID(gomock.Any(), int64(4)).Return(author.Author{ID: 4}, nil)

		for _, path := range []string{"/api/authors", "/api/authors/year/1850", "/api/authors/4"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("book routes", func(t *testing.T) {
		bookRepo.EXPECT().List(gomock.Any()).Return([]book.Book{}, nil)
		bookRepo.EXPECT().ListByLanguage(gomock.Any(), "en").Return([]book.Book{}, nil)
		bookRepo.EXPECT().GetByID(gomock.Any(), int64(2)).Return(book.Book{ID: 2}, nil)
		bookRepo.EXPECT().Delete(gomock.Any(), int64(2)).Return(nil)

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/books"},
			{http.MethodGet, "/api/books/language/EN"},
			{http.MethodGet, "/api/books/2"},
			{http.MethodDelete, "/api/books/2"},
		} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, tc.method+" "+tc.path)
		}
	})

	t.Run("search validates before importing", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/books/search", strings.NewReader(`{"title":""}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("health", func(t *testing.T) {
		bookRepo.EXPECT().Count(gomock.Any()).Return(1, nil)
		authorRepo.EXPECT().Count(gomock.Any()).Return(1, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("request id and security headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/authors", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
