package gutendex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const domCasmurro = `{
  "count": 2,
  "next": null,
  "previous": null,
  "results": [
    {
      "id": 55752,
      "title": "Dom Casmurro",
      "authors": [{"name": "Machado de Assis", "birth_year": 1839, "death_year": 1908}],
      "languages": ["pt"],
      "download_count": 1520
    },
    {
      "id": 1,
      "title": "Dom Casmurro (English)",
      "authors": [{"name": "Machado de Assis", "birth_year": 1839, "death_year": 1908}, {"name": "Anonymous", "birth_year": null, "death_year": null}],
      "languages": [],
      "download_count": 10
    }
  ]
}`

func newTestClient(baseURL string, maxRetries int) *Client {
	c := NewClient(Options{BaseURL: baseURL, UserAgent: "bookcatalog-test", RPS: 1000, MaxRetries: maxRetries})
	c.backoff = func(int) time.Duration { return time.Millisecond }
	return c
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{})
	assert.Equal(t, "https://gutendex.com", c.baseURL)
	assert.Equal(t, 15*time.Second, c.httpClient.Timeout)
	assert.Equal(t, 0, c.maxRetries)
}

func TestSearchByTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/", r.URL.Path)
		assert.Equal(t, "Dom Casmurro", r.URL.Query().Get("search"))
		assert.Equal(t, "bookcatalog-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(domCasmurro))
	}))
	defer server.Close()

	results, err := newTestClient(server.URL, 0).SearchByTitle(context.Background(), "Dom Casmurro")
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "Dom Casmurro", first.Title)
	assert.Equal(t, "pt", first.Language)
	assert.Equal(t, 1520, first.DownloadCount)
	require.Len(t, first.Authors, 1)
	assert.Equal(t, "Machado de Assis", first.Authors[0].Name)
	require.NotNil(t, first.Authors[0].BirthYear)
	assert.Equal(t, 1839, *first.Authors[0].BirthYear)
	assert.Equal(t, 1908, *first.Authors[0].DeathYear)

	second := results[1]
	assert.Empty(t, second.Language)
	require.Len(t, second.Authors, 2)
	assert.Nil(t, second.Authors[1].BirthYear)
	assert.Nil(t, second.Authors[1].DeathYear)
}

func TestSearchByTitle_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":0,"next":null,"previous":null,"results":[]}`))
	}))
	defer server.Close()

	results, err := newTestClient(server.URL, 0).SearchByTitle(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchByTitle_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 3).SearchByTitle(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSearchByTitle_NoRetryByDefault(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 0).SearchByTitle(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 502")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSearchByTitle_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(domCasmurro))
	}))
	defer server.Close()

	results, err := newTestClient(server.URL, 2).SearchByTitle(context.Background(), "Dom Casmurro")
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSearchByTitle_RetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 2).SearchByTitle(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 retries")
}

func TestSearchByTitle_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 0).SearchByTitle(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestSearchByTitle_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(domCasmurro))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL, 0).SearchByTitle(ctx, "x")
	assert.Error(t, err)
}
