package gutendex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"bookcatalog/internal/metrics"

	"golang.org/x/time/rate"
)

// ErrUnexpectedStatus is wrapped by errors for non-200 responses.
var ErrUnexpectedStatus = errors.New("unexpected status code")

type Options struct {
	BaseURL    string
	UserAgent  string
	RPS        int
	MaxRetries int
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    func(attempt int) time.Duration
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://gutendex.com"
	}
	if opts.RPS <= 0 {
		opts.RPS = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent:  opts.UserAgent,
		baseURL:    opts.BaseURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RPS)), 1),
		maxRetries: opts.MaxRetries,
		backoff: func(attempt int) time.Duration {
			// 1s, 2s, 4s...
			return time.Duration(1<<uint(attempt-1)) * time.Second
		},
	}
}

// BooksResponse matches /books/.
type BooksResponse struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []BookDTO `json:"results"`
}

type BookDTO struct {
	ID            int         `json:"id"`
	Title         string      `json:"title"`
	Authors       []PersonDTO `json:"authors"`
	Languages     []string    `json:"languages"`
	DownloadCount int         `json:"download_count"`
}

type PersonDTO struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year"`
	DeathYear *int   `json:"death_year"`
}

// Candidate is a book record as reported by the source.
type Candidate struct {
	Title         string
	Language      string
	DownloadCount int
	Authors       []CandidateAuthor
}

type CandidateAuthor struct {
	Name      string
	BirthYear *int
	DeathYear *int
}

// SearchByTitle returns the candidates for title in the order the API ranks them.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]Candidate, error) {
	u := fmt.Sprintf("%s/books/?search=%s", c.baseURL, url.QueryEscape(title))

	var res BooksResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, fmt.Errorf("search gutendex %q: %w", title, err)
	}

	out := make([]Candidate, 0, len(res.Results))
	for _, b := range res.Results {
		out = append(out, b.toCandidate())
	}
	return out, nil
}

func (b BookDTO) toCandidate() Candidate {
	c := Candidate{
		Title:         b.Title,
		DownloadCount: b.DownloadCount,
	}
	if len(b.Languages) > 0 {
		c.Language = b.Languages[0]
	}
	for _, p := range b.Authors {
		c.Authors = append(c.Authors, CandidateAuthor{
			Name:      p.Name,
			BirthYear: p.BirthYear,
			DeathYear: p.DeathYear,
		})
	}
	return c
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			select {
			case <-time.After(c.backoff(i)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	if c.maxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string, target any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()
	metrics.IncSourceRequest(resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}
