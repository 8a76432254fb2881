package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/metrics"
	"bookcatalog/internal/platform/gutendex"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Service imports books from a Source into the catalogue, reusing books and
// authors that already exist.
type Service struct {
	source  Source
	tx      Transactor
	books   book.Repository
	authors author.Repository
	runs    RunRepository

	group   singleflight.Group
	timeout time.Duration
	now     func() time.Time
}

// DefaultImportTimeout bounds one shared import, source lookup included.
const DefaultImportTimeout = 30 * time.Second

func NewService(source Source, tx Transactor, books book.Repository, authors author.Repository, runs RunRepository) *Service {
	return &Service{
		source:  source,
		tx:      tx,
		books:   books,
		authors: authors,
		runs:    runs,
		timeout: DefaultImportTimeout,
		now:     time.Now,
	}
}

// Import finds title in the source and stores the first match. If a book
// with the matched title is already stored it is returned unchanged.
// Concurrent imports of the same title share a single lookup, which runs
// detached from any one caller and is bounded by the import timeout. Each
// caller stops waiting when its own ctx is done.
func (s *Service) Import(ctx context.Context, title string) (Result, error) {
	key := strings.ToLower(strings.TrimSpace(title))
	ch := s.group.DoChan(key, func() (any, error) {
		importCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.importTitle(importCtx, title)
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, ErrNotFound) {
				return Result{}, fmt.Errorf("%w with title: %s", ErrNotFound, title)
			}
			return Result{}, res.Err
		}
		return res.Val.(Result), nil
	}
}

func (s *Service) importTitle(ctx context.Context, title string) (Result, error) {
	start := s.now()
	run := s.startRun(ctx, title, start)

	res, err := s.importFirstMatch(ctx, title)

	outcome := outcomeOf(res, err)
	metrics.IncImport(outcome)
	metrics.ObserveImportDuration(s.now().Sub(start))
	s.finishRun(ctx, run, res, err)

	log.Printf("import title=%q result=%s book_id=%d duration_ms=%d", title, outcome, res.Book.ID, s.now().Sub(start).Milliseconds())
	return res, err
}

func (s *Service) importFirstMatch(ctx context.Context, title string) (Result, error) {
	candidates, err := s.source.SearchByTitle(ctx, title)
	if err != nil {
		return Result{}, fmt.Errorf("import %q: %w", title, err)
	}
	if len(candidates) == 0 {
		return Result{}, fmt.Errorf("%w with title: %s", ErrNotFound, title)
	}
	c := candidates[0]

	var res Result
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.books.GetByTitle(ctx, c.Title)
		if err == nil {
			res = Result{Book: existing}
			return nil
		}
		if !errors.Is(err, book.ErrNotFound) {
			return fmt.Errorf("look up book %q: %w", c.Title, err)
		}

		authors, err := s.resolveAuthors(ctx, c.Authors)
		if err != nil {
			return err
		}

		b := book.Book{
			Title:         c.Title,
			Language:      strings.ToLower(c.Language),
			DownloadCount: c.DownloadCount,
			Authors:       authors,
		}
		if err := s.books.Create(ctx, &b); err != nil {
			return err
		}
		res = Result{Book: b, Created: true}
		return nil
	})

	if errors.Is(err, book.ErrTitleExists) {
		// Another import committed the same title first.
		existing, getErr := s.books.GetByTitle(ctx, c.Title)
		if getErr != nil {
			return Result{}, fmt.Errorf("re-fetch book %q: %w", c.Title, getErr)
		}
		return Result{Book: existing}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("save book %q: %w", c.Title, err)
	}
	return res, nil
}

// resolveAuthors reuses stored authors by exact name and saves the rest.
// The returned slice holds each author id once.
func (s *Service) resolveAuthors(ctx context.Context, candidates []gutendex.CandidateAuthor) ([]author.Author, error) {
	out := make([]author.Author, 0, len(candidates))
	seen := make(map[int64]bool, len(candidates))

	for _, ca := range candidates {
		a, err := s.authors.GetByName(ctx, ca.Name)
		if errors.Is(err, author.ErrNotFound) {
			a = author.Author{Name: ca.Name, BirthYear: ca.BirthYear, DeathYear: ca.DeathYear}
			err = s.authors.Save(ctx, &a)
		}
		if err != nil {
			return nil, fmt.Errorf("resolve author %q: %w", ca.Name, err)
		}
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out, nil
}

func (s *Service) startRun(ctx context.Context, title string, start time.Time) *Run {
	run := &Run{
		ID:        uuid.New(),
		Title:     title,
		Status:    RunRunning,
		StartedAt: start,
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		log.Printf("create import run failed: title=%q error=%v", title, err)
		return nil
	}
	return run
}

func (s *Service) finishRun(ctx context.Context, run *Run, res Result, err error) {
	if run == nil {
		return
	}
	now := s.now()
	run.FinishedAt = &now
	if err != nil {
		run.Status = RunFailed
		run.Error = err.Error()
	} else {
		run.Status = RunCompleted
		id := res.Book.ID
		run.BookID = &id
		run.Created = res.Created
	}
	if updateErr := s.runs.UpdateRun(context.WithoutCancel(ctx), run); updateErr != nil {
		log.Printf("update import run %s failed: %v", run.ID, updateErr)
	}
}

func outcomeOf(res Result, err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return metrics.ImportNotFound
	case err != nil:
		return metrics.ImportFailed
	case res.Created:
		return metrics.ImportCreated
	default:
		return metrics.ImportExisting
	}
}
