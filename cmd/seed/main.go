package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/ingest"
	"bookcatalog/internal/metrics"
	"bookcatalog/internal/platform/gutendex"
	"bookcatalog/internal/platform/postgres"
)

var defaultTitles = []string{
	"Dom Casmurro",
	"Pride and Prejudice",
	"Frankenstein",
	"Moby Dick",
	"Don Quijote",
	"Les Misérables",
	"Alice's Adventures in Wonderland",
	"The Adventures of Sherlock Holmes",
	"Memórias Póstumas de Brás Cubas",
	"Faust",
}

func main() {
	titlesFlag := flag.String("titles", "", "Comma separated titles to import (default: a built-in list)")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	db := postgres.New(pool)

	bookRepository := book.NewPostgresRepo(db, cfg.QueryTimeout)
	authorRepository := author.NewPostgresRepo(db, cfg.QueryTimeout)
	source := gutendex.NewClient(gutendex.Options{
		BaseURL:    cfg.Gutendex.BaseURL,
		UserAgent:  cfg.Gutendex.UserAgent,
		RPS:        cfg.Gutendex.RPS,
		MaxRetries: cfg.Gutendex.MaxRetries,
		Timeout:    cfg.Gutendex.Timeout,
	})
	svc := ingest.NewService(source, db, bookRepository, authorRepository, ingest.NewPostgresRepo(db))

	summary := seed(ctx, svc, parseTitles(*titlesFlag))
	log.Printf("Seed finished: created=%d existing=%d not_found=%d failed=%d",
		summary[metrics.ImportCreated], summary[metrics.ImportExisting],
		summary[metrics.ImportNotFound], summary[metrics.ImportFailed])

	total, err := bookRepository.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count books: %v", err)
	}
	log.Printf("Total books in database: %d", total)
}

type importer interface {
	Import(ctx context.Context, title string) (ingest.Result, error)
}

// seed imports each title in order and tallies the outcomes. It stops early
// when ctx is canceled.
func seed(ctx context.Context, svc importer, titles []string) map[string]int {
	summary := make(map[string]int)
	for _, title := range titles {
		if ctx.Err() != nil {
			break
		}
		res, err := svc.Import(ctx, title)
		switch {
		case errors.Is(err, ingest.ErrNotFound):
			summary[metrics.ImportNotFound]++
			log.Printf("seed title=%q result=not_found", title)
		case err != nil:
			summary[metrics.ImportFailed]++
			log.Printf("seed title=%q result=failed error=%v", title, err)
		case res.Created:
			summary[metrics.ImportCreated]++
			log.Printf("seed title=%q result=created book_id=%d", title, res.Book.ID)
		default:
			summary[metrics.ImportExisting]++
			log.Printf("seed title=%q result=existing book_id=%d", title, res.Book.ID)
		}
	}
	return summary
}

func parseTitles(v string) []string {
	if strings.TrimSpace(v) == "" {
		return defaultTitles
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
