package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/health"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/ingest"
	"bookcatalog/internal/metrics"
	"bookcatalog/internal/platform/gutendex"
	"bookcatalog/internal/platform/postgres"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("cannot open database: %v", err)
	}
	defer pool.Close()
	log.Println("database connection OK")
	db := postgres.New(pool)

	authorRepository := author.NewPostgresRepo(db, cfg.QueryTimeout)
	bookRepository := book.NewPostgresRepo(db, cfg.QueryTimeout)
	runRepository := ingest.NewPostgresRepo(db)
	source := gutendex.NewClient(gutendex.Options{
		BaseURL:    cfg.Gutendex.BaseURL,
		UserAgent:  cfg.Gutendex.UserAgent,
		RPS:        cfg.Gutendex.RPS,
		MaxRetries: cfg.Gutendex.MaxRetries,
		Timeout:    cfg.Gutendex.Timeout,
	})

	authorService := author.NewService(authorRepository)
	bookService := book.NewService(bookRepository)
	importService := ingest.NewService(source, db, bookRepository, authorRepository, runRepository)

	metrics.Register()

	router := newRouter(handlers{
		authors: author.NewHTTPHandler(authorService),
		books:   book.NewHTTPHandler(bookService),
		imports: ingest.NewHTTPHandler(importService),
		health:  health.NewHTTPHandler(bookService, authorService, pool, cfg.Version),
	}, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s version=%s trusted_proxies=%d", cfg.Addr, cfg.Version, len(cfg.TrustedProxies))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

type handlers struct {
	authors *author.HTTPHandler
	books   *book.HTTPHandler
	imports *ingest.HTTPHandler
	health  *health.HTTPHandler
}

// newRouter mounts every route and wraps the mux in middlewareChain.
func newRouter(h handlers, cfg config.Config) http.Handler {
	mux := http.NewServeMux()
	h.health.Register(mux)
	h.authors.Register(mux)
	h.books.Register(mux)
	h.imports.Register(mux)
	mux.Handle("GET /metrics", metrics.Handler())

	return httpx.Chain(mux, middlewareChain(cfg)...)
}

// middlewareChain lists the middlewares outermost first. Everything after
// AccessLogMiddleware must pass the request through unchanged so the log
// sees the matched route. Recovery sits inside metrics so panics are
// counted as 500s.
func middlewareChain(cfg config.Config) []func(http.Handler) http.Handler {
	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)

	return []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.ClientIPMiddleware(cfg.TrustedProxies),
		httpx.AccessLogMiddleware,
		metrics.Middleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	}
}
