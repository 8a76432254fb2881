package book

import (
	"errors"
	"time"

	"bookcatalog/internal/author"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrTitleExists is returned by Create when another book already has the title.
	ErrTitleExists = errors.New("book title already exists")
)

// Book is a catalogued work and the authors credited on it.
type Book struct {
	ID            int64
	Title         string
	Language      string
	DownloadCount int
	Authors       []author.Author
	CreatedAt     time.Time
}

// Response is the wire shape of a book.
type Response struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Language      string            `json:"language"`
	DownloadCount int               `json:"downloadCount"`
	Authors       []author.Response `json:"authors"`
}

func ToResponse(b Book) Response {
	return Response{
		ID:            b.ID,
		Title:         b.Title,
		Language:      b.Language,
		DownloadCount: b.DownloadCount,
		Authors:       author.ToResponses(b.Authors),
	}
}

func ToResponses(books []Book) []Response {
	out := make([]Response, 0, len(books))
	for _, b := range books {
		out = append(out, ToResponse(b))
	}
	return out
}
