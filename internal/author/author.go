package author

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an author is not found.
var ErrNotFound = errors.New("author not found")

// Author is a person credited on one or more books.
type Author struct {
	ID        int64
	Name      string
	BirthYear *int
	DeathYear *int
	CreatedAt time.Time
}

// Response is the wire shape of an author.
type Response struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BirthYear *int   `json:"birthYear"`
	DeathYear *int   `json:"deathYear"`
}

func ToResponse(a Author) Response {
	return Response{
		ID:        a.ID,
		Name:      a.Name,
		BirthYear: a.BirthYear,
		DeathYear: a.DeathYear,
	}
}

func ToResponses(authors []Author) []Response {
	out := make([]Response, 0, len(authors))
	for _, a := range authors {
		out = append(out, ToResponse(a))
	}
	return out
}
