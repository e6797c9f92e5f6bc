package main

import (
	"context"
	"time"
)

// DateLayout is the calendar date format used for the `dateAdded` field.
const DateLayout = "2006-01-02"

// Genres is the closed list of accepted book genres.
var Genres = []string{"Fiction", "Non-Fiction", "Mystery", "Romance", "Sci-Fi", "Biography"}

// Book represents a book entity.
type Book struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Genre     string `json:"genre"`
	Year      int    `json:"year"`
	IsRead    bool   `json:"isRead"`
	Rating    *int   `json:"rating"`
	DateAdded string `json:"dateAdded"`
}

// Clone returns a deep copy of the book so the rating
// pointer is never shared with the stored record.
func (b Book) Clone() Book {
	if b.Rating != nil {
		r := *b.Rating
		b.Rating = &r
	}
	return b
}

// BookFields holds the mutable attributes of a book. It is what
// the store accepts on insertion and on full replacement.
type BookFields struct {
	Title  string
	Author string
	Genre  string
	Year   int
	IsRead bool
	Rating *int
}

// BookPayload is the body of a book creation or replacement request. Fields
// are loosely typed on purpose: the validator decides what a valid value is.
type BookPayload struct {
	Title  any   `json:"title"`
	Author any   `json:"author"`
	Genre  any   `json:"genre"`
	Year   any   `json:"year"`
	IsRead *bool `json:"isRead"`
	Rating any   `json:"rating"`
}

// RatingPayload is the body of a book rating request.
type RatingPayload struct {
	Rating any `json:"rating"`
}

// BookStorage defines possible operations on book entity.
type BookStorage interface {
	Insert(ctx context.Context, fields BookFields) (Book, error)
	GetOne(ctx context.Context, id int) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	Replace(ctx context.Context, id int, fields BookFields) (Book, error)
	Remove(ctx context.Context, id int) (Book, error)
	MarkRead(ctx context.Context, id int) (Book, error)
	Rate(ctx context.Context, id int, rating int) (Book, error)
}

// Book mutation actions recorded into the change journal.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionRead    = "read"
	ActionRated   = "rated"
)

// BookEvent describes a committed book mutation. The sequence
// number is assigned by the journal once the event is stored.
type BookEvent struct {
	Seq    uint64    `json:"seq"`
	Action string    `json:"action"`
	BookID int       `json:"bookId"`
	Book   Book      `json:"book"`
	At     time.Time `json:"at"`
}

// SeedBooks returns the records the store starts with.
func SeedBooks() []Book {
	five, four := 5, 4
	return []Book{
		{
			ID:        1,
			Title:     "The Great Gatsby",
			Author:    "F. Scott Fitzgerald",
			Genre:     "Fiction",
			Year:      1925,
			IsRead:    false,
			Rating:    nil,
			DateAdded: "2024-01-15",
		},
		{
			ID:        2,
			Title:     "To Kill a Mockingbird",
			Author:    "Harper Lee",
			Genre:     "Fiction",
			Year:      1960,
			IsRead:    true,
			Rating:    &five,
			DateAdded: "2024-01-10",
		},
		{
			ID:        3,
			Title:     "1984",
			Author:    "George Orwell",
			Genre:     "Sci-Fi",
			Year:      1949,
			IsRead:    true,
			Rating:    &four,
			DateAdded: "2024-01-12",
		},
	}
}
