package main

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

var _ BookStorage = (*memoryBookStorage)(nil) // ensure memoryBookStorage implements BookStorage.

// memoryBookStorage keeps the books in insertion order. Every
// returned book is a copy, callers must go through the update
// methods to change a stored record.
type memoryBookStorage struct {
	logger *zap.Logger
	clock  Clocker
	mu     sync.RWMutex
	books  []Book
	nextID int
}

// NewMemoryBookStorage provides an instance of in-memory book storage loaded with
// the given seed books. The id allocator starts right after the highest seed id.
func NewMemoryBookStorage(logger *zap.Logger, clock Clocker, seeds ...Book) BookStorage {
	ms := &memoryBookStorage{
		logger: logger,
		clock:  clock,
		books:  make([]Book, 0, len(seeds)),
		nextID: 1,
	}
	for _, b := range seeds {
		ms.books = append(ms.books, b.Clone())
		if b.ID >= ms.nextID {
			ms.nextID = b.ID + 1
		}
	}
	return ms
}

func (ms *memoryBookStorage) indexOf(id int) int {
	for i := range ms.books {
		if ms.books[i].ID == id {
			return i
		}
	}
	return -1
}

// Insert allocates the next id, stamps today's date and stores the new book.
func (ms *memoryBookStorage) Insert(_ context.Context, fields BookFields) (Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	book := Book{
		ID:        ms.nextID,
		Title:     fields.Title,
		Author:    fields.Author,
		Genre:     fields.Genre,
		Year:      fields.Year,
		IsRead:    fields.IsRead,
		Rating:    fields.Rating,
		DateAdded: ms.clock.Now().UTC().Format(DateLayout),
	}.Clone()
	ms.nextID++
	ms.books = append(ms.books, book)
	ms.logger.Debug("storage: book inserted", zap.Int("book.id", book.ID), zap.Int("books.total", len(ms.books)))
	return book.Clone(), nil
}

// GetOne retrieves a book record based on its ID.
func (ms *memoryBookStorage) GetOne(_ context.Context, id int) (Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	i := ms.indexOf(id)
	if i < 0 {
		return Book{}, ErrBookNotFound
	}
	return ms.books[i].Clone(), nil
}

// GetAll retrieves a snapshot of all books in insertion order.
func (ms *memoryBookStorage) GetAll(_ context.Context) ([]Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	books := make([]Book, 0, len(ms.books))
	for _, b := range ms.books {
		books = append(books, b.Clone())
	}
	return books, nil
}

// Replace overwrites every field of an existing book except its id and dateAdded.
func (ms *memoryBookStorage) Replace(_ context.Context, id int, fields BookFields) (Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	i := ms.indexOf(id)
	if i < 0 {
		return Book{}, ErrBookNotFound
	}
	current := ms.books[i]
	ms.books[i] = Book{
		ID:        current.ID,
		Title:     fields.Title,
		Author:    fields.Author,
		Genre:     fields.Genre,
		Year:      fields.Year,
		IsRead:    fields.IsRead,
		Rating:    fields.Rating,
		DateAdded: current.DateAdded,
	}.Clone()
	return ms.books[i].Clone(), nil
}

// Remove deletes a book record and returns it.
func (ms *memoryBookStorage) Remove(_ context.Context, id int) (Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	i := ms.indexOf(id)
	if i < 0 {
		return Book{}, ErrBookNotFound
	}
	removed := ms.books[i]
	ms.books = append(ms.books[:i], ms.books[i+1:]...)
	ms.logger.Debug("storage: book removed", zap.Int("book.id", id), zap.Int("books.total", len(ms.books)))
	return removed, nil
}

// MarkRead sets the read flag of a book. Marking an already read book is a no-op.
func (ms *memoryBookStorage) MarkRead(_ context.Context, id int) (Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	i := ms.indexOf(id)
	if i < 0 {
		return Book{}, ErrBookNotFound
	}
	ms.books[i].IsRead = true
	return ms.books[i].Clone(), nil
}

// Rate overwrites the rating of a book.
func (ms *memoryBookStorage) Rate(_ context.Context, id int, rating int) (Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	i := ms.indexOf(id)
	if i < 0 {
		return Book{}, ErrBookNotFound
	}
	ms.books[i].Rating = &rating
	return ms.books[i].Clone(), nil
}
