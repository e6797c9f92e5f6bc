package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMemoryStorage() BookStorage {
	return NewMemoryBookStorage(zap.NewNop(), NewMockClocker(), SeedBooks()...)
}

// TestMemoryStorageInsert ensures ids continue after the seeds and the date is stamped.
func TestMemoryStorageInsert(t *testing.T) {
	ms := newTestMemoryStorage()
	ctx := context.Background()

	book, err := ms.Insert(ctx, BookFields{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: 1965})
	require.NoError(t, err)
	assert.Equal(t, 4, book.ID)
	assert.Equal(t, "2024-02-10", book.DateAdded)

	book, err = ms.Insert(ctx, BookFields{Title: "Emma", Author: "Jane Austen", Genre: "Romance", Year: 1815})
	require.NoError(t, err)
	assert.Equal(t, 5, book.ID)

	books, err := ms.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, bookIDs(books))
}

// TestMemoryStorageIDsNotReused ensures a removed id is never handed out again.
func TestMemoryStorageIDsNotReused(t *testing.T) {
	ms := newTestMemoryStorage()
	ctx := context.Background()

	removed, err := ms.Remove(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "1984", removed.Title)

	book, err := ms.Insert(ctx, BookFields{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: 1965})
	require.NoError(t, err)
	assert.Equal(t, 4, book.ID)

	_, err = ms.GetOne(ctx, 3)
	assert.True(t, errors.Is(err, ErrBookNotFound))
}

// TestMemoryStorageReturnsCopies ensures callers cannot change stored records.
func TestMemoryStorageReturnsCopies(t *testing.T) {
	ms := newTestMemoryStorage()
	ctx := context.Background()

	book, err := ms.GetOne(ctx, 2)
	require.NoError(t, err)
	*book.Rating = 1
	book.Title = "changed"

	stored, err := ms.GetOne(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, *stored.Rating)
	assert.Equal(t, "To Kill a Mockingbird", stored.Title)
}

// TestMemoryStorageReplace ensures id and dateAdded are preserved.
func TestMemoryStorageReplace(t *testing.T) {
	ms := newTestMemoryStorage()
	ctx := context.Background()
	three := 3

	book, err := ms.Replace(ctx, 1, BookFields{Title: "Gatsby", Author: "Fitzgerald", Genre: "Fiction", Year: 1926, IsRead: true, Rating: &three})
	require.NoError(t, err)
	assert.Equal(t, 1, book.ID)
	assert.Equal(t, "2024-01-15", book.DateAdded)
	assert.Equal(t, "Gatsby", book.Title)
	assert.True(t, book.IsRead)
	assert.Equal(t, 3, *book.Rating)

	_, err = ms.Replace(ctx, 42, BookFields{})
	assert.True(t, errors.Is(err, ErrBookNotFound))
}

// TestMemoryStorageMarkReadAndRate ensures the dedicated update paths.
func TestMemoryStorageMarkReadAndRate(t *testing.T) {
	ms := newTestMemoryStorage()
	ctx := context.Background()

	book, err := ms.MarkRead(ctx, 1)
	require.NoError(t, err)
	assert.True(t, book.IsRead)

	book, err = ms.MarkRead(ctx, 1)
	require.NoError(t, err)
	assert.True(t, book.IsRead)

	book, err = ms.Rate(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, *book.Rating)

	_, err = ms.MarkRead(ctx, 99)
	assert.True(t, errors.Is(err, ErrBookNotFound))
	_, err = ms.Rate(ctx, 99, 2)
	assert.True(t, errors.Is(err, ErrBookNotFound))
	_, err = ms.Remove(ctx, 99)
	assert.True(t, errors.Is(err, ErrBookNotFound))
}
