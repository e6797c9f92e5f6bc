package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestBookServiceCreate ensures creation validates, forces defaults and publishes an event.
func TestBookServiceCreate(t *testing.T) {
	queue := &MockQueuer{}
	bs := newTestBookService(NewMockClocker(), queue)
	ctx := context.Background()
	read := true

	book, err := bs.Create(ctx, BookPayload{
		Title:  "  Dune ",
		Author: "Frank Herbert",
		Genre:  "Sci-Fi",
		Year:   float64(1965),
		IsRead: &read,
		Rating: float64(5),
	})
	require.NoError(t, err)
	assert.Equal(t, Book{ID: 4, Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: 1965, DateAdded: "2024-02-10"}, book)

	events := queue.Pushed()
	require.Len(t, events, 1)
	assert.Equal(t, ActionCreated, events[0].Action)
	assert.Equal(t, 4, events[0].BookID)

	t.Run("duplicate is rejected", func(t *testing.T) {
		_, err := bs.Create(ctx, BookPayload{Title: "dune", Author: "FRANK HERBERT", Genre: "Sci-Fi", Year: float64(1965)})
		assert.True(t, errors.Is(err, ErrDuplicateBook))
		assert.Len(t, queue.Pushed(), 1)
	})

	t.Run("invalid payload leaves the store unchanged", func(t *testing.T) {
		_, err := bs.Create(ctx, BookPayload{Title: "X", Author: "Y", Genre: "Poetry", Year: float64(2000)})
		assert.Equal(t, InvalidGenre, KindOf(err))
		books, err := bs.Query(ctx, BookFilter{})
		require.NoError(t, err)
		assert.Len(t, books, 4)
	})
}

// TestBookServiceReplace ensures replacement rules on rating and read status.
func TestBookServiceReplace(t *testing.T) {
	ctx := context.Background()
	payload := func(rating any) BookPayload {
		return BookPayload{Title: "1984", Author: "George Orwell", Genre: "Sci-Fi", Year: float64(1949), Rating: rating}
	}

	t.Run("falsy rating becomes null", func(t *testing.T) {
		bs := newTestBookService(NewMockClocker(), &MockQueuer{})
		for _, r := range []any{nil, float64(0), false, ""} {
			book, err := bs.Replace(ctx, 3, payload(r))
			require.NoError(t, err)
			assert.Nil(t, book.Rating)
			assert.False(t, book.IsRead)
			assert.Equal(t, "2024-01-12", book.DateAdded)
		}
	})

	t.Run("valid rating is kept", func(t *testing.T) {
		bs := newTestBookService(NewMockClocker(), &MockQueuer{})
		book, err := bs.Replace(ctx, 3, payload(float64(2)))
		require.NoError(t, err)
		require.NotNil(t, book.Rating)
		assert.Equal(t, 2, *book.Rating)
	})

	t.Run("out of range rating is rejected", func(t *testing.T) {
		bs := newTestBookService(NewMockClocker(), &MockQueuer{})
		_, err := bs.Replace(ctx, 3, payload(float64(7)))
		assert.True(t, errors.Is(err, ErrInvalidRating))
		book, err := bs.GetOne(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, 4, *book.Rating)
	})

	t.Run("unknown book is checked first", func(t *testing.T) {
		bs := newTestBookService(NewMockClocker(), &MockQueuer{})
		_, err := bs.Replace(ctx, 99, BookPayload{})
		assert.True(t, errors.Is(err, ErrBookNotFound))
	})

	t.Run("no duplicate check on replace", func(t *testing.T) {
		bs := newTestBookService(NewMockClocker(), &MockQueuer{})
		p := BookPayload{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction", Year: float64(1925)}
		_, err := bs.Replace(ctx, 3, p)
		assert.NoError(t, err)
	})
}

// TestBookServiceRate ensures only integers from 1 to 5 are accepted.
func TestBookServiceRate(t *testing.T) {
	ctx := context.Background()
	queue := &MockQueuer{}
	bs := newTestBookService(NewMockClocker(), queue)

	book, err := bs.Rate(ctx, 1, float64(4))
	require.NoError(t, err)
	assert.Equal(t, 4, *book.Rating)

	for _, v := range []any{nil, float64(0), float64(6), float64(4.5), "3"} {
		_, err = bs.Rate(ctx, 1, v)
		require.Error(t, err, v)
		assert.Equal(t, "Rating must be a number between 1 and 5", err.Error())
	}

	_, err = bs.Rate(ctx, 99, float64(0))
	assert.True(t, errors.Is(err, ErrBookNotFound))

	events := queue.Pushed()
	require.Len(t, events, 1)
	assert.Equal(t, ActionRated, events[0].Action)
}

// TestBookServiceDeleteAndMarkRead ensures both mutations return the affected book.
func TestBookServiceDeleteAndMarkRead(t *testing.T) {
	ctx := context.Background()
	queue := &MockQueuer{}
	bs := newTestBookService(NewMockClocker(), queue)

	book, err := bs.MarkRead(ctx, 1)
	require.NoError(t, err)
	assert.True(t, book.IsRead)

	book, err = bs.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "The Great Gatsby", book.Title)

	_, err = bs.Delete(ctx, 1)
	assert.True(t, errors.Is(err, ErrBookNotFound))
	_, err = bs.MarkRead(ctx, 1)
	assert.True(t, errors.Is(err, ErrBookNotFound))

	events := queue.Pushed()
	require.Len(t, events, 2)
	assert.Equal(t, ActionRead, events[0].Action)
	assert.Equal(t, ActionDeleted, events[1].Action)
}

// TestBookServicePublishFailure ensures a queue failure does not fail the mutation.
func TestBookServicePublishFailure(t *testing.T) {
	bs := newTestBookService(NewMockClocker(), &MockQueuer{Err: errors.New("queue down")})
	book, err := bs.MarkRead(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, book.IsRead)
}

// TestBookServiceStorageFailure ensures storage errors are passed through.
func TestBookServiceStorageFailure(t *testing.T) {
	storageErr := errors.New("storage failure")
	storage := &MockBookStorage{
		GetAllFunc: func(ctx context.Context) ([]Book, error) {
			return nil, storageErr
		},
	}
	bs := NewBookService(zap.NewNop(), testConfig(), NewMockClocker(), storage, &MockQueuer{})

	_, err := bs.Query(context.Background(), BookFilter{})
	assert.ErrorIs(t, err, storageErr)
	_, err = bs.Stats(context.Background())
	assert.ErrorIs(t, err, storageErr)
	_, err = bs.Create(context.Background(), BookPayload{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: float64(1965)})
	assert.ErrorIs(t, err, storageErr)
	assert.Equal(t, ErrorKind(0), KindOf(err))
}

// TestBookServiceConcurrentCreate ensures concurrent creations of the same book yield a single record.
func TestBookServiceConcurrentCreate(t *testing.T) {
	bs := newTestBookService(NewMockClocker(), &MockQueuer{})
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created, duplicates := 0, 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bs.Create(ctx, BookPayload{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: float64(1965)})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if errors.Is(err, ErrDuplicateBook) {
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 19, duplicates)
	stats, err := bs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Summary.TotalBooks)
}
