package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestMemoryQueue ensures events are delivered in order and a full buffer rejects pushes.
func TestMemoryQueue(t *testing.T) {
	q := NewMemoryQueue(2)
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, EventsQueue, BookEvent{Action: ActionCreated, BookID: 1}))
	require.NoError(t, q.Push(ctx, EventsQueue, BookEvent{Action: ActionDeleted, BookID: 1}))
	assert.True(t, errors.Is(q.Push(ctx, EventsQueue, BookEvent{Action: ActionRead}), ErrQueueFull))

	qid, event, err := q.Pop(ctx, EventsQueue)
	require.NoError(t, err)
	assert.Equal(t, EventsQueue, qid)
	assert.Equal(t, ActionCreated, event.Action)

	_, event, err = q.Pop(ctx, EventsQueue)
	require.NoError(t, err)
	assert.Equal(t, ActionDeleted, event.Action)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = q.Pop(cctx, EventsQueue)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestJournalConsumer ensures every committed mutation ends up into the journal.
func TestJournalConsumer(t *testing.T) {
	queue := NewMemoryQueue(16)
	journal := &MockJournal{}
	bs := newTestBookService(NewMockClocker(), queue)
	consumer := NewJournalConsumer(zap.NewNop(), queue, journal)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- consumer.Consume(ctx, EventsQueue)
	}()

	book, err := bs.Create(ctx, BookPayload{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: float64(1965)})
	require.NoError(t, err)
	_, err = bs.Rate(ctx, book.ID, float64(5))
	require.NoError(t, err)
	_, err = bs.MarkRead(ctx, book.ID)
	require.NoError(t, err)
	_, err = bs.Replace(ctx, book.ID, BookPayload{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: float64(1966)})
	require.NoError(t, err)
	_, err = bs.Delete(ctx, book.ID)
	require.NoError(t, err)
	// rejected mutations are not journaled.
	_, err = bs.Delete(ctx, book.ID)
	require.Error(t, err)

	require.Eventually(t, func() bool {
		events, _ := journal.List(context.Background())
		return len(events) == 5
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop on context cancellation")
	}

	events, err := journal.List(context.Background())
	require.NoError(t, err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		assert.Equal(t, book.ID, e.BookID)
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{ActionCreated, ActionRated, ActionRead, ActionUpdated, ActionDeleted}, actions)
}
