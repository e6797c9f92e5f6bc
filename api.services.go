package main

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type BookServiceProvider interface {
	Create(ctx context.Context, payload BookPayload) (Book, error)
	GetOne(ctx context.Context, id int) (Book, error)
	Query(ctx context.Context, filter BookFilter) ([]Book, error)
	Replace(ctx context.Context, id int, payload BookPayload) (Book, error)
	Delete(ctx context.Context, id int) (Book, error)
	MarkRead(ctx context.Context, id int) (Book, error)
	Rate(ctx context.Context, id int, rating any) (Book, error)
	Stats(ctx context.Context) (Stats, error)
}

// BookService runs the validation rules and commits book mutations.
// Mutations are serialized so a duplicate check and the insert that
// follows it observe the same collection.
type BookService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	storage BookStorage
	queue   Queuer
	mu      sync.Mutex
}

func NewBookService(logger *zap.Logger, config *Config, clock Clocker, storage BookStorage, queue Queuer) BookServiceProvider {
	return &BookService{
		logger:  logger,
		config:  config,
		clock:   clock,
		storage: storage,
		queue:   queue,
	}
}

// publish pushes the event of a committed mutation. Failures are only logged.
func (bs *BookService) publish(ctx context.Context, action string, book Book) {
	RecordBookMutation(action)
	event := BookEvent{Action: action, BookID: book.ID, Book: book, At: bs.clock.Now()}
	if err := bs.queue.Push(context.WithoutCancel(ctx), bs.config.Queue.Name, event); err != nil {
		bs.logger.Error("service: failed to push event to queue",
			zap.String("qid", bs.config.Queue.Name),
			zap.String("event.action", action),
			zap.Int("book.id", book.ID),
			zap.Error(err),
		)
	}
}

func (bs *BookService) Create(ctx context.Context, payload BookPayload) (Book, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	fields, err := ValidateBookPayload(payload, bs.clock.Now())
	if err != nil {
		return Book{}, err
	}

	books, err := bs.storage.GetAll(ctx)
	if err != nil {
		return Book{}, err
	}
	if err = ValidateNoDuplicate(fields.Title, fields.Author, books, 0); err != nil {
		return Book{}, err
	}

	// new books always start unread and unrated.
	fields.IsRead = false
	fields.Rating = nil
	book, err := bs.storage.Insert(ctx, fields)
	if err != nil {
		return Book{}, err
	}
	bs.publish(ctx, ActionCreated, book)
	return book, nil
}

func (bs *BookService) GetOne(ctx context.Context, id int) (Book, error) {
	return bs.storage.GetOne(ctx, id)
}

func (bs *BookService) Query(ctx context.Context, filter BookFilter) ([]Book, error) {
	books, err := bs.storage.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return Query(books, filter), nil
}

func (bs *BookService) Replace(ctx context.Context, id int, payload BookPayload) (Book, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if _, err := bs.storage.GetOne(ctx, id); err != nil {
		return Book{}, err
	}

	fields, err := ValidateBookPayload(payload, bs.clock.Now())
	if err != nil {
		return Book{}, err
	}

	rating := payload.Rating
	if IsFalsy(rating) {
		rating = nil
	}
	if fields.Rating, err = ValidateRating(rating); err != nil {
		return Book{}, err
	}

	book, err := bs.storage.Replace(ctx, id, fields)
	if err != nil {
		return Book{}, err
	}
	bs.publish(ctx, ActionUpdated, book)
	return book, nil
}

func (bs *BookService) Delete(ctx context.Context, id int) (Book, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	book, err := bs.storage.Remove(ctx, id)
	if err != nil {
		return Book{}, err
	}
	bs.publish(ctx, ActionDeleted, book)
	return book, nil
}

func (bs *BookService) MarkRead(ctx context.Context, id int) (Book, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	book, err := bs.storage.MarkRead(ctx, id)
	if err != nil {
		return Book{}, err
	}
	bs.publish(ctx, ActionRead, book)
	return book, nil
}

func (bs *BookService) Rate(ctx context.Context, id int, rating any) (Book, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if _, err := bs.storage.GetOne(ctx, id); err != nil {
		return Book{}, err
	}

	value, ok := asInteger(rating)
	if !ok || bookValidate.Var(value, "min=1,max=5") != nil {
		return Book{}, ErrInvalidRateValue
	}

	book, err := bs.storage.Rate(ctx, id, value)
	if err != nil {
		return Book{}, err
	}
	bs.publish(ctx, ActionRated, book)
	return book, nil
}

func (bs *BookService) Stats(ctx context.Context) (Stats, error) {
	books, err := bs.storage.GetAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(books, bs.clock.Now()), nil
}
