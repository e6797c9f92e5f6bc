package main

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	InsertFunc   func(ctx context.Context, fields BookFields) (Book, error)
	GetOneFunc   func(ctx context.Context, id int) (Book, error)
	GetAllFunc   func(ctx context.Context) ([]Book, error)
	ReplaceFunc  func(ctx context.Context, id int, fields BookFields) (Book, error)
	RemoveFunc   func(ctx context.Context, id int) (Book, error)
	MarkReadFunc func(ctx context.Context, id int) (Book, error)
	RateFunc     func(ctx context.Context, id int, rating int) (Book, error)
}

// Insert mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Insert(ctx context.Context, fields BookFields) (Book, error) {
	return m.InsertFunc(ctx, fields)
}

// GetOne mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetOne(ctx context.Context, id int) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// Replace mocks the behavior of replacing a book by the repository.
func (m *MockBookStorage) Replace(ctx context.Context, id int, fields BookFields) (Book, error) {
	return m.ReplaceFunc(ctx, id, fields)
}

// Remove mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) Remove(ctx context.Context, id int) (Book, error) {
	return m.RemoveFunc(ctx, id)
}

// MarkRead mocks the behavior of flagging a book as read by the repository.
func (m *MockBookStorage) MarkRead(ctx context.Context, id int) (Book, error) {
	return m.MarkReadFunc(ctx, id)
}

// Rate mocks the behavior of rating a book by the repository.
func (m *MockBookStorage) Rate(ctx context.Context, id int, rating int) (Book, error) {
	return m.RateFunc(ctx, id, rating)
}

// MockQueuer records pushed events and fails pushes when Err is set.
type MockQueuer struct {
	mu     sync.Mutex
	Err    error
	Events []BookEvent
}

func (mq *MockQueuer) Push(_ context.Context, _ string, event BookEvent) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	if mq.Err != nil {
		return mq.Err
	}
	mq.Events = append(mq.Events, event)
	return nil
}

func (mq *MockQueuer) Pop(ctx context.Context, _ ...string) (string, BookEvent, error) {
	<-ctx.Done()
	return "", BookEvent{}, ctx.Err()
}

// Pushed returns a copy of the recorded events.
func (mq *MockQueuer) Pushed() []BookEvent {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	return append([]BookEvent(nil), mq.Events...)
}

// MockJournal is an in-memory Journal.
type MockJournal struct {
	mu      sync.Mutex
	ListErr error
	events  []BookEvent
}

func (mj *MockJournal) Append(_ context.Context, event BookEvent) (BookEvent, error) {
	mj.mu.Lock()
	defer mj.mu.Unlock()
	event.Seq = uint64(len(mj.events) + 1)
	mj.events = append(mj.events, event)
	return event, nil
}

func (mj *MockJournal) List(_ context.Context) ([]BookEvent, error) {
	mj.mu.Lock()
	defer mj.mu.Unlock()
	if mj.ListErr != nil {
		return nil, mj.ListErr
	}
	return append([]BookEvent{}, mj.events...), nil
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2024, 0o2, 10, 0o0, 0o0, 0o0, 0, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sat, 10 Feb 2024 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}

// testConfig returns a configuration suitable for unit tests.
func testConfig() *Config {
	return &Config{
		OpsEndpointsEnable: true,
		Server:             ServerConfig{Host: "localhost", Port: "8080"},
		Queue:              QueueConfig{Name: EventsQueue, BufferSize: 16},
	}
}

// newTestBookService builds a book service over a seeded in-memory storage.
func newTestBookService(clock Clocker, queue Queuer) BookServiceProvider {
	storage := NewMemoryBookStorage(zap.NewNop(), clock, SeedBooks()...)
	return NewBookService(zap.NewNop(), testConfig(), clock, storage, queue)
}

// newTestAPIHandler builds an api handler over a seeded in-memory storage.
func newTestAPIHandler(config *Config, queue Queuer, journal Journal) *APIHandler {
	clock := NewMockClocker()
	storage := NewMemoryBookStorage(zap.NewNop(), clock, SeedBooks()...)
	bs := NewBookService(zap.NewNop(), config, clock, storage, queue)
	return NewAPIHandler(
		zap.NewNop(),
		config,
		&Statistics{started: clock.Now()},
		clock,
		NewMockUIDHandler("abc", false),
		bs,
		journal,
	)
}
