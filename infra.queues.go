package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

// Predefinied Queue IDs.
const (
	EventsQueue = "bookshelf.events"
)

// eventCodec encodes book events pushed to queues and stored into the journal.
var eventCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrQueueFull is returned when the in-memory queue buffer is exhausted.
var ErrQueueFull = errors.New("queue is full")

var (
	_ Queuer = (*redisQueue)(nil)  // ensure redisQueue implements Queuer.
	_ Queuer = (*memoryQueue)(nil) // ensure memoryQueue implements Queuer.
)

// Queuer describes a queue.
type Queuer interface {
	Push(ctx context.Context, qid string, event BookEvent) error
	Pop(ctx context.Context, qids ...string) (string, BookEvent, error)
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// redisQueue represents a redis list based queue.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues an event onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, event BookEvent) error {
	eventBytes, err := eventCodec.Marshal(event)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, eventBytes).Err()
}

// Pop returns the first dequeued event from the list of queue ids.
// It blocks until an event is available or the context is done.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, BookEvent, error) {
	var event BookEvent
	var qid string
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return qid, event, err
	}

	if err = eventCodec.Unmarshal([]byte(infos[1]), &event); err != nil {
		return qid, event, err
	}
	qid = infos[0]
	return qid, event, nil
}

type queuedEvent struct {
	qid   string
	event BookEvent
}

// memoryQueue is a buffered channel based queue used when redis is disabled.
// All queue ids share the same channel so Pop ignores its qids filter.
type memoryQueue struct {
	items chan queuedEvent
}

func NewMemoryQueue(size int) Queuer {
	return &memoryQueue{items: make(chan queuedEvent, size)}
}

// Push enqueues an event without blocking. It fails with ErrQueueFull
// when the buffer has no room left.
func (q *memoryQueue) Push(ctx context.Context, qid string, event BookEvent) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.items <- queuedEvent{qid: qid, event: event}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pop blocks until an event is available or the context is done.
func (q *memoryQueue) Pop(ctx context.Context, _ ...string) (string, BookEvent, error) {
	select {
	case <-ctx.Done():
		return "", BookEvent{}, ctx.Err()
	case item := <-q.items:
		return item.qid, item.event, nil
	}
}
