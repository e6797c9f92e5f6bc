package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

type journalConsumer struct {
	logger  *zap.Logger
	queue   Queuer
	journal Journal
}

func NewJournalConsumer(logger *zap.Logger, q Queuer, journal Journal) Consumer {
	return &journalConsumer{logger, q, journal}
}

// Consume moves events from the queues into the journal until the context is done.
func (jc *journalConsumer) Consume(ctx context.Context, qids ...string) error {
	for {
		qid, event, err := jc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			jc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			jc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		switch event.Action {
		case ActionCreated, ActionUpdated, ActionDeleted, ActionRead, ActionRated:
			if _, err = jc.journal.Append(ctx, event); err != nil {
				jc.logger.Error("consumer: failed to journal event",
					zap.String("qid", qid),
					zap.String("event.action", event.Action),
					zap.Int("book.id", event.BookID),
					zap.Error(err),
				)
			}
		default:
			jc.logger.Warn("consumer: received event with unknown action", zap.String("qid", qid), zap.Any("event", event))
		}
	}
}
