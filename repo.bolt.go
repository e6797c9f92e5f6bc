package main

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var _ Journal = (*boltJournal)(nil) // ensure boltJournal implements Journal.

// Journal records committed book mutations in order.
type Journal interface {
	Append(ctx context.Context, event BookEvent) (BookEvent, error)
	List(ctx context.Context) ([]BookEvent, error)
}

type boltJournal struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltJournal provides an instance of bolt-based change journal.
func NewBoltJournal(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) *boltJournal {
	return &boltJournal{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the underlying bolt database.
func (bj *boltJournal) Close() error {
	return bj.client.Close()
}

// seqKey encodes a sequence number so that keys sort in numeric order.
func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

// Append stores the event under the next bucket sequence and returns it with that sequence set.
func (bj *boltJournal) Append(_ context.Context, event BookEvent) (BookEvent, error) {
	err := bj.client.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bj.config.BucketName))
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		event.Seq = seq
		eventBytes, err := eventCodec.Marshal(event)
		if err != nil {
			return err
		}
		return bucket.Put(seqKey(seq), eventBytes)
	})
	return event, err
}

// List retrieves all journal events in sequence order.
func (bj *boltJournal) List(_ context.Context) ([]BookEvent, error) {
	tx, err := bj.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(bj.config.BucketName)).Cursor()

	events := []BookEvent{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var event BookEvent
		if err = eventCodec.Unmarshal(v, &event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
