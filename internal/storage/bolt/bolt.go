package bolt

import (
	"context"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/storage"
	"github.com/boltdb/bolt"
	"time"
)

var bucketName = []byte("client_state")

// Storage is the durable key-value area backed by a single bolt file.
type Storage struct {
	db *bolt.DB
}

func New(path string) (*Storage, error) {
	const op = "storage.bolt.New"

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// the bucket is created once, on open
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	const op = "storage.bolt.Get"

	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte(key))
		if raw == nil {
			return storage.ErrKeyNotFound
		}
		// raw is only valid inside the transaction
		value = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return value, nil
}

func (s *Storage) Set(_ context.Context, key string, value []byte) error {
	const op = "storage.bolt.Set"

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Delete(_ context.Context, keys ...string) error {
	const op = "storage.bolt.Delete"

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
