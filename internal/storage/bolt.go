package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/vectord/internal/errs"
	"github.com/hyperjump/vectord/internal/models"
	bolt "go.etcd.io/bbolt"
)

var entriesBucket = []byte(EntriesCollection)

// BoltStore implements Store on a bbolt database with one bucket for the corpus.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens or creates a bbolt database at path and ensures the entries bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errs.Storage("failed to open database", err)
	}
	s := &BoltStore{db: db}
	if err := s.entriesTree(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// entriesTree creates the entries bucket if it is absent.
func (s *BoltStore) entriesTree() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(entriesBucket)
		return err
	})
	return classify("failed to open entries bucket", err)
}

// Replace drops and recreates the entries bucket in a single transaction.
func (s *BoltStore) Replace(ctx context.Context, records []models.Record) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(entriesBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		bkt, err := tx.CreateBucket(entriesBucket)
		if err != nil {
			return err
		}
		// keys are appended in order
		bkt.FillPercent = 1.0
		for i, r := range records {
			value, err := encodeRecord(i, r)
			if err != nil {
				return err
			}
			if err := bkt.Put(encodeKey(i), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classify("failed to replace entries", err)
	}
	if err := s.db.Sync(); err != nil {
		return errs.Storage("failed to flush database", err)
	}
	return nil
}

// Load reads the entries bucket with a cursor; big-endian keys sort numerically.
func (s *BoltStore) Load(ctx context.Context) ([]models.Record, error) {
	records := make([]models.Record, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(entriesBucket)
		if bkt == nil {
			return nil
		}
		c := bkt.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			r, err := decodeRecord(k, v)
			if err != nil {
				return err
			}
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, classify("failed to load entries", err)
	}
	return records, nil
}

// Count returns the number of keys in the entries bucket.
func (s *BoltStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		if bkt := tx.Bucket(entriesBucket); bkt != nil {
			n = bkt.Stats().KeyN
		}
		return nil
	})
	return n, classify("failed to count entries", err)
}

// Backend implements Store.
func (s *BoltStore) Backend() string { return BackendBolt }

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
