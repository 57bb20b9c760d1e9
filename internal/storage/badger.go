package storage

import (
	"context"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/hyperjump/vectord/internal/errs"
	"github.com/hyperjump/vectord/internal/models"
	"go.uber.org/zap"
)

// BadgerStore implements Store on a BadgerDB directory. The collection is the
// key prefix "entries/" followed by the 8-byte position.
type BadgerStore struct {
	db *badger.DB
}

var badgerPrefix = []byte(EntriesCollection + "/")

// NewBadgerStore opens or creates a BadgerDB database in the directory dir.
func NewBadgerStore(dir string, logger *zap.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := badger.DefaultOptions(dir).
		WithSyncWrites(true).
		WithLogger(badgerLogger{logger.Sugar()})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errs.Storage("failed to open badger database", err)
	}
	return &BadgerStore{db: db}, nil
}

func badgerKey(i int) []byte {
	return append(append([]byte(nil), badgerPrefix...), encodeKey(i)...)
}

// Replace implements Store. The old collection is dropped before the new
// records are written in one batch.
func (s *BadgerStore) Replace(_ context.Context, records []models.Record) error {
	if err := s.db.DropPrefix(badgerPrefix); err != nil {
		return errs.Storage("failed to clear entries", err)
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for i, r := range records {
		value, err := encodeRecord(i, r)
		if err != nil {
			return err
		}
		if err := wb.Set(badgerKey(i), value); err != nil {
			return errs.Storage("failed to write entry", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return errs.Storage("failed to write entries", err)
	}
	if err := s.db.Sync(); err != nil {
		return errs.Storage("failed to flush entries", err)
	}
	return nil
}

// Load implements Store.
func (s *BadgerStore) Load(_ context.Context) ([]models.Record, error) {
	records := []models.Record{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 100, Prefix: badgerPrefix})
		defer it.Close()
		for it.Seek(badgerPrefix); it.ValidForPrefix(badgerPrefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			r, err := decodeRecord(item.KeyCopy(nil)[len(badgerPrefix):], value)
			if err != nil {
				return err
			}
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, classify("failed to read entries", err)
	}
	return records, nil
}

// Count implements Store.
func (s *BadgerStore) Count(_ context.Context) (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: badgerPrefix})
		defer it.Close()
		for it.Seek(badgerPrefix); it.ValidForPrefix(badgerPrefix); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, errs.Storage("failed to count entries", err)
	}
	return n, nil
}

// Backend implements Store.
func (s *BadgerStore) Backend() string { return BackendBadger }

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's logging through zap; badger's info output is demoted to debug.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(f string, v ...interface{})   { l.s.Errorf(f, v...) }
func (l badgerLogger) Warningf(f string, v ...interface{}) { l.s.Warnf(f, v...) }
func (l badgerLogger) Infof(f string, v ...interface{})    { l.s.Debugf(f, v...) }
func (l badgerLogger) Debugf(f string, v ...interface{})   { l.s.Debugf(f, v...) }
