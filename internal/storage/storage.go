// Package storage persists the corpus so it survives process restarts.
package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/vectord/internal/errs"
	"github.com/hyperjump/vectord/internal/models"
	"go.uber.org/zap"
)

// EntriesCollection is the name of the bucket/table holding the corpus.
const EntriesCollection = "entries"

// Store is the durable backing store for the corpus.
//
// Records are keyed by their position as an 8-byte big-endian integer and
// stored as JSON, so iteration in key order is insertion order.
type Store interface {
	// Replace clears the collection and writes records under keys 0..n-1.
	// The write is flushed to durable media before Replace returns.
	Replace(ctx context.Context, records []models.Record) error

	// Load returns every record in key order. An empty collection yields an empty slice.
	// A single undecodable value fails the whole call with a serialization error.
	Load(ctx context.Context) ([]models.Record, error)

	// Count returns the number of persisted records.
	Count(ctx context.Context) (int, error)

	// Backend names the engine ("bolt", "sqlite" or "badger").
	Backend() string

	Close() error
}

// Backend identifiers accepted by Open.
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

type openOptions struct {
	logger *zap.Logger
}

// Option configures Open.
type Option func(*openOptions)

// WithLogger sets the logger handed to backends that log on their own (badger).
func WithLogger(l *zap.Logger) Option {
	return func(o *openOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Open opens or creates the store at path using the named backend ("" means bolt).
// For badger, path is a directory. Parent directories are created if they do not exist.
func Open(backend, path string, opts ...Option) (Store, error) {
	o := openOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if path == "" {
		return nil, errs.Config("persistent store path must not be empty")
	}
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	switch backend {
	case BackendBolt, "":
		return NewBoltStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	case BackendBadger:
		return NewBadgerStore(path, o.logger)
	default:
		return nil, errs.Config("unknown store backend: %s (supported: bolt, sqlite, badger)", backend)
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errs.Io("failed to create store directory", err)
	}
	return nil
}

func encodeKey(i int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(i))
	return key
}

func encodeRecord(i int, r models.Record) ([]byte, error) {
	value, err := json.Marshal(r)
	if err != nil {
		return nil, errs.Serialization(fmt.Sprintf("failed to encode record %d", i), err)
	}
	return value, nil
}

func decodeRecord(key, value []byte) (models.Record, error) {
	var r models.Record
	if err := json.Unmarshal(value, &r); err != nil {
		return r, errs.Serialization(fmt.Sprintf("failed to decode record %x", key), err)
	}
	return r, nil
}

// classify keeps errors that already carry a kind and marks the rest as storage errors.
func classify(message string, err error) error {
	if err == nil {
		return nil
	}
	if errs.KindOf(err) != errs.KindInternal {
		return err
	}
	return errs.Storage(message, err)
}
