// Package service implements the vector service: it populates the shards from a
// dataset or the persistent store and answers nearest-neighbour queries.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/hyperjump/vectord/internal/embedding"
	"github.com/hyperjump/vectord/internal/errs"
	"github.com/hyperjump/vectord/internal/metrics"
	"github.com/hyperjump/vectord/internal/models"
	"github.com/hyperjump/vectord/internal/storage"
	"github.com/hyperjump/vectord/internal/vector"
	"go.uber.org/zap"
)

// Config is resolved once at startup and fixed for the life of the Service.
type Config struct {
	ShardCount  int
	DatasetPath string // empty means Init always reads the persistent store
	StorePath   string // reported by Status only
}

// Service owns the shards and the persistent store handle.
type Service struct {
	cfg       Config
	shards    *vector.ShardStore
	store     storage.Store
	embedder  embedding.Embedder
	collector metrics.Collector
	logger    *zap.Logger

	// initMu serializes Init and the cold-start load in EnsureLoaded.
	// Searches against loaded shards never take it.
	initMu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCollector sets the metrics collector (default: no-op).
func WithCollector(c metrics.Collector) Option {
	return func(s *Service) { s.collector = c }
}

// WithEmbedder replaces the byte embedder.
func WithEmbedder(e embedding.Embedder) Option {
	return func(s *Service) { s.embedder = e }
}

// New creates a Service with an empty corpus.
func New(cfg Config, store storage.Store, opts ...Option) *Service {
	s := &Service{
		cfg:       cfg,
		store:     store,
		embedder:  embedding.NewByteEmbedder(),
		collector: metrics.Noop{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = vector.NewShardStore(cfg.ShardCount, vector.WithCollector(s.collector))
	return s
}

// Init (re)populates the shards. With a dataset configured and present, the
// dataset is embedded and replaces the persisted corpus; with the dataset
// missing or unconfigured, the persisted corpus is loaded instead.
func (s *Service) Init(ctx context.Context) (resp *models.InitResponse, err error) {
	start := time.Now()
	count := 0
	defer func() { s.collector.RecordInit(count, time.Since(start), err) }()

	s.initMu.Lock()
	defer s.initMu.Unlock()

	records, err := s.resolveRecords(ctx)
	if err != nil {
		s.logger.Warn("init failed", zap.Error(err))
		return nil, err
	}
	if len(records) == 0 {
		return nil, errs.EmptyStore("vector store is empty")
	}

	s.shards.Load(records)
	count = len(records)
	s.logger.Info("store initialized",
		zap.Int("count", count),
		zap.Duration("elapsed", time.Since(start)))
	return &models.InitResponse{Message: fmt.Sprintf("loaded %d", count)}, nil
}

func (s *Service) resolveRecords(ctx context.Context) ([]models.Record, error) {
	path := s.cfg.DatasetPath
	if path == "" {
		s.logger.Info("loading vector store from persistence")
		return s.loadFromPersistence(ctx)
	}

	s.logger.Info("loading vector store from dataset", zap.String("dataset", path))
	texts, err := ReadDataset(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("dataset missing, falling back to persistent store", zap.String("dataset", path))
			return s.loadFromPersistence(ctx)
		}
		return nil, err
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed dataset: %w", err)
	}
	records := make([]models.Record, len(texts))
	for i, text := range texts {
		records[i] = models.Record{Text: text, Embedding: embeddings[i]}
	}
	if err := s.store.Replace(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// loadFromPersistence returns the persisted corpus, or an EmptyStore error when there is none.
func (s *Service) loadFromPersistence(ctx context.Context) ([]models.Record, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errs.ErrEmptyStore
	}
	return records, nil
}

// EnsureLoaded pulls the persisted corpus into the shards when every shard is empty.
func (s *Service) EnsureLoaded(ctx context.Context) error {
	if !s.shards.IsEmpty() {
		return nil
	}
	s.initMu.Lock()
	defer s.initMu.Unlock()
	// an Init may have finished while we waited
	if !s.shards.IsEmpty() {
		return nil
	}
	records, err := s.loadFromPersistence(ctx)
	if err != nil {
		return err
	}
	s.shards.Load(records)
	s.logger.Info("store lazily loaded from persistence", zap.Int("count", len(records)))
	return nil
}

// Search scores every record against the embedded query and returns the top_n best.
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) (resp *models.SearchResponse, err error) {
	start := time.Now()
	var topN, returned int
	defer func() { s.collector.RecordSearch(topN, returned, time.Since(start), err) }()

	if req == nil {
		return nil, errs.InvalidArgument("missing search request")
	}
	topN = int(req.TopN)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.EnsureLoaded(ctx); err != nil {
		if errors.Is(err, errs.ErrEmptyStore) {
			return nil, errs.EmptyStore("store not initialized")
		}
		return nil, err
	}
	s.logger.Debug("search request", zap.Uint32("top_n", req.TopN), zap.String("text", req.Text))

	query, err := s.embedder.Embed(ctx, req.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	results := vector.TopN(s.shards.Scan(query, vector.CosineSimilarity), topN)
	returned = len(results)
	return &models.SearchResponse{Results: results}, nil
}

// Status reports corpus size, shard layout and store details.
func (s *Service) Status(ctx context.Context) (*models.StatusResponse, error) {
	persisted, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	resp := &models.StatusResponse{
		Records:      s.shards.Len(),
		ShardSizes:   s.shards.ShardSizes(),
		Persisted:    persisted,
		StoreBackend: s.store.Backend(),
		StorePath:    s.cfg.StorePath,
		DatasetPath:  s.cfg.DatasetPath,
	}
	if s.cfg.StorePath != "" {
		if n, err := storage.DiskUsage(s.store.Backend(), s.cfg.StorePath); err == nil {
			resp.DiskUsageBytes = &n
		}
	}
	if snap, ok := s.collector.(metrics.Snapshotter); ok {
		resp.Metrics = snap.Snapshot()
	}
	if c, ok := s.embedder.(*embedding.CachedEmbedder); ok {
		if resp.Metrics == nil {
			resp.Metrics = make(map[string]float64)
		}
		st := c.CacheStats()
		resp.Metrics["embedding_cache_entries"] = float64(st.Entries)
		resp.Metrics["embedding_cache_hits"] = float64(st.Hits)
		resp.Metrics["embedding_cache_misses"] = float64(st.Misses)
	}
	return resp, nil
}

// DatasetPath returns the configured dataset path, if any.
func (s *Service) DatasetPath() string {
	return s.cfg.DatasetPath
}
