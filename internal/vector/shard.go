package vector

import (
	"runtime"
	"sort"
	"sync"

	"github.com/hyperjump/vectord/internal/metrics"
	"github.com/hyperjump/vectord/internal/models"
	"golang.org/x/sync/errgroup"
)

// ScoreFunc scores a query embedding against a record embedding.
type ScoreFunc func(query, record []float32) float32

type shard struct {
	mu      sync.RWMutex
	records []models.Record
}

// ShardStore partitions the corpus into independently locked shards.
// Records are assigned round-robin by load position, never by content, so the
// shard count changes grouping but never which records a scan returns.
type ShardStore struct {
	shards    []*shard
	collector metrics.Collector
}

// ShardOption configures a ShardStore.
type ShardOption func(*ShardStore)

// WithCollector reports the corpus size to c on every Load.
func WithCollector(c metrics.Collector) ShardOption {
	return func(s *ShardStore) { s.collector = c }
}

// NewShardStore creates count empty shards. A count below 1 is treated as 1.
func NewShardStore(count int, opts ...ShardOption) *ShardStore {
	if count < 1 {
		count = 1
	}
	s := &ShardStore{
		shards:    make([]*shard, count),
		collector: metrics.Noop{},
	}
	for i := range s.shards {
		s.shards[i] = &shard{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the contents of every shard with records, partitioned by i mod shard count.
// Each shard is swapped under its own write lock; the reload is not atomic across shards.
func (s *ShardStore) Load(records []models.Record) {
	n := len(s.shards)
	partitioned := make([][]models.Record, n)
	for i := range partitioned {
		partitioned[i] = make([]models.Record, 0, len(records)/n+1)
	}
	for i, r := range records {
		partitioned[i%n] = append(partitioned[i%n], r)
	}
	for i, sh := range s.shards {
		sh.mu.Lock()
		sh.records = partitioned[i]
		sh.mu.Unlock()
	}
	s.collector.SetStoreSize(len(records))
}

// IsEmpty reports whether every shard is empty.
func (s *ShardStore) IsEmpty() bool {
	for _, sh := range s.shards {
		sh.mu.RLock()
		n := len(sh.records)
		sh.mu.RUnlock()
		if n > 0 {
			return false
		}
	}
	return true
}

// Scan scores every record against query and returns the results of all shards
// concatenated in shard order. Shards are scanned concurrently, each under its read lock.
func (s *ShardStore) Scan(query []float32, score ScoreFunc) []models.SearchResult {
	partial := make([][]models.SearchResult, len(s.shards))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sh := range s.shards {
		i, sh := i, sh
		g.Go(func() error {
			sh.mu.RLock()
			defer sh.mu.RUnlock()
			out := make([]models.SearchResult, len(sh.records))
			for j, r := range sh.records {
				out[j] = models.SearchResult{
					Text:      r.Text,
					Score:     score(query, r.Embedding),
					Embedding: append([]float32(nil), r.Embedding...),
				}
			}
			partial[i] = out
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, p := range partial {
		total += len(p)
	}
	results := make([]models.SearchResult, 0, total)
	for _, p := range partial {
		results = append(results, p...)
	}
	return results
}

// Len returns the number of records across all shards.
func (s *ShardStore) Len() int {
	total := 0
	for _, n := range s.ShardSizes() {
		total += n
	}
	return total
}

// ShardSizes returns the record count of each shard.
func (s *ShardStore) ShardSizes() []int {
	sizes := make([]int, len(s.shards))
	for i, sh := range s.shards {
		sh.mu.RLock()
		sizes[i] = len(sh.records)
		sh.mu.RUnlock()
	}
	return sizes
}

// ShardCount returns the number of shards.
func (s *ShardStore) ShardCount() int {
	return len(s.shards)
}

// TopN sorts results by descending score and keeps the first n.
// Equal scores keep their scan order.
func TopN(results []models.SearchResult, n int) []models.SearchResult {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if n < len(results) {
		results = results[:n]
	}
	return results
}
