// Package metrics records operational counters for the vector service.
package metrics

import (
	"sync/atomic"
	"time"
)

// Names reported in snapshots.
const (
	InitTotal          = "vector_init_total"
	InitErrors         = "vector_init_errors_total"
	InitLatencySeconds = "vector_init_latency_seconds"
	SearchTotal        = "vector_search_total"
	SearchErrors       = "vector_search_errors_total"
	SearchLatencyAvg   = "vector_search_latency_seconds_avg"
	SearchLatencyLast  = "vector_search_latency_seconds"
	StoreSize          = "vector_store_size"
)

// Collector receives one call per service operation.
// Implement it to forward to an external monitoring system.
type Collector interface {
	// RecordInit is called after every Init. count is the number of records loaded.
	RecordInit(count int, duration time.Duration, err error)

	// RecordSearch is called after every Search.
	RecordSearch(topN, results int, duration time.Duration, err error)

	// SetStoreSize is called whenever the shards are reloaded.
	SetStoreSize(n int)
}

// Noop discards everything.
type Noop struct{}

func (Noop) RecordInit(int, time.Duration, error)        {}
func (Noop) RecordSearch(int, int, time.Duration, error) {}
func (Noop) SetStoreSize(int)                            {}

// Basic keeps in-memory counters.
type Basic struct {
	initCount       atomic.Int64
	initErrors      atomic.Int64
	initLastNanos   atomic.Int64
	searchCount     atomic.Int64
	searchErrors    atomic.Int64
	searchLastNanos atomic.Int64
	searchNanos     atomic.Int64
	storeSize       atomic.Int64
}

// NewBasic returns a zeroed Basic collector.
func NewBasic() *Basic {
	return &Basic{}
}

// RecordInit implements Collector.
func (b *Basic) RecordInit(_ int, duration time.Duration, err error) {
	b.initCount.Add(1)
	if err != nil {
		b.initErrors.Add(1)
		return
	}
	b.initLastNanos.Store(duration.Nanoseconds())
}

// RecordSearch implements Collector.
func (b *Basic) RecordSearch(_, _ int, duration time.Duration, err error) {
	b.searchCount.Add(1)
	if err != nil {
		b.searchErrors.Add(1)
		return
	}
	b.searchLastNanos.Store(duration.Nanoseconds())
	b.searchNanos.Add(duration.Nanoseconds())
}

// SetStoreSize implements Collector.
func (b *Basic) SetStoreSize(n int) {
	b.storeSize.Store(int64(n))
}

// Snapshot returns the current values keyed by metric name.
func (b *Basic) Snapshot() map[string]float64 {
	searches := b.searchCount.Load()
	okSearches := searches - b.searchErrors.Load()
	var avg float64
	if okSearches > 0 {
		avg = time.Duration(b.searchNanos.Load() / okSearches).Seconds()
	}
	return map[string]float64{
		InitTotal:          float64(b.initCount.Load()),
		InitErrors:         float64(b.initErrors.Load()),
		InitLatencySeconds: time.Duration(b.initLastNanos.Load()).Seconds(),
		SearchTotal:        float64(searches),
		SearchErrors:       float64(b.searchErrors.Load()),
		SearchLatencyAvg:   avg,
		SearchLatencyLast:  time.Duration(b.searchLastNanos.Load()).Seconds(),
		StoreSize:          float64(b.storeSize.Load()),
	}
}

// Snapshotter is implemented by collectors that can report their values.
type Snapshotter interface {
	Snapshot() map[string]float64
}
