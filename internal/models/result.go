package models

// InitResponse reports how many records were loaded.
type InitResponse struct {
	Message string `json:"message"`
}

// SearchResult is a single scored corpus record.
type SearchResult struct {
	Text      string    `json:"text"`
	Score     float32   `json:"score"`
	Embedding []float32 `json:"embedding"`
}

// SearchResponse holds results ordered by descending score.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// StatusResponse describes the loaded corpus and the backing store.
type StatusResponse struct {
	Records        int                `json:"records"`
	ShardSizes     []int              `json:"shard_sizes"`
	Persisted      int                `json:"persisted"`
	StoreBackend   string             `json:"store_backend"`
	StorePath      string             `json:"store_path"`
	DatasetPath    string             `json:"dataset_path,omitempty"`
	DiskUsageBytes *int64             `json:"disk_usage_bytes,omitempty"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
